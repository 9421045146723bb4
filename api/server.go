/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from proxy headers
  3. Logging:    Request-scoped slog logger and completion log
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for a browser frontend

ROUTE GROUPS:
  /api/sessions/*       Session lifecycle and per-session ledger
  /api/scenarios        Demo scenario catalogue
  /                     Plain index page listing the endpoints

SECURITY NOTE:
  No authentication middleware. Session ids are unguessable UUIDs and are
  the only access control.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	applog "github.com/warp/ledger-engine/internal/log"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, logger *applog.Logger, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(applog.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/scenarios", h.ListScenarios)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)

			r.Route("/{sid}", func(r chi.Router) {
				r.Delete("/", h.DeleteSession)

				r.Post("/setup", h.Setup)
				r.Get("/budget", h.GetBudget)

				r.Post("/transactions", h.AddTransaction)
				r.Get("/transactions", h.ListTransactions)
				r.Post("/undo", h.Undo)
				r.Get("/balance", h.GetBalance)

				r.Route("/analytics", func(r chi.Router) {
					r.Get("/top-expenses", h.TopExpenses)
					r.Get("/top-categories", h.TopCategories)
					r.Get("/monthly-average", h.MonthlyAverage)
					r.Get("/usage", h.CategoryUsage)
				})

				r.Post("/fraud-scan", h.FraudScan)
				r.Post("/scenarios/load", h.LoadScenario)
			})
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Ledger Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Ledger Engine API</h1>
<p>Create a session with <code>POST /api/sessions</code>, then use the returned id.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/scenarios">/api/scenarios</a> - List demo scenarios</li>
<li><code>/api/sessions/{sid}/transactions</code> - Record and list transactions</li>
<li><code>/api/sessions/{sid}/analytics/top-expenses</code> - Analytics</li>
<li><code>/api/sessions/{sid}/fraud-scan</code> - Fraud heuristics</li>
</ul>
</body>
</html>`))
	})

	return r
}
