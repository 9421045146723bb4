/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the ledger engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env and environment configuration
  2. Apply command-line flag overrides and validate
  3. Build the logger, session store and API handler
  4. Configure HTTP router
  5. Run server and session reaper until a signal arrives

COMMAND-LINE FLAGS:
  -port        HTTP server port (overrides PORT)
  -log-level   debug | info | warn | error (overrides LOG_LEVEL)
  -undo-depth  undo history depth per ledger (overrides UNDO_DEPTH)
  -env         path to an optional .env file (default: .env)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (SHUTDOWN_TIMEOUT)
  3. Stop the session reaper
  4. Exit

EXAMPLES:
  # Run with defaults
  ./server

  # Run on different port with debug logs
  ./server -port=3000 -log-level=debug

ENVIRONMENT:
  See config/config.go for the full list.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - config/config.go: Environment variables
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/ledger-engine/api"
	"github.com/warp/ledger-engine/config"
	applog "github.com/warp/ledger-engine/internal/log"
	"github.com/warp/ledger-engine/ledger"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	envFile := flag.String("env", ".env", "optional .env file")
	port := flag.String("port", "", "HTTP server port")
	logLevel := flag.String("log-level", "", "log level")
	undoDepth := flag.Int("undo-depth", 0, "undo history depth per ledger")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *undoDepth != 0 {
		cfg.UndoDepth = *undoDepth
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logger
	level, _ := applog.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.Config{
		Level:     level,
		Component: applog.ComponentApp,
		Format:    cfg.LogFormat,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)

	// Sessions
	ledgerLogger := logger.WithComponent(applog.ComponentLedger)
	sessions := api.NewSessionStore(cfg.SessionTTL, func() *ledger.Ledger {
		return ledger.New(
			ledger.WithUndoDepth(cfg.UndoDepth),
			ledger.WithLogger(ledgerLogger.Logger),
		)
	})
	reaper := api.NewSessionReaper(sessions, cfg.ReaperInterval, logger)

	// Handler and router
	handler := api.NewHandler(sessions, cfg.UndoDepth)
	router := api.NewRouter(handler, logger, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting ledger server",
			"port", cfg.Port,
			"undo_depth", cfg.UndoDepth,
			"session_ttl", cfg.SessionTTL.String(),
			applog.FieldOperation, applog.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
		}
		return nil
	})

	g.Go(func() error {
		return reaper.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Failure(context.Background(), "Server stopped with error", err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
