/*
handlers.go - HTTP API handlers for the personal ledger engine

PURPOSE:
  Exposes the ledger engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the session's ledger.

ENDPOINTS:
  Sessions:
    POST   /api/sessions                         Create session (empty ledger)
    DELETE /api/sessions/{sid}                   End session

  Ledger:
    POST   /api/sessions/{sid}/setup             Apply budget plan
    POST   /api/sessions/{sid}/transactions      Record income or expense
    GET    /api/sessions/{sid}/transactions      Recent transactions (?limit=)
    POST   /api/sessions/{sid}/undo              Undo last transaction
    GET    /api/sessions/{sid}/balance           Balance and history
    GET    /api/sessions/{sid}/budget            Projection and usage

  Analytics:
    GET    /api/sessions/{sid}/analytics/top-expenses     (?n=)
    GET    /api/sessions/{sid}/analytics/top-categories   (?n=)
    GET    /api/sessions/{sid}/analytics/monthly-average
    GET    /api/sessions/{sid}/analytics/usage            (?category=&budget=)
    POST   /api/sessions/{sid}/fraud-scan

  Scenarios:
    GET    /api/scenarios                        List demo scenarios
    POST   /api/sessions/{sid}/scenarios/load    Load a demo scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Sessions: Per-session ledgers
  - Budgets: JSON to BudgetPlan conversion

REQUEST FLOW:
  1. Resolve the session
  2. Parse and validate input
  3. Call the ledger
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors (code invalid_input, per-field details)
  - 404: Unknown session
  - 409: Nothing to undo (code empty_history)

SEE ALSO:
  - dto.go: Request/response data structures
  - validate.go: Input validation
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/ledger-engine/factory"
	applog "github.com/warp/ledger-engine/internal/log"
	"github.com/warp/ledger-engine/ledger"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeInvalidInput    = "invalid_input"
	CodeEmptyHistory    = "empty_history"
	CodeSessionNotFound = "session_not_found"
	CodeNoBudget        = "no_budget"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Sessions  *SessionStore
	Budgets   *factory.BudgetFactory
	UndoDepth int
}

// NewHandler creates a handler.
func NewHandler(sessions *SessionStore, undoDepth int) *Handler {
	return &Handler{
		Sessions:  sessions,
		Budgets:   factory.NewBudgetFactory(),
		UndoDepth: undoDepth,
	}
}

// =============================================================================
// SESSION ENDPOINTS
// =============================================================================

// CreateSession starts a session with an empty ledger.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Create()
	applog.FromContext(r.Context()).Info("Session created", applog.FieldSessionID, s.ID)

	writeJSON(w, http.StatusCreated, SessionDTO{
		ID:        s.ID,
		CreatedAt: s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UndoDepth: h.UndoDepth,
	})
}

// DeleteSession discards a session and its ledger.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if !h.Sessions.Delete(sid) {
		writeErrorCode(w, http.StatusNotFound, "Session not found", CodeSessionNotFound, nil)
		return
	}
	applog.FromContext(r.Context()).Info("Session ended", applog.FieldSessionID, sid)
	w.WriteHeader(http.StatusNoContent)
}

// session resolves {sid}, writing a 404 when it is unknown.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, ok := h.Sessions.Get(chi.URLParam(r, "sid"))
	if !ok {
		writeErrorCode(w, http.StatusNotFound, "Session not found", CodeSessionNotFound, nil)
		return nil, false
	}
	return s, true
}

// =============================================================================
// LEDGER ENDPOINTS
// =============================================================================

// Setup applies a budget plan: the income plus one expense per line.
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	plan, date, err := h.Budgets.ParsePlan(string(body))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "Invalid budget plan", CodeInvalidInput, err)
		return
	}

	l := s.Ledger()
	added := l.ApplyBudget(plan, date)
	applog.FromContext(r.Context()).Info("Budget applied",
		applog.FieldSessionID, s.ID,
		applog.FieldOperation, applog.OpSetup,
		"entries", len(added))

	writeJSON(w, http.StatusCreated, SetupResponse{
		Transactions: toTransactionDTOs(added),
		Budget:       toBudgetDTO(plan, l.BudgetUsage()),
		Balance:      money(l.Balance()),
	})
}

// AddTransaction records one income or expense.
func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	v, err := req.Validate()
	if err != nil {
		writeValidationError(w, err)
		return
	}

	l := s.Ledger()
	tx := l.AddTransaction(v.Amount, v.Category, v.Description, v.Date, v.IsIncome)
	applog.FromContext(r.Context()).Debug("Transaction recorded",
		applog.FieldSessionID, s.ID,
		applog.FieldTransaction, int64(tx.ID))

	writeJSON(w, http.StatusCreated, TransactionResponse{
		Transaction:   toTransactionDTO(tx),
		Balance:       money(l.Balance()),
		UndoAvailable: l.UndoAvailable(),
	})
}

// ListTransactions returns the most recent transactions, newest first.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	limit, err := intQuery(r, "limit", ledger.DefaultRecentLimit)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	l := s.Ledger()
	writeJSON(w, http.StatusOK, TransactionListResponse{
		Transactions: toTransactionDTOs(l.RecentTransactions(limit)),
		Total:        l.Len(),
	})
}

// Undo removes the most recently recorded transaction still in history.
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	l := s.Ledger()
	tx, err := l.UndoLast()
	if err != nil {
		if errors.Is(err, ledger.ErrEmptyHistory) {
			writeErrorCode(w, http.StatusConflict, "Nothing to undo", CodeEmptyHistory, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Undo failed", err)
		return
	}
	applog.FromContext(r.Context()).Debug("Transaction undone",
		applog.FieldSessionID, s.ID,
		applog.FieldTransaction, int64(tx.ID))

	writeJSON(w, http.StatusOK, TransactionResponse{
		Transaction:   toTransactionDTO(tx),
		Balance:       money(l.Balance()),
		UndoAvailable: l.UndoAvailable(),
	})
}

// GetBalance returns the running balance and its history.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	snap := s.Ledger().Snapshot()
	history := make([]float64, 0, len(snap.BalanceHistory))
	for _, b := range snap.BalanceHistory {
		history = append(history, money(b))
	}
	writeJSON(w, http.StatusOK, BalanceDTO{
		Balance:        money(snap.Balance),
		History:        history,
		Transactions:   len(snap.Transactions),
		UndoAvailable:  snap.UndoAvailable,
		FormattedTotal: snap.Balance.StringFixed(2),
	})
}

// GetBudget returns the savings projection and usage per budget line.
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	l := s.Ledger()
	plan, ok := l.Budget()
	if !ok {
		writeErrorCode(w, http.StatusNotFound, "No budget has been set up", CodeNoBudget, nil)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(plan, l.BudgetUsage()))
}

// =============================================================================
// ANALYTICS ENDPOINTS
// =============================================================================

// TopExpenses returns the largest expenses.
func (h *Handler) TopExpenses(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	n, err := intQuery(r, "n", ledger.DefaultTopN)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTOs(s.Ledger().TopExpenses(n)))
}

// TopCategories returns the categories with the highest spending.
func (h *Handler) TopCategories(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	n, err := intQuery(r, "n", ledger.DefaultTopN)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTOs(s.Ledger().TopCategories(n)))
}

// MonthlyAverage returns the average of per-month expense totals.
func (h *Handler) MonthlyAverage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	avg := s.Ledger().MonthlyAverage()
	writeJSON(w, http.StatusOK, MonthlyAverageDTO{
		Average:   money(avg),
		Formatted: avg.StringFixed(2),
	})
}

// CategoryUsage returns a category's spending as a percentage of a budget.
func (h *Handler) CategoryUsage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	category, budget, err := parseUsageQuery(q.Get("category"), q.Get("budget"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	l := s.Ledger()
	pct := l.CategoryUsage(category, budget)
	writeJSON(w, http.StatusOK, UsageDTO{
		Category: category,
		Budget:   money(budget),
		Spent:    money(l.CategoryTotal(category).Total),
		Percent:  money(pct),
		Level:    string(ledger.LevelFor(pct)),
	})
}

// FraudScan runs the duplicate and outlier heuristics.
func (h *Handler) FraudScan(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	report := s.Ledger().RunFraudScan()
	applog.FromContext(r.Context()).Info("Fraud scan completed",
		applog.FieldSessionID, s.ID,
		applog.FieldOperation, applog.OpFraudScan,
		"duplicates", len(report.Duplicates),
		"outliers", len(report.Outliers))
	writeJSON(w, http.StatusOK, toFraudReportDTO(report))
}

// =============================================================================
// HELPERS
// =============================================================================

// intQuery reads a positive integer query parameter, or def when absent.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &InvalidInputError{Fields: []FieldError{{Field: name, Message: "must be a positive integer"}}}
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	writeErrorCode(w, status, message, "", err)
}

func writeErrorCode(w http.ResponseWriter, status int, message, code string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeValidationError renders an InvalidInputError with per-field details.
func writeValidationError(w http.ResponseWriter, err error) {
	var invalid *InvalidInputError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid input",
			Code:    CodeInvalidInput,
			Details: invalid.Fields,
		})
		return
	}
	writeErrorCode(w, http.StatusBadRequest, "Invalid input", CodeInvalidInput, err)
}
