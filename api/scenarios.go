/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate a session's ledger with
	realistic data. Each scenario shows off one area: the setup wizard and
	savings projection, the fraud heuristics, or multi-month analytics.

AVAILABLE SCENARIOS:

	budget-setup:  Wizard budget plus a few everyday expenses
	fraud-demo:    A duplicate pair and one oversized purchase
	multi-month:   Three months of spending for the monthly average

HOW SCENARIOS WORK:
 1. Reset the session (fresh, empty ledger)
 2. Apply a budget plan via factory (optional)
 3. Record transactions dated relative to today

USAGE VIA API:

	POST /api/sessions/{sid}/scenarios/load
	{"scenario_id": "fraud-demo"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(l, f, today)
 3. Register it in scenarioLoaders

NOTE:

	Scenarios reset the session. Everything recorded before is discarded.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
  - factory/budget.go: StandardBudgetJSON preset
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/ledger-engine/factory"
	applog "github.com/warp/ledger-engine/internal/log"
	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "budget-setup",
		Name:        "Budget Setup",
		Description: "Monthly budget from the setup wizard with a few expenses on top",
	},
	{
		ID:          "fraud-demo",
		Name:        "Fraud Demo",
		Description: "Everyday spending with a duplicated charge and one unusually large purchase",
	},
	{
		ID:          "multi-month",
		Name:        "Multi-Month",
		Description: "Three months of income and spending for monthly averages",
	},
}

type scenarioLoader func(l *ledger.Ledger, f *factory.BudgetFactory, today ledger.Date) error

var scenarioLoaders = map[string]scenarioLoader{
	"budget-setup": loadBudgetSetupScenario,
	"fraud-demo":   loadFraudDemoScenario,
	"multi-month":  loadMultiMonthScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the session and loads a predefined scenario into it.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	load, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	l := h.Sessions.Reset(session, req.ScenarioID)
	today := ledger.DateOf(h.Sessions.Now())
	if err := load(l, h.Budgets, today); err != nil {
		applog.FromContext(r.Context()).Failure(r.Context(), "Scenario load failed", err,
			applog.FieldSessionID, session.ID, applog.FieldScenario, req.ScenarioID)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	applog.FromContext(r.Context()).Info("Scenario loaded",
		applog.FieldSessionID, session.ID,
		applog.FieldScenario, req.ScenarioID,
		"transactions", l.Len())

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "loaded",
		"scenario":     req.ScenarioID,
		"session_id":   chi.URLParam(r, "sid"),
		"transactions": l.Len(),
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadBudgetSetupScenario(l *ledger.Ledger, f *factory.BudgetFactory, today ledger.Date) error {
	// Salary 3000; rent 1200, food 400, transportation 150, entertainment 100, other 50
	plan, _, err := f.ParsePlan(factory.StandardBudgetJSON(3000, 1200, 400, 150, 100, 50))
	if err != nil {
		return err
	}
	start := monthStart(today, 0)
	l.ApplyBudget(plan, start)

	addAll(l, []entry{
		{"85.20", "Food", "Weekly groceries", day(start, 3), false},
		{"40", "Transportation", "Fuel", day(start, 5), false},
		{"25", "Entertainment", "Cinema", day(start, 7), false},
		{"62.75", "Food", "Groceries", day(start, 10), false},
	})
	return nil
}

func loadFraudDemoScenario(l *ledger.Ledger, _ *factory.BudgetFactory, today ledger.Date) error {
	start := monthStart(today, 0)
	addAll(l, []entry{
		{"2500", "Salary", "Monthly Salary", start, true},
		{"18.50", "Food", "Lunch", day(start, 1), false},
		{"22", "Food", "Groceries", day(start, 2), false},
		{"15", "Transportation", "Bus pass top-up", day(start, 2), false},
		// Same charge twice on the same day
		{"25", "Entertainment", "Streaming subscription", day(start, 4), false},
		{"25", "Entertainment", "Streaming subscription", day(start, 4), false},
		{"30", "Food", "Dinner", day(start, 6), false},
		// Far above three times the median expense
		{"950", "Electronics", "Laptop", day(start, 8), false},
	})
	return nil
}

func loadMultiMonthScenario(l *ledger.Ledger, _ *factory.BudgetFactory, today ledger.Date) error {
	for offset := -2; offset <= 0; offset++ {
		start := monthStart(today, offset)
		// Spending grows a little each month
		extra := fmt.Sprintf("%d", 100+(offset+2)*50)
		addAll(l, []entry{
			{"2800", "Salary", "Monthly Salary", start, true},
			{"1100", "Rent", "Monthly Rent", start, false},
			{"320", "Food", "Groceries", day(start, 9), false},
			{"90", "Transportation", "Transit pass", day(start, 2), false},
			{extra, "Entertainment", "Weekend out", day(start, 14), false},
		})
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

type entry struct {
	amount      string
	category    string
	description string
	date        ledger.Date
	isIncome    bool
}

func addAll(l *ledger.Ledger, entries []entry) {
	for _, e := range entries {
		l.AddTransaction(ledger.MustParseAmount(e.amount), e.category, e.description, e.date, e.isIncome)
	}
}

// monthStart returns the first day of the month offset months from today.
func monthStart(today ledger.Date, offset int) ledger.Date {
	return ledger.NewDate(today.Year(), today.Month()+time.Month(offset), 1)
}

// day returns the given day of start's month, 1-based.
func day(start ledger.Date, d int) ledger.Date {
	return ledger.NewDate(start.Year(), start.Month(), d)
}
