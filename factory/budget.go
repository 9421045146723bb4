/*
Package factory provides JSON to Go budget-plan conversion.

PURPOSE:
  Converts JSON budget definitions (the figures collected by the setup
  wizard) into ledger.BudgetPlan values. The HTTP layer accepts this JSON
  directly; demo scenarios build it from presets.

JSON SCHEMA:
  {
    "income": 3000,
    "income_category": "Salary",          // optional
    "income_description": "Monthly Salary", // optional
    "date": "2024-01-01",                  // optional, defaults to today
    "lines": [
      {"category": "Rent", "amount": 1200},
      {"category": "Food", "amount": "400.50", "description": "Monthly Food Budget"}
    ]
  }

  Amounts may be JSON numbers or decimal strings.

VALIDATION:
  - income must be positive
  - every line needs a non-empty, unique category
  - line amounts must be zero or positive (zero lines are kept in the plan
    but produce no initial expense)

USAGE:
  f := NewBudgetFactory()
  plan, date, err := f.ParsePlan(StandardBudgetJSON(3000, 1200, 400, 150, 100, 50))
  ledger.ApplyBudget(plan, date)

SEE ALSO:
  - ledger/budget.go: BudgetPlan, Projection, ApplyBudget
  - api/scenarios.go: Demo presets built from this package
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// BudgetPlanJSON is the JSON representation of a budget plan.
type BudgetPlanJSON struct {
	Income            decimal.Decimal  `json:"income"`
	IncomeCategory    string           `json:"income_category,omitempty"`
	IncomeDescription string           `json:"income_description,omitempty"`
	Date              string           `json:"date,omitempty"`
	Lines             []BudgetLineJSON `json:"lines"`
}

// BudgetLineJSON is one budgeted category.
type BudgetLineJSON struct {
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrInvalidIncome   = errors.New("income must be positive")
	ErrInvalidLine     = errors.New("invalid budget line")
	ErrDuplicateLine   = errors.New("duplicate budget category")
	ErrInvalidPlanDate = errors.New("invalid plan date")
)

// =============================================================================
// BUDGET FACTORY
// =============================================================================

// BudgetFactory converts JSON budget plans to ledger plans.
type BudgetFactory struct{}

func NewBudgetFactory() *BudgetFactory {
	return &BudgetFactory{}
}

// ParsePlan parses a JSON string into a plan and its optional date.
func (f *BudgetFactory) ParsePlan(jsonStr string) (ledger.BudgetPlan, ledger.Date, error) {
	var pj BudgetPlanJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return ledger.BudgetPlan{}, ledger.Date{}, fmt.Errorf("failed to parse budget JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON validates pj and converts it. A missing date yields the zero Date,
// which the ledger replaces with today.
func (f *BudgetFactory) FromJSON(pj BudgetPlanJSON) (ledger.BudgetPlan, ledger.Date, error) {
	if !pj.Income.IsPositive() {
		return ledger.BudgetPlan{}, ledger.Date{}, ErrInvalidIncome
	}

	var date ledger.Date
	if pj.Date != "" {
		d, err := ledger.ParseDate(pj.Date)
		if err != nil {
			return ledger.BudgetPlan{}, ledger.Date{}, fmt.Errorf("%w: %v", ErrInvalidPlanDate, err)
		}
		date = d
	}

	plan := ledger.BudgetPlan{
		Income:            pj.Income,
		IncomeCategory:    strings.TrimSpace(pj.IncomeCategory),
		IncomeDescription: strings.TrimSpace(pj.IncomeDescription),
	}
	seen := make(map[string]bool, len(pj.Lines))
	for i, lj := range pj.Lines {
		category := strings.TrimSpace(lj.Category)
		if category == "" {
			return ledger.BudgetPlan{}, ledger.Date{}, fmt.Errorf("%w: line %d has no category", ErrInvalidLine, i)
		}
		if lj.Amount.IsNegative() {
			return ledger.BudgetPlan{}, ledger.Date{}, fmt.Errorf("%w: %s amount %s is negative", ErrInvalidLine, category, lj.Amount)
		}
		if seen[category] {
			return ledger.BudgetPlan{}, ledger.Date{}, fmt.Errorf("%w: %s", ErrDuplicateLine, category)
		}
		seen[category] = true
		plan.Lines = append(plan.Lines, ledger.BudgetLine{
			Category:    category,
			Amount:      lj.Amount,
			Description: strings.TrimSpace(lj.Description),
		})
	}
	return plan, date, nil
}

// ToJSON converts a plan back to its JSON form.
func (f *BudgetFactory) ToJSON(plan ledger.BudgetPlan, date ledger.Date) BudgetPlanJSON {
	pj := BudgetPlanJSON{
		Income:            plan.Income,
		IncomeCategory:    plan.IncomeCategory,
		IncomeDescription: plan.IncomeDescription,
		Lines:             make([]BudgetLineJSON, 0, len(plan.Lines)),
	}
	if !date.IsZero() {
		pj.Date = date.String()
	}
	for _, line := range plan.Lines {
		pj.Lines = append(pj.Lines, BudgetLineJSON{
			Category:    line.Category,
			Amount:      line.Amount,
			Description: line.Description,
		})
	}
	return pj
}

// =============================================================================
// PRESETS
// =============================================================================

// StandardCategories are the expense steps of the setup wizard, in order.
// Each entry is {category, description of the initial entry}.
var StandardCategories = [][2]string{
	{"Rent", "Monthly Rent"},
	{"Food", "Monthly Food Budget"},
	{"Transportation", "Monthly Transportation"},
	{"Entertainment", "Monthly Entertainment"},
	{"Other", "Monthly Other Expenses"},
}

// StandardBudgetJSON returns the JSON produced by the six-step setup wizard:
// salary, then rent, food, transportation, entertainment and other.
func StandardBudgetJSON(salary, rent, food, transportation, entertainment, other float64) string {
	amounts := []float64{rent, food, transportation, entertainment, other}
	pj := BudgetPlanJSON{
		Income:            decimal.NewFromFloat(salary),
		IncomeCategory:    "Salary",
		IncomeDescription: "Monthly Salary",
	}
	for i, c := range StandardCategories {
		pj.Lines = append(pj.Lines, BudgetLineJSON{
			Category:    c[0],
			Amount:      decimal.NewFromFloat(amounts[i]),
			Description: c[1],
		})
	}
	data, _ := json.Marshal(pj)
	return string(data)
}
