package ledger

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// BUDGET PLAN - Figures from the setup step
// =============================================================================

// BudgetLine is one budgeted expense category.
type BudgetLine struct {
	Category    string
	Amount      decimal.Decimal
	Description string // defaults to "Monthly <Category>"
}

// BudgetPlan holds the setup figures: expected income and budgeted expenses.
type BudgetPlan struct {
	Income            decimal.Decimal
	IncomeCategory    string // defaults to "Salary"
	IncomeDescription string // defaults to "Monthly Salary"
	Lines             []BudgetLine
}

// Budgeted is the sum of all budget lines.
func (p BudgetPlan) Budgeted() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Lines {
		total = total.Add(line.Amount)
	}
	return total
}

// Line looks up the budget line for a category.
func (p BudgetPlan) Line(category string) (BudgetLine, bool) {
	for _, line := range p.Lines {
		if line.Category == category {
			return line, true
		}
	}
	return BudgetLine{}, false
}

// Projection is the savings outlook derived from the plan alone. It ignores
// the actual transaction history.
type Projection struct {
	Income   decimal.Decimal
	Budgeted decimal.Decimal
	Savings  decimal.Decimal
}

// Overspending reports whether the plan budgets more than the income.
func (p Projection) Overspending() bool { return p.Savings.IsNegative() }

// Projection returns income minus the sum of budgeted expense categories.
func (p BudgetPlan) Projection() Projection {
	budgeted := p.Budgeted()
	return Projection{
		Income:   p.Income,
		Budgeted: budgeted,
		Savings:  p.Income.Sub(budgeted),
	}
}

// =============================================================================
// USAGE LEVELS
// =============================================================================

// UsageLevel buckets a usage percentage.
type UsageLevel string

const (
	UsageOK       UsageLevel = "ok"
	UsageWarning  UsageLevel = "warning"  // above 70%
	UsageCritical UsageLevel = "critical" // above 90%
)

var (
	warningThreshold  = decimal.NewFromInt(70)
	criticalThreshold = decimal.NewFromInt(90)
)

// LevelFor classifies a usage percentage.
func LevelFor(percent decimal.Decimal) UsageLevel {
	switch {
	case percent.GreaterThan(criticalThreshold):
		return UsageCritical
	case percent.GreaterThan(warningThreshold):
		return UsageWarning
	default:
		return UsageOK
	}
}

// LineUsage is the usage of one budget line.
type LineUsage struct {
	Category string
	Budgeted decimal.Decimal
	Spent    decimal.Decimal
	Percent  decimal.Decimal
	Level    UsageLevel
}

// =============================================================================
// LEDGER INTEGRATION
// =============================================================================

// ApplyBudget stores plan and records its figures as the initial entries:
// the income first, then one expense per line with a positive amount. All
// entries are dated date (or today for a zero date). The whole batch is
// applied under one lock.
func (l *Ledger) ApplyBudget(plan BudgetPlan, date Date) []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	if date.IsZero() {
		date = l.clock.Today()
	}
	stored := plan
	stored.Lines = append([]BudgetLine(nil), plan.Lines...)
	l.budget = &stored

	var added []Transaction
	if plan.Income.IsPositive() {
		added = append(added, l.addLocked(Transaction{
			Amount:      plan.Income,
			Category:    orDefault(plan.IncomeCategory, "Salary"),
			Description: orDefault(plan.IncomeDescription, "Monthly Salary"),
			Date:        date,
			IsIncome:    true,
		}))
	}
	for _, line := range plan.Lines {
		if !line.Amount.IsPositive() {
			continue
		}
		added = append(added, l.addLocked(Transaction{
			Amount:      line.Amount,
			Category:    line.Category,
			Description: orDefault(line.Description, "Monthly "+line.Category),
			Date:        date,
		}))
	}

	l.logger.Info("budget applied",
		"income", plan.Income.String(),
		"lines", len(plan.Lines),
		"entries", len(added))
	return added
}

// Budget returns the plan applied by ApplyBudget, if any.
func (l *Ledger) Budget() (BudgetPlan, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.budget == nil {
		return BudgetPlan{}, false
	}
	return *l.budget, true
}

// BudgetUsage reports usage for every line of the applied plan, in plan order.
// Returns nil when no plan has been applied.
func (l *Ledger) BudgetUsage() []LineUsage {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.budget == nil {
		return nil
	}
	out := make([]LineUsage, 0, len(l.budget.Lines))
	for _, line := range l.budget.Lines {
		spent := l.agg.total(line.Category)
		pct := UsagePercent(spent, line.Amount)
		out = append(out, LineUsage{
			Category: line.Category,
			Budgeted: line.Amount,
			Spent:    spent,
			Percent:  pct,
			Level:    LevelFor(pct),
		})
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
