/*
analytics.go - Derived views over the ledger

PURPOSE:
  Pure derivations computed on demand from the store and the aggregator.
  Nothing here is cached and nothing mutates state.

VIEWS:
  - TopExpenses:     expenses by amount desc, insertion order on ties
  - TopCategories:   category totals desc, first-insertion order on ties
  - MonthlyAverage:  average of per-month sums (NOT average of expenses)
  - CategoryUsage:   spent / budget as a percentage capped at 100

MONTHLY AVERAGE EXAMPLE:
  January:  100
  February: 10 + 10
  Average = (100 + 20) / 2 = 60   (not 120 / 3 = 40)

SEE ALSO:
  - aggregator.go: Source of category totals
  - budget.go: Usage over a whole budget plan
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultTopN is the size of top-N views.
const DefaultTopN = 5

var hundred = decimal.NewFromInt(100)

// TopExpenses returns the n largest expenses. n <= 0 means DefaultTopN.
func (l *Ledger) TopExpenses(n int) []Transaction {
	l.mu.Lock()
	txs := l.store.snapshot()
	l.mu.Unlock()
	return TopExpenses(txs, n)
}

// TopCategories returns the n categories with the highest expense totals.
// n <= 0 means DefaultTopN.
func (l *Ledger) TopCategories(n int) []CategoryTotal {
	l.mu.Lock()
	cats := l.agg.categories()
	l.mu.Unlock()
	return topCategories(cats, n)
}

// CategorySummary returns every expense category in first-insertion order.
func (l *Ledger) CategorySummary() []CategoryTotal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.agg.categories()
}

// MonthlyAverage returns the average monthly expense sum. Zero without expenses.
func (l *Ledger) MonthlyAverage() decimal.Decimal {
	l.mu.Lock()
	txs := l.store.snapshot()
	l.mu.Unlock()
	return MonthlyAverage(txs)
}

// CategoryUsage returns how much of budget has been spent in category, as a
// percentage in [0, 100]. A non-positive budget yields 0.
func (l *Ledger) CategoryUsage(category string, budget decimal.Decimal) decimal.Decimal {
	l.mu.Lock()
	spent := l.agg.total(category)
	l.mu.Unlock()
	return UsagePercent(spent, budget)
}

// =============================================================================
// PURE DERIVATIONS
// =============================================================================

// TopExpenses picks the n largest expense transactions from txs.
// sort.SliceStable keeps insertion order among equal amounts.
func TopExpenses(txs []Transaction, n int) []Transaction {
	if n <= 0 {
		n = DefaultTopN
	}
	expenses := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.IsExpense() {
			expenses = append(expenses, tx)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Amount.GreaterThan(expenses[j].Amount)
	})
	if len(expenses) > n {
		expenses = expenses[:n]
	}
	return expenses
}

// topCategories expects cats in first-insertion order.
func topCategories(cats []CategoryTotal, n int) []CategoryTotal {
	if n <= 0 {
		n = DefaultTopN
	}
	sort.SliceStable(cats, func(i, j int) bool {
		return cats[i].Total.GreaterThan(cats[j].Total)
	})
	if len(cats) > n {
		cats = cats[:n]
	}
	return cats
}

// MonthlyAverage groups expenses by YYYY-MM and averages the monthly sums.
func MonthlyAverage(txs []Transaction) decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.IsIncome {
			continue
		}
		key := tx.Date.MonthKey()
		sums[key] = sums[key].Add(tx.Amount)
	}
	if len(sums) == 0 {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, s := range sums {
		total = total.Add(s)
	}
	return total.Div(decimal.NewFromInt(int64(len(sums))))
}

// UsagePercent returns min(spent/budget*100, 100), or 0 when budget <= 0.
func UsagePercent(spent, budget decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return decimal.Zero
	}
	pct := spent.Mul(hundred).Div(budget)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
