/*
fraud.go - Duplicate and outlier heuristics

PURPOSE:
  Scans the full current transaction list on demand and reports suspicious
  entries. The scan is a report, never a mutation; an empty report ("no
  issues") is a valid result.

HEURISTICS:
  1. DUPLICATES: key = (amount, category, date), exact match. Every key seen
     more than once is reported once, with its occurrence count. Income and
     expenses both participate.

  2. OUTLIERS: over expense amounts only.
       sorted := sort ascending
       median := sorted[floor(n/2)]     // upper middle for even n
       threshold := 3 * median
     Every expense whose amount is strictly greater than threshold is
     reported (not one per category).

MEDIAN NOTE:
  floor(n/2) without averaging is intentional. For [10, 10, 10, 100] the
  median is 10 (index 2), the threshold is 30 and only 100 is flagged.
  Threshold tests depend on this exact rule.

SEE ALSO:
  - ledger.go: RunFraudScan entry point
*/
package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// OutlierMultiplier scales the median into the outlier threshold.
var OutlierMultiplier = decimal.NewFromInt(3)

// DuplicatePattern is one (amount, category, date) key seen more than once.
type DuplicatePattern struct {
	Amount   decimal.Decimal
	Category string
	Date     Date
	Count    int
}

// String renders the pattern as amount-category-date.
func (p DuplicatePattern) String() string {
	return fmt.Sprintf("%s-%s-%s", p.Amount.String(), p.Category, p.Date)
}

// Outlier is an expense above the threshold.
type Outlier struct {
	Transaction Transaction
	Median      decimal.Decimal
	Threshold   decimal.Decimal
}

// FraudReport is the result of a scan.
type FraudReport struct {
	Duplicates []DuplicatePattern
	Outliers   []Outlier
}

// Clean reports whether the scan found nothing suspicious.
func (r FraudReport) Clean() bool {
	return len(r.Duplicates) == 0 && len(r.Outliers) == 0
}

// RunFraudScan scans the current transactions.
func (l *Ledger) RunFraudScan() FraudReport {
	l.mu.Lock()
	txs := l.store.snapshot()
	l.mu.Unlock()

	report := ScanTransactions(txs)
	l.logger.Debug("fraud scan completed",
		"transactions", len(txs),
		"duplicates", len(report.Duplicates),
		"outliers", len(report.Outliers))
	return report
}

// ScanTransactions runs both heuristics over txs.
func ScanTransactions(txs []Transaction) FraudReport {
	return FraudReport{
		Duplicates: FindDuplicates(txs),
		Outliers:   FindOutliers(txs),
	}
}

type duplicateKey struct {
	amount   string
	category string
	date     string
}

// FindDuplicates reports each repeated (amount, category, date) key once, in
// order of first occurrence.
func FindDuplicates(txs []Transaction) []DuplicatePattern {
	counts := make(map[duplicateKey]int)
	var order []duplicateKey
	first := make(map[duplicateKey]Transaction)

	for _, tx := range txs {
		// decimal.String drops trailing zeros, so 25 and 25.00 share a key.
		k := duplicateKey{amount: tx.Amount.String(), category: tx.Category, date: tx.Date.String()}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
			first[k] = tx
		}
		counts[k]++
	}

	var out []DuplicatePattern
	for _, k := range order {
		if counts[k] > 1 {
			tx := first[k]
			out = append(out, DuplicatePattern{
				Amount:   tx.Amount,
				Category: tx.Category,
				Date:     tx.Date,
				Count:    counts[k],
			})
		}
	}
	return out
}

// FindOutliers reports every expense strictly above OutlierMultiplier x median.
func FindOutliers(txs []Transaction) []Outlier {
	median, ok := ExpenseMedian(txs)
	if !ok {
		return nil
	}
	threshold := median.Mul(OutlierMultiplier)

	var out []Outlier
	for _, tx := range txs {
		if tx.IsExpense() && tx.Amount.GreaterThan(threshold) {
			out = append(out, Outlier{Transaction: tx, Median: median, Threshold: threshold})
		}
	}
	return out
}

// ExpenseMedian returns sorted(expense amounts)[n/2]. ok is false without expenses.
func ExpenseMedian(txs []Transaction) (decimal.Decimal, bool) {
	var amounts []decimal.Decimal
	for _, tx := range txs {
		if tx.IsExpense() {
			amounts = append(amounts, tx.Amount)
		}
	}
	if len(amounts) == 0 {
		return decimal.Zero, false
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i].LessThan(amounts[j]) })
	return amounts[len(amounts)/2], true
}
