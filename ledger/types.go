/*
Package ledger provides the personal ledger engine.

PURPOSE:
  Records income and expense events, keeps a running balance, aggregates
  spending per category and per month, and flags anomalous entries. This is
  the only stateful part of the system; the HTTP layer, setup wizard and any
  rendering are collaborators that call into a Ledger.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: An immutable income or expense record
  - Date: A calendar day used for grouping (never for ordering)
  - Clock: Supplier of "today" for entries that arrive without a date
  - Kind: Income or expense, derived from Transaction.IsIncome

DESIGN PRINCIPLES:
  1. Amounts are always positive; the sign lives in IsIncome
  2. Precision: Uses decimal.Decimal so add+undo restores values exactly
  3. Insertion order is the only ordering; dates only group
  4. Ids are never reused, even after undo

USAGE:
  l := ledger.New()
  tx := l.AddTransaction(ledger.MustParseAmount("42.50"), "Food", "Groceries",
      ledger.NewDate(2024, time.March, 3), false)
  _, err := l.UndoLast()

SEE ALSO:
  - ledger.go: The Ledger state object
  - analytics.go: Derived views (top-N, monthly average, usage)
  - fraud.go: Duplicate and outlier heuristics
*/
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNTS
// =============================================================================

// MustParseAmount parses a decimal string and panics on malformed input.
// Intended for fixtures and presets, not for user input.
func MustParseAmount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NewAmount converts a float to a decimal amount.
func NewAmount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// =============================================================================
// DATE - Calendar day
// =============================================================================

// DateLayout is the ISO calendar-day layout used for dates on the wire.
const DateLayout = "2006-01-02"

// Date is a calendar day. The zero Date means "not provided".
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) IsZero() bool { return d.Time.IsZero() }
func (d Date) Year() int { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int { return d.Time.Day() }
func (d Date) Equal(o Date) bool { return d.String() == o.String() }
func (d Date) String() string { return d.Time.Format(DateLayout) }

// MonthKey returns the "YYYY-MM" grouping key.
func (d Date) MonthKey() string { return d.Time.Format("2006-01") }

// Clock supplies the current date for entries recorded without one.
type Clock interface {
	Today() Date
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() Date

func (f ClockFunc) Today() Date { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(func() Date { return DateOf(time.Now()) })

// FixedClock always returns d. Useful for tests and scenario loading.
func FixedClock(d Date) Clock {
	return ClockFunc(func() Date { return d })
}

// =============================================================================
// TRANSACTION
// =============================================================================

// TransactionID is assigned by the ledger, starting at 1.
type TransactionID int64

// Kind distinguishes inflow from outflow.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Transaction is a single recorded income or expense event.
// Immutable once returned by the ledger.
type Transaction struct {
	ID          TransactionID
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        Date
	IsIncome    bool
}

// Delta is the signed balance effect: +Amount for income, -Amount otherwise.
func (tx Transaction) Delta() decimal.Decimal {
	if tx.IsIncome {
		return tx.Amount
	}
	return tx.Amount.Neg()
}

func (tx Transaction) Kind() Kind {
	if tx.IsIncome {
		return KindIncome
	}
	return KindExpense
}

func (tx Transaction) IsExpense() bool { return !tx.IsIncome }

// CategoryTotal is one aggregated expense category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// Average returns the mean expense amount in the category.
func (c CategoryTotal) Average() decimal.Decimal {
	if c.Count == 0 {
		return decimal.Zero
	}
	return c.Total.Div(decimal.NewFromInt(int64(c.Count)))
}
