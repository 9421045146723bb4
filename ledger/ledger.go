/*
ledger.go - The ledger state object

PURPOSE:
  Ledger owns all state of one session: the transaction store, the
  category aggregator, the undo history and the budget plan. Every public
  operation runs to completion inside one critical section, so no caller can
  observe a partially updated ledger.

STATE (updated together or not at all):
  - transactions + balance + balanceHistory   (store.go)
  - category totals + counts                   (aggregator.go)
  - undo history                               (undo.go)
  - budget plan                                (budget.go)

LIFECYCLE:
  A Ledger is created empty at session start and dropped at session end.
  There is no persistence; nothing survives the process.

UNDO POLICY:
  UndoLast reverses additions in LIFO order among the last five additions
  only. No redo. Entries older than the last five additions stay forever.

EXAMPLE FLOW:
  1. AddTransaction(3000, "Salary", ..., income)  -> id 1, balance 3000
  2. AddTransaction(50, "Food", ..., expense)     -> id 2, balance 2950, Food=50
  3. UndoLast()                                   -> removes id 2, balance 3000, Food gone
  4. AddTransaction(20, "Food", ..., expense)     -> id 3 (ids never reused)

SEE ALSO:
  - analytics.go: Read-only derived views
  - fraud.go: On-demand anomaly scan
*/
package ledger

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER
// =============================================================================

// Ledger is the personal ledger engine. The zero value is not usable; call New.
type Ledger struct {
	mu sync.Mutex

	clock  Clock
	logger *slog.Logger

	store  *transactionStore
	agg    *categoryAggregator
	undo   *undoHistory
	budget *BudgetPlan
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the supplier of the default entry date.
func WithClock(c Clock) Option {
	return func(l *Ledger) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithUndoDepth overrides DefaultUndoDepth.
func WithUndoDepth(depth int) Option {
	return func(l *Ledger) { l.undo = newUndoHistory(depth) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		clock:  SystemClock,
		logger: slog.Default(),
		store:  newTransactionStore(),
		agg:    newCategoryAggregator(),
		undo:   newUndoHistory(DefaultUndoDepth),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// =============================================================================
// MUTATIONS
// =============================================================================

// AddTransaction records a transaction and returns it with its assigned id.
//
// The ledger trusts its caller: amount, category and description are taken
// as given, duplicates included. A zero date is replaced by the clock's today.
func (l *Ledger) AddTransaction(amount decimal.Decimal, category, description string, date Date, isIncome bool) Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addLocked(Transaction{
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
		IsIncome:    isIncome,
	})
}

func (l *Ledger) addLocked(tx Transaction) Transaction {
	if tx.Date.IsZero() {
		tx.Date = l.clock.Today()
	}
	tx = l.store.append(tx)
	l.agg.add(tx)
	l.undo.push(tx)

	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "transaction added",
		slog.Int64("id", int64(tx.ID)),
		slog.String("kind", string(tx.Kind())),
		slog.String("amount", tx.Amount.String()),
		slog.String("category", tx.Category),
		slog.String("balance", l.store.balance.String()),
	)
	return tx
}

// UndoLast reverses the most recent addition still in the undo history.
// Returns ErrEmptyHistory (as *EmptyHistoryError) when nothing can be undone.
func (l *Ledger) UndoLast() (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.undo.pop()
	if !ok {
		return Transaction{}, &EmptyHistoryError{Depth: l.undo.depth, Transactions: l.store.len()}
	}

	removed, found := l.store.remove(last.ID)
	if !found {
		// The history only ever holds ids that are still present.
		removed = last
	} else {
		l.agg.remove(removed)
	}

	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "transaction undone",
		slog.Int64("id", int64(removed.ID)),
		slog.String("balance", l.store.balance.String()),
		slog.Int("undo_remaining", l.undo.len()),
	)
	return removed, nil
}

// =============================================================================
// READS
// =============================================================================

// Balance returns the current running balance.
func (l *Ledger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.balance
}

// BalanceHistory returns balance snapshots; element k is the balance after k transactions.
func (l *Ledger) BalanceHistory() []decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.historySnapshot()
}

// Transactions returns a copy of all transactions in append order.
func (l *Ledger) Transactions() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.snapshot()
}

// RecentTransactions returns up to n transactions, newest first.
// n <= 0 means DefaultRecentLimit.
func (l *Ledger) RecentTransactions(n int) []Transaction {
	if n <= 0 {
		n = DefaultRecentLimit
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.recent(n)
}

// DefaultRecentLimit is the size of the recent-history view.
const DefaultRecentLimit = 10

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.len()
}

// UndoAvailable reports how many UndoLast calls would currently succeed.
func (l *Ledger) UndoAvailable() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.undo.len()
}

// CategoryTotal returns the expense total and count for one category.
func (l *Ledger) CategoryTotal(category string) CategoryTotal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return CategoryTotal{
		Category: category,
		Total:    l.agg.total(category),
		Count:    l.agg.count(category),
	}
}

// Snapshot is a point-in-time copy of the ledger state.
type Snapshot struct {
	Transactions   []Transaction
	Balance        decimal.Decimal
	BalanceHistory []decimal.Decimal
	Categories     []CategoryTotal // first-insertion order
	UndoAvailable  int
}

// Snapshot copies the whole state under one lock.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		Transactions:   l.store.snapshot(),
		Balance:        l.store.balance,
		BalanceHistory: l.store.historySnapshot(),
		Categories:     l.agg.categories(),
		UndoAvailable:  l.undo.len(),
	}
}
