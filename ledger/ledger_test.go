package ledger_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var jan1 = ledger.NewDate(2024, time.January, 1)

func newTestLedger() *ledger.Ledger {
	return ledger.New(ledger.WithClock(ledger.FixedClock(jan1)))
}

func amt(s string) decimal.Decimal { return ledger.MustParseAmount(s) }

func expense(l *ledger.Ledger, amount, category string) ledger.Transaction {
	return l.AddTransaction(amt(amount), category, category+" expense", jan1, false)
}

func income(l *ledger.Ledger, amount string) ledger.Transaction {
	return l.AddTransaction(amt(amount), "Salary", "Pay", jan1, true)
}

func signedSum(txs []ledger.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Delta())
	}
	return sum
}

// assertDecimal compares by value; decimal representations may differ in exponent.
func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, amt(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func assertSameState(t *testing.T, want, got ledger.Snapshot) {
	t.Helper()
	require.Len(t, got.Transactions, len(want.Transactions))
	for i := range want.Transactions {
		assert.Equal(t, want.Transactions[i].ID, got.Transactions[i].ID)
		assert.True(t, want.Transactions[i].Amount.Equal(got.Transactions[i].Amount))
	}
	assert.True(t, want.Balance.Equal(got.Balance), "balance %s vs %s", want.Balance, got.Balance)
	require.Len(t, got.BalanceHistory, len(want.BalanceHistory))
	for i := range want.BalanceHistory {
		assert.True(t, want.BalanceHistory[i].Equal(got.BalanceHistory[i]))
	}
	require.Len(t, got.Categories, len(want.Categories))
	for i := range want.Categories {
		assert.Equal(t, want.Categories[i].Category, got.Categories[i].Category)
		assert.Equal(t, want.Categories[i].Count, got.Categories[i].Count)
		assert.True(t, want.Categories[i].Total.Equal(got.Categories[i].Total))
	}
}

// =============================================================================
// ADD TRANSACTION
// =============================================================================

func TestAddTransaction_AssignsSequentialIDs(t *testing.T) {
	l := newTestLedger()

	a := income(l, "1000")
	b := expense(l, "50", "Food")
	c := expense(l, "20", "Rent")

	assert.Equal(t, ledger.TransactionID(1), a.ID)
	assert.Equal(t, ledger.TransactionID(2), b.ID)
	assert.Equal(t, ledger.TransactionID(3), c.ID)
	assertDecimal(t, "930", l.Balance())
}

func TestAddTransaction_IDsNotReusedAfterUndo(t *testing.T) {
	// GIVEN: Two additions, the second undone
	// WHEN: Adding again
	// THEN: The new id continues the sequence

	l := newTestLedger()
	expense(l, "10", "Food")
	expense(l, "20", "Food")
	_, err := l.UndoLast()
	require.NoError(t, err)

	tx := expense(l, "30", "Food")
	assert.Equal(t, ledger.TransactionID(3), tx.ID)
}

func TestAddTransaction_ZeroDateUsesClock(t *testing.T) {
	today := ledger.NewDate(2025, time.June, 15)
	l := ledger.New(ledger.WithClock(ledger.FixedClock(today)))

	tx := l.AddTransaction(amt("12"), "Food", "Lunch", ledger.Date{}, false)

	assert.Equal(t, "2025-06-15", tx.Date.String())
}

func TestAddTransaction_AcceptsDuplicates(t *testing.T) {
	l := newTestLedger()
	expense(l, "25", "Entertainment")
	expense(l, "25", "Entertainment")

	assert.Equal(t, 2, l.Len())
	total := l.CategoryTotal("Entertainment")
	assertDecimal(t, "50", total.Total)
	assert.Equal(t, 2, total.Count)
}

func TestIncomeNeverTouchesAggregator(t *testing.T) {
	l := newTestLedger()
	l.AddTransaction(amt("500"), "Food", "Refund", jan1, true)

	assert.Empty(t, l.CategorySummary())
	assertDecimal(t, "500", l.Balance())
}

func TestBalanceHistory_PrefixSums(t *testing.T) {
	l := newTestLedger()
	income(l, "100")
	expense(l, "30", "Food")
	expense(l, "20", "Rent")

	history := l.BalanceHistory()
	require.Len(t, history, 4)
	assertDecimal(t, "0", history[0])
	assertDecimal(t, "100", history[1])
	assertDecimal(t, "70", history[2])
	assertDecimal(t, "50", history[3])
}

// =============================================================================
// UNDO
// =============================================================================

func TestUndoLast_EmptyLedger(t *testing.T) {
	l := newTestLedger()

	_, err := l.UndoLast()

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrEmptyHistory)
	assert.True(t, ledger.IsEmptyHistory(err))
	var histErr *ledger.EmptyHistoryError
	require.ErrorAs(t, err, &histErr)
	assert.Equal(t, ledger.DefaultUndoDepth, histErr.Depth)
}

func TestUndoLast_InverseLaw(t *testing.T) {
	// GIVEN: A ledger with mixed history
	// WHEN: Adding A then undoing
	// THEN: Transactions, balance, history and category totals are restored

	cases := []struct {
		name     string
		amount   string
		category string
		isIncome bool
	}{
		{"expense existing category", "12.35", "Food", false},
		{"expense new category", "99.99", "Travel", false},
		{"income", "1500", "Salary", true},
		{"fractional", "0.1", "Food", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLedger()
			income(l, "2000")
			expense(l, "40", "Food")
			expense(l, "10.5", "Rent")
			before := l.Snapshot()

			added := l.AddTransaction(amt(tc.amount), tc.category, "A", jan1, tc.isIncome)
			undone, err := l.UndoLast()

			require.NoError(t, err)
			assert.Equal(t, added.ID, undone.ID)
			after := l.Snapshot()
			assertSameState(t, before, after)
		})
	}
}

func TestUndoLast_DepthBound(t *testing.T) {
	// GIVEN: Six additions
	// WHEN: Undoing six times
	// THEN: The sixth undo fails; the first addition stays

	l := newTestLedger()
	for i := 0; i < 6; i++ {
		expense(l, "10", "Food")
	}

	for i := 0; i < 5; i++ {
		_, err := l.UndoLast()
		require.NoError(t, err, "undo %d should succeed", i+1)
	}
	_, err := l.UndoLast()
	assert.ErrorIs(t, err, ledger.ErrEmptyHistory)

	require.Equal(t, 1, l.Len())
	assert.Equal(t, ledger.TransactionID(1), l.Transactions()[0].ID)
	assertDecimal(t, "-10", l.Balance())
}

func TestUndoLast_FailureLeavesStateUnchanged(t *testing.T) {
	l := ledger.New(ledger.WithUndoDepth(1))
	expense(l, "10", "Food")
	expense(l, "20", "Rent")
	_, err := l.UndoLast()
	require.NoError(t, err)
	before := l.Snapshot()

	_, err = l.UndoLast()

	assert.ErrorIs(t, err, ledger.ErrEmptyHistory)
	assertSameState(t, before, l.Snapshot())
}

func TestUndoLast_IsByInsertionOrderNotCategory(t *testing.T) {
	l := newTestLedger()
	expense(l, "10", "Food")
	rent := expense(l, "500", "Rent")
	fun := expense(l, "30", "Fun")

	first, err := l.UndoLast()
	require.NoError(t, err)
	second, err := l.UndoLast()
	require.NoError(t, err)

	assert.Equal(t, fun.ID, first.ID)
	assert.Equal(t, rent.ID, second.ID)
	assertDecimal(t, "-10", l.Balance())
	assertDecimal(t, "10", l.CategoryTotal("Food").Total)
}

func TestUndoLast_CategoryCleanup(t *testing.T) {
	// GIVEN: A single $50 Food expense
	// WHEN: It is undone
	// THEN: Food disappears from top categories entirely

	l := newTestLedger()
	expense(l, "50", "Food")
	_, err := l.UndoLast()
	require.NoError(t, err)

	for _, c := range l.TopCategories(0) {
		assert.NotEqual(t, "Food", c.Category)
	}
	assert.Empty(t, l.TopCategories(0))
	assert.Equal(t, 0, l.CategoryTotal("Food").Count)
}

func TestUndoLast_DecrementsCount(t *testing.T) {
	l := newTestLedger()
	expense(l, "50", "Food")
	expense(l, "25", "Food")
	_, err := l.UndoLast()
	require.NoError(t, err)

	total := l.CategoryTotal("Food")
	assertDecimal(t, "50", total.Total)
	assert.Equal(t, 1, total.Count)
}

func TestUndoAvailable(t *testing.T) {
	l := newTestLedger()
	assert.Equal(t, 0, l.UndoAvailable())
	for i := 0; i < 7; i++ {
		expense(l, "1", "Food")
	}
	assert.Equal(t, 5, l.UndoAvailable())
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestBalanceConsistency_RandomSequences(t *testing.T) {
	// For any sequence of adds and undos, balance equals the signed sum of
	// transactions present, and the history has one entry per transaction + 1.

	rng := rand.New(rand.NewSource(42))
	categories := []string{"Food", "Rent", "Fun", "Travel"}

	for run := 0; run < 50; run++ {
		l := newTestLedger()
		for step := 0; step < 40; step++ {
			if rng.Intn(3) == 0 {
				_, _ = l.UndoLast()
			} else {
				cents := decimal.New(int64(rng.Intn(100000)+1), -2)
				l.AddTransaction(cents, categories[rng.Intn(len(categories))], "r", jan1, rng.Intn(4) == 0)
			}

			snap := l.Snapshot()
			require.True(t, snap.Balance.Equal(signedSum(snap.Transactions)),
				"run %d step %d: balance %s", run, step, snap.Balance)
			require.Len(t, snap.BalanceHistory, len(snap.Transactions)+1)

			for _, c := range snap.Categories {
				want := decimal.Zero
				count := 0
				for _, tx := range snap.Transactions {
					if tx.IsExpense() && tx.Category == c.Category {
						want = want.Add(tx.Amount)
						count++
					}
				}
				require.True(t, want.Equal(c.Total), "category %s", c.Category)
				require.Equal(t, count, c.Count)
				require.True(t, c.Total.IsPositive())
			}
		}
	}
}

func TestRecentTransactions_NewestFirst(t *testing.T) {
	l := newTestLedger()
	for i := 0; i < 12; i++ {
		expense(l, "1", "Food")
	}

	recent := l.RecentTransactions(0)

	require.Len(t, recent, ledger.DefaultRecentLimit)
	assert.Equal(t, ledger.TransactionID(12), recent[0].ID)
	assert.Equal(t, ledger.TransactionID(3), recent[9].ID)
	assert.Len(t, l.RecentTransactions(3), 3)
}

func TestTransactionKind(t *testing.T) {
	assert.Equal(t, ledger.KindIncome, ledger.Transaction{IsIncome: true}.Kind())
	assert.Equal(t, ledger.KindExpense, ledger.Transaction{}.Kind())
	assertDecimal(t, "-5", ledger.Transaction{Amount: amt("5")}.Delta())
}
