package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/ledger-engine/ledger"
)

func TestFraudScan_EmptyLedgerIsClean(t *testing.T) {
	l := newTestLedger()

	report := l.RunFraudScan()

	assert.True(t, report.Clean())
	assert.Empty(t, report.Duplicates)
	assert.Empty(t, report.Outliers)
}

func TestFraudScan_MedianOutlier(t *testing.T) {
	// GIVEN: Expenses [10, 10, 10, 100]
	// THEN: median = sorted[2] = 10, threshold = 30, only 100 is flagged

	l := newTestLedger()
	day := func(d int) ledger.Date { return ledger.NewDate(2024, time.January, d) }
	l.AddTransaction(amt("10"), "Food", "a", day(1), false)
	l.AddTransaction(amt("10"), "Food", "b", day(2), false)
	l.AddTransaction(amt("10"), "Food", "c", day(3), false)
	big := l.AddTransaction(amt("100"), "Food", "d", day(4), false)

	report := l.RunFraudScan()

	require.Len(t, report.Outliers, 1)
	assert.Equal(t, big.ID, report.Outliers[0].Transaction.ID)
	assertDecimal(t, "10", report.Outliers[0].Median)
	assertDecimal(t, "30", report.Outliers[0].Threshold)
	assert.Empty(t, report.Duplicates)
}

func TestExpenseMedian_UpperMiddleForEvenCount(t *testing.T) {
	txs := []ledger.Transaction{
		{Amount: amt("40")}, {Amount: amt("10")}, {Amount: amt("20")}, {Amount: amt("30")},
		{Amount: amt("1000"), IsIncome: true},
	}

	median, ok := ledger.ExpenseMedian(txs)

	require.True(t, ok)
	assertDecimal(t, "30", median)

	_, ok = ledger.ExpenseMedian(nil)
	assert.False(t, ok)
}

func TestFindOutliers_StrictlyGreaterAndAllCategories(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: 1, Amount: amt("10"), Category: "Food"},
		{ID: 2, Amount: amt("10"), Category: "Food"},
		{ID: 7, Amount: amt("10"), Category: "Fun"},
		{ID: 8, Amount: amt("10"), Category: "Fun"},
		{ID: 3, Amount: amt("30"), Category: "Rent"}, // equal to threshold: not flagged
		{ID: 4, Amount: amt("31"), Category: "Rent"},
		{ID: 5, Amount: amt("45"), Category: "Rent"},
		{ID: 6, Amount: amt("500"), Category: "Salary", IsIncome: true},
	}

	outliers := ledger.FindOutliers(txs)

	require.Len(t, outliers, 2)
	assert.Equal(t, ledger.TransactionID(4), outliers[0].Transaction.ID)
	assert.Equal(t, ledger.TransactionID(5), outliers[1].Transaction.ID)
}

func TestFraudScan_DuplicateReportedOnce(t *testing.T) {
	// GIVEN: Two identical (25, Entertainment, 2024-01-01) expenses
	// THEN: One finding with count 2

	l := newTestLedger()
	l.AddTransaction(amt("25"), "Entertainment", "Movie", jan1, false)
	l.AddTransaction(amt("25"), "Entertainment", "Movie again", jan1, false)

	report := l.RunFraudScan()

	require.Len(t, report.Duplicates, 1)
	dup := report.Duplicates[0]
	assert.Equal(t, 2, dup.Count)
	assert.Equal(t, "Entertainment", dup.Category)
	assert.Equal(t, "2024-01-01", dup.Date.String())
	assert.Equal(t, "25-Entertainment-2024-01-01", dup.String())
	assert.False(t, report.Clean())
}

func TestFindDuplicates_ExactKey(t *testing.T) {
	d1 := ledger.NewDate(2024, time.January, 1)
	d2 := ledger.NewDate(2024, time.January, 2)
	txs := []ledger.Transaction{
		{Amount: amt("25"), Category: "Fun", Date: d1},
		{Amount: amt("25.00"), Category: "Fun", Date: d1},
		{Amount: amt("25"), Category: "Fun", Date: d1},
		{Amount: amt("25"), Category: "Fun", Date: d2},
		{Amount: amt("25"), Category: "Food", Date: d1},
		{Amount: amt("7"), Category: "Food", Date: d2},
		{Amount: amt("7"), Category: "Food", Date: d2, IsIncome: true},
	}

	dups := ledger.FindDuplicates(txs)

	require.Len(t, dups, 2)
	assert.Equal(t, 3, dups[0].Count)
	assert.Equal(t, "Fun", dups[0].Category)
	assert.Equal(t, 2, dups[1].Count)
	assert.Equal(t, "Food", dups[1].Category)
}
