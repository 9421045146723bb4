package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORY AGGREGATOR - Incremental expense totals per category
// =============================================================================

// categoryAggregator keeps expense totals and counts per category. It is
// updated on every store mutation and never rebuilt from scratch.
//
// Income never touches the aggregator. When an undo drives a category total
// to zero or below, the category is deleted outright so top-category queries
// never surface empty entries.
type categoryAggregator struct {
	stats   map[string]*categoryStat
	nextSeq uint64
}

type categoryStat struct {
	total decimal.Decimal
	count int
	seq   uint64 // first-insertion order, used to break ties
}

func newCategoryAggregator() *categoryAggregator {
	return &categoryAggregator{stats: make(map[string]*categoryStat)}
}

func (a *categoryAggregator) add(tx Transaction) {
	if tx.IsIncome {
		return
	}
	st, ok := a.stats[tx.Category]
	if !ok {
		st = &categoryStat{total: decimal.Zero, seq: a.nextSeq}
		a.nextSeq++
		a.stats[tx.Category] = st
	}
	st.total = st.total.Add(tx.Amount)
	st.count++
}

func (a *categoryAggregator) remove(tx Transaction) {
	if tx.IsIncome {
		return
	}
	st, ok := a.stats[tx.Category]
	if !ok {
		return
	}
	st.total = st.total.Sub(tx.Amount)
	st.count--
	if !st.total.IsPositive() || st.count <= 0 {
		delete(a.stats, tx.Category)
	}
}

func (a *categoryAggregator) total(category string) decimal.Decimal {
	if st, ok := a.stats[category]; ok {
		return st.total
	}
	return decimal.Zero
}

func (a *categoryAggregator) count(category string) int {
	if st, ok := a.stats[category]; ok {
		return st.count
	}
	return 0
}

// categories returns every tracked category in first-insertion order.
func (a *categoryAggregator) categories() []CategoryTotal {
	type entry struct {
		CategoryTotal
		seq uint64
	}
	entries := make([]entry, 0, len(a.stats))
	for name, st := range a.stats {
		entries = append(entries, entry{
			CategoryTotal: CategoryTotal{Category: name, Total: st.total, Count: st.count},
			seq:           st.seq,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]CategoryTotal, len(entries))
	for i, e := range entries {
		out[i] = e.CategoryTotal
	}
	return out
}
