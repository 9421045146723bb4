package ledger

// DefaultUndoDepth is how many of the most recent additions can be reversed.
const DefaultUndoDepth = 5

// undoHistory is a bounded LIFO of recently added transactions.
//
// There is no redo. Once an addition falls out of the last depth entries it
// can never be undone. Undo order is insertion order, not per category.
type undoHistory struct {
	depth   int
	entries []Transaction
}

func newUndoHistory(depth int) *undoHistory {
	if depth <= 0 {
		depth = DefaultUndoDepth
	}
	return &undoHistory{depth: depth, entries: make([]Transaction, 0, depth)}
}

// push records tx, dropping the oldest entry when over capacity.
func (h *undoHistory) push(tx Transaction) {
	h.entries = append(h.entries, tx)
	if over := len(h.entries) - h.depth; over > 0 {
		copy(h.entries, h.entries[over:])
		h.entries = h.entries[:h.depth]
	}
}

func (h *undoHistory) pop() (Transaction, bool) {
	if len(h.entries) == 0 {
		return Transaction{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h *undoHistory) len() int { return len(h.entries) }
