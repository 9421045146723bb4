/*
store.go - Transaction store with running-balance prefix array

PURPOSE:
  Holds the ordered transaction list and the balance history. The balance
  history is a prefix-sum array: balanceHistory[k] is the balance after
  exactly k transactions have been applied in append order.

INVARIANTS:
  1. len(balanceHistory) == len(transactions) + 1 (history starts at 0)
  2. balance == balanceHistory[len(balanceHistory)-1]
  3. balance == signed sum of all present transactions
  4. Ids increase by one per append and are never reused

REMOVAL:
  Removal is by id, not by position. In practice the ledger only removes
  the most recent append (undo), which makes removal a pop. If a removed
  entry is not the last one, the prefix array is rebuilt from that index
  so invariant 3 still holds.

NOT SAFE FOR CONCURRENT USE:
  The Ledger owns the store and serializes access.

SEE ALSO:
  - ledger.go: Uses the store under the ledger mutex
  - undo.go: Decides which id to remove
*/
package ledger

import "github.com/shopspring/decimal"

type transactionStore struct {
	nextID         TransactionID
	transactions   []Transaction
	balance        decimal.Decimal
	balanceHistory []decimal.Decimal
}

func newTransactionStore() *transactionStore {
	return &transactionStore{
		nextID:         1,
		balance:        decimal.Zero,
		balanceHistory: []decimal.Decimal{decimal.Zero},
	}
}

// append assigns the next id to tx, records it and extends the balance history.
func (s *transactionStore) append(tx Transaction) Transaction {
	tx.ID = s.nextID
	s.nextID++

	s.transactions = append(s.transactions, tx)
	s.balance = s.balance.Add(tx.Delta())
	s.balanceHistory = append(s.balanceHistory, s.balance)
	return tx
}

// remove deletes the transaction with the given id.
func (s *transactionStore) remove(id TransactionID) (Transaction, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Transaction{}, false
	}
	removed := s.transactions[idx]

	s.transactions = append(s.transactions[:idx], s.transactions[idx+1:]...)

	// Keep the prefix up to idx untouched; it still describes the first idx
	// transactions. For a tail removal this is a plain pop and restores the
	// exact pre-append balance value.
	s.balanceHistory = s.balanceHistory[:idx+1]
	running := s.balanceHistory[idx]
	for _, tx := range s.transactions[idx:] {
		running = running.Add(tx.Delta())
		s.balanceHistory = append(s.balanceHistory, running)
	}
	s.balance = s.balanceHistory[len(s.balanceHistory)-1]
	return removed, true
}

// indexOf scans from the tail since removals almost always hit the newest entry.
func (s *transactionStore) indexOf(id TransactionID) int {
	for i := len(s.transactions) - 1; i >= 0; i-- {
		if s.transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *transactionStore) len() int { return len(s.transactions) }

func (s *transactionStore) snapshot() []Transaction {
	out := make([]Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

func (s *transactionStore) historySnapshot() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.balanceHistory))
	copy(out, s.balanceHistory)
	return out
}

// recent returns up to n transactions, newest first.
func (s *transactionStore) recent(n int) []Transaction {
	if n <= 0 || n > len(s.transactions) {
		n = len(s.transactions)
	}
	out := make([]Transaction, 0, n)
	for i := len(s.transactions) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.transactions[i])
	}
	return out
}
