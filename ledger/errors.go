package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptyHistory is returned by UndoLast when there is nothing left to
	// reverse. Recoverable: the ledger is unchanged.
	ErrEmptyHistory = errors.New("no transactions to undo")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// EmptyHistoryError reports how many transactions are still recorded but can
// no longer be undone because they fell out of the bounded history.
type EmptyHistoryError struct {
	Depth        int
	Transactions int
}

func (e *EmptyHistoryError) Error() string {
	return fmt.Sprintf("no transactions to undo (undo depth %d, %d transactions recorded)",
		e.Depth, e.Transactions)
}

func (e *EmptyHistoryError) Unwrap() error {
	return ErrEmptyHistory
}

// IsEmptyHistory reports whether err signals an exhausted undo history.
func IsEmptyHistory(err error) bool {
	return errors.Is(err, ErrEmptyHistory)
}
