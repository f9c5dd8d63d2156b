package vecell

import (
	"errors"
	"fmt"
)

var (
	// ErrReentrant is the panic value raised when an operation starts while
	// another operation on the same cell is still running, typically from a
	// callback passed into SortFunc, DedupFunc, Retain and friends.
	ErrReentrant = errors.New("vecell: re-entrant call on borrowed cell")
	// ErrConsumed is the panic value raised when a cell is used after IntoInner.
	ErrConsumed = errors.New("vecell: cell used after IntoInner")

	ErrCapacityOverflow = errors.New("vecell: capacity overflow")
	ErrAllocFailed      = errors.New("vecell: allocation failed")
)

// BoundsError is the panic value for an index or range outside the buffer.
type BoundsError struct {
	Op    string
	Index int
	// End is set for range operations; -1 otherwise.
	End int
	Len int
	// Inclusive reports whether Index == Len was acceptable (insert, split).
	Inclusive bool
}

func (e *BoundsError) Error() string {
	if e.End >= 0 {
		return fmt.Sprintf("vecell: %s range [%d:%d] out of bounds for length %d", e.Op, e.Index, e.End, e.Len)
	}
	if e.Inclusive {
		return fmt.Sprintf("vecell: %s index (is %d) should be <= len (is %d)", e.Op, e.Index, e.Len)
	}
	return fmt.Sprintf("vecell: %s index (is %d) should be < len (is %d)", e.Op, e.Index, e.Len)
}

func checkIndex(op string, i, n int) {
	if i < 0 || i >= n {
		panic(&BoundsError{Op: op, Index: i, End: -1, Len: n})
	}
}

func checkIndexInclusive(op string, i, n int) {
	if i < 0 || i > n {
		panic(&BoundsError{Op: op, Index: i, End: -1, Len: n, Inclusive: true})
	}
}

func checkRange(op string, lo, hi, n int) {
	if lo < 0 || hi < lo || hi > n {
		panic(&BoundsError{Op: op, Index: lo, End: hi, Len: n})
	}
}
