// Package vecell provides VecCell, a growable sequence that is mutated through
// a shared pointer without any locking.
//
// A *VecCell[T] can be handed to many holders inside one goroutine and every
// holder may push, pop, insert, sort or drain it. Each operation owns the
// buffer exclusively for the duration of that single call and gives it back
// before returning; nothing a caller receives from a checked operation points
// into the buffer.
//
// # Rules
//
// The cell relies on three caller obligations:
//
//   - One goroutine at a time. The cell performs no locking, no atomic
//     operations and no fencing. Using it from more than one goroutine, even for
//     reads, is a data race unless every access is serialized by the caller.
//     The syncvec package layers a lock on top for that case.
//   - No re-entrancy. A callback handed to an operation (comparators, predicates,
//     equality functions, CloneFunc copiers) must not call back into the same
//     cell. The cell detects this and panics with ErrReentrant.
//   - No view across a call. The Unsafe* accessors return slices and pointers
//     into the live buffer. They stay valid only until the next operation that
//     may move, grow or shrink it, and must not be held while such an
//     operation runs.
//
// # Errors
//
// Out-of-range indices and ranges are programmer errors and panic with a
// *BoundsError. Lookups that may legitimately find nothing (Get, First, Last,
// Pop) return a second boolean instead. TryReserve and TryReserveExact are the
// only operations that report a failed allocation as an error; they refuse
// requests larger than GOMEMLIMIT or physical memory. Other growing operations
// leave an allocation failure to the runtime.
//
// # Iteration
//
// Iter, Values and All re-read the live buffer on every step. Mutations made
// between two steps are observed by the following steps.
package vecell
