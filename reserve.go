package vecell

import (
	"fmt"
	"math"
	"runtime/debug"
	"slices"
	"unsafe"
)

// maxAllocBytes mirrors the runtime's largest single allocation: 1<<48 on
// 64-bit platforms, 1<<31 on 32-bit ones.
const maxAllocBytes uint64 = 1 << (31 + 17*(^uint(0)>>63))

// Reserve ensures room for at least additional more elements, growing
// geometrically. It panics on a negative count or an impossible size.
func (v *VecCell[T]) Reserve(additional int) {
	v.borrow()
	defer v.release()
	if additional < 0 {
		panic(&BoundsError{Op: "reserve", Index: additional, End: -1, Len: len(v.buf)})
	}
	v.buf = slices.Grow(v.buf, additional)
}

// ReserveExact ensures room for exactly additional more elements when the
// current capacity is not enough; it does not over-allocate.
func (v *VecCell[T]) ReserveExact(additional int) {
	v.borrow()
	defer v.release()
	if additional < 0 {
		panic(&BoundsError{Op: "reserve_exact", Index: additional, End: -1, Len: len(v.buf)})
	}
	if cap(v.buf)-len(v.buf) >= additional {
		return
	}
	grown := make([]T, len(v.buf), len(v.buf)+additional)
	copy(grown, v.buf)
	v.buf = grown
}

// TryReserve is Reserve that reports failure instead of panicking.
// ErrCapacityOverflow means the request can never be satisfied; ErrAllocFailed
// means it does not fit in the memory budget (GOMEMLIMIT when set, physical
// memory where the host reports it). On error the cell is unchanged.
func (v *VecCell[T]) TryReserve(additional int) error {
	v.borrow()
	defer v.release()
	return v.tryReserve(additional, false)
}

// TryReserveExact is ReserveExact that reports failure like TryReserve.
func (v *VecCell[T]) TryReserveExact(additional int) error {
	v.borrow()
	defer v.release()
	return v.tryReserve(additional, true)
}

func (v *VecCell[T]) tryReserve(additional int, exact bool) error {
	n := len(v.buf)
	if additional < 0 {
		return fmt.Errorf("%w: negative request %d", ErrCapacityOverflow, additional)
	}
	if cap(v.buf)-n >= additional {
		return nil
	}
	if additional > math.MaxInt-n {
		return fmt.Errorf("%w: %d + %d overflows int", ErrCapacityOverflow, n, additional)
	}
	want := n + additional
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	limit := math.MaxInt
	if size != 0 {
		if maxElems := maxAllocBytes / size; maxElems < uint64(limit) {
			limit = int(maxElems)
		}
	}
	if want > limit {
		return fmt.Errorf("%w: %d elements exceed the allocation limit", ErrCapacityOverflow, want)
	}
	newCap := want
	if c := cap(v.buf); !exact && c <= limit/2 && 2*c > newCap {
		newCap = 2 * c
	}
	if size != 0 {
		budget := memoryBudget()
		if uint64(want)*size > budget {
			return fmt.Errorf("%w: %d bytes over the %d byte budget", ErrAllocFailed, uint64(want)*size, budget)
		}
		if uint64(newCap)*size > budget {
			newCap = want
		}
	}
	grown := make([]T, n, newCap)
	copy(grown, v.buf)
	v.buf = grown
	return nil
}

// memoryBudget is the largest allocation TryReserve will attempt.
func memoryBudget() uint64 {
	budget := maxAllocBytes
	// SetMemoryLimit(-1) only reads; math.MaxInt64 means no limit is set.
	if lim := debug.SetMemoryLimit(-1); lim > 0 && uint64(lim) < budget {
		budget = uint64(lim)
	}
	if total := totalMemory(); total > 0 && total < budget {
		budget = total
	}
	return budget
}

// ShrinkTo lowers the capacity to max(Len(), minCap) when it is larger.
func (v *VecCell[T]) ShrinkTo(minCap int) {
	v.borrow()
	defer v.release()
	target := max(len(v.buf), minCap)
	if cap(v.buf) <= target {
		return
	}
	shrunk := make([]T, len(v.buf), target)
	copy(shrunk, v.buf)
	v.buf = shrunk
}

func (v *VecCell[T]) ShrinkToFit() {
	v.ShrinkTo(0)
}
