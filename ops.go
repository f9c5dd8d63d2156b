package vecell

import (
	"iter"
	"slices"
)

// Push appends x. It may reallocate, invalidating unsafe views.
func (v *VecCell[T]) Push(x T) {
	v.borrow()
	defer v.release()
	v.buf = append(v.buf, x)
}

// Pop removes and returns the last element.
func (v *VecCell[T]) Pop() (T, bool) {
	v.borrow()
	defer v.release()
	var zero T
	n := len(v.buf)
	if n == 0 {
		return zero, false
	}
	x := v.buf[n-1]
	v.buf[n-1] = zero
	v.buf = v.buf[:n-1]
	return x, true
}

// Insert places x at index i, shifting later elements right. i == Len() appends.
func (v *VecCell[T]) Insert(i int, x T) {
	v.borrow()
	defer v.release()
	checkIndexInclusive("insert", i, len(v.buf))
	v.buf = slices.Insert(v.buf, i, x)
}

// Remove deletes and returns element i, shifting later elements left.
func (v *VecCell[T]) Remove(i int) T {
	v.borrow()
	defer v.release()
	checkIndex("remove", i, len(v.buf))
	x := v.buf[i]
	v.buf = slices.Delete(v.buf, i, i+1)
	return x
}

// SwapRemove deletes and returns element i, moving the last element into its
// slot. It runs in constant time and does not preserve order.
func (v *VecCell[T]) SwapRemove(i int) T {
	v.borrow()
	defer v.release()
	n := len(v.buf)
	checkIndex("swap_remove", i, n)
	x := v.buf[i]
	v.buf[i] = v.buf[n-1]
	var zero T
	v.buf[n-1] = zero
	v.buf = v.buf[:n-1]
	return x
}

// Set overwrites element i.
func (v *VecCell[T]) Set(i int, x T) {
	v.borrow()
	defer v.release()
	checkIndex("set", i, len(v.buf))
	v.buf[i] = x
}

func (v *VecCell[T]) Swap(a, b int) {
	v.borrow()
	defer v.release()
	checkIndex("swap", a, len(v.buf))
	checkIndex("swap", b, len(v.buf))
	v.buf[a], v.buf[b] = v.buf[b], v.buf[a]
}

// Truncate keeps the first n elements. It is a no-op when n >= Len().
func (v *VecCell[T]) Truncate(n int) {
	v.borrow()
	defer v.release()
	v.truncate(n)
}

func (v *VecCell[T]) truncate(n int) {
	if n < 0 {
		panic(&BoundsError{Op: "truncate", Index: n, End: -1, Len: len(v.buf)})
	}
	if n >= len(v.buf) {
		return
	}
	clear(v.buf[n:])
	v.buf = v.buf[:n]
}

// Clear removes every element and keeps the capacity.
func (v *VecCell[T]) Clear() {
	v.borrow()
	defer v.release()
	v.truncate(0)
}

// Resize grows the cell to n elements, filling with copies of x, or shrinks it to n.
func (v *VecCell[T]) Resize(n int, x T) {
	v.borrow()
	defer v.release()
	if n <= len(v.buf) {
		v.truncate(n)
		return
	}
	old := len(v.buf)
	v.buf = slices.Grow(v.buf, n-old)[:n]
	for i := old; i < n; i++ {
		v.buf[i] = x
	}
}

// SplitOff keeps [0, at) and returns [at, Len()) as a new slice.
func (v *VecCell[T]) SplitOff(at int) []T {
	v.borrow()
	defer v.release()
	checkIndexInclusive("split_off", at, len(v.buf))
	tail := slices.Clone(v.buf[at:])
	if tail == nil {
		tail = []T{}
	}
	v.truncate(at)
	return tail
}

// Drain removes [lo, hi), shifting the rest left.
func (v *VecCell[T]) Drain(lo, hi int) {
	v.borrow()
	defer v.release()
	checkRange("drain", lo, hi, len(v.buf))
	v.buf = slices.Delete(v.buf, lo, hi)
}

// DrainCollect removes [lo, hi) and returns the removed elements in order.
func (v *VecCell[T]) DrainCollect(lo, hi int) []T {
	v.borrow()
	defer v.release()
	checkRange("drain", lo, hi, len(v.buf))
	out := make([]T, hi-lo)
	copy(out, v.buf[lo:hi])
	v.buf = slices.Delete(v.buf, lo, hi)
	return out
}

// Extend appends every value produced by seq. The sequence is consumed before
// the cell is touched, so seq may itself read this cell.
func (v *VecCell[T]) Extend(seq iter.Seq[T]) {
	staged := slices.Collect(seq)
	v.borrow()
	defer v.release()
	v.buf = append(v.buf, staged...)
}

// ExtendFromSlice appends copies of items in order.
func (v *VecCell[T]) ExtendFromSlice(items []T) {
	v.borrow()
	defer v.release()
	v.buf = append(v.buf, items...)
}

// Retain keeps only the elements for which keep returns true, in order.
func (v *VecCell[T]) Retain(keep func(T) bool) {
	v.borrow()
	defer v.release()
	v.buf = slices.DeleteFunc(v.buf, func(x T) bool { return !keep(x) })
}

// DedupFunc removes consecutive runs of elements that eq reports equal,
// keeping the first of each run.
func (v *VecCell[T]) DedupFunc(eq func(a, b T) bool) {
	v.borrow()
	defer v.release()
	v.buf = slices.CompactFunc(v.buf, eq)
}

// Fill overwrites every element with x.
func (v *VecCell[T]) Fill(x T) {
	v.borrow()
	defer v.release()
	for i := range v.buf {
		v.buf[i] = x
	}
}

func (v *VecCell[T]) Reverse() {
	v.borrow()
	defer v.release()
	slices.Reverse(v.buf)
}

// RotateLeft shifts every element k places towards the front, wrapping
// around. k must be in [0, Len()].
func (v *VecCell[T]) RotateLeft(k int) {
	v.borrow()
	defer v.release()
	checkIndexInclusive("rotate_left", k, len(v.buf))
	rotate(v.buf, k)
}

// RotateRight shifts every element k places towards the back, wrapping
// around. k must be in [0, Len()].
func (v *VecCell[T]) RotateRight(k int) {
	v.borrow()
	defer v.release()
	checkIndexInclusive("rotate_right", k, len(v.buf))
	rotate(v.buf, len(v.buf)-k)
}

func rotate[T any](s []T, mid int) {
	slices.Reverse(s[:mid])
	slices.Reverse(s[mid:])
	slices.Reverse(s)
}

// SortFunc sorts by cmp. Equal elements may be reordered.
func (v *VecCell[T]) SortFunc(cmp func(a, b T) int) {
	v.borrow()
	defer v.release()
	slices.SortFunc(v.buf, cmp)
}

// SortStableFunc sorts by cmp, keeping equal elements in their original order.
func (v *VecCell[T]) SortStableFunc(cmp func(a, b T) int) {
	v.borrow()
	defer v.release()
	slices.SortStableFunc(v.buf, cmp)
}

// BinarySearchFunc searches a cell sorted by cmp. It returns the index of a
// match and true, or the insertion index that keeps the order and false.
func (v *VecCell[T]) BinarySearchFunc(target T, cmp func(T, T) int) (int, bool) {
	v.borrow()
	defer v.release()
	return slices.BinarySearchFunc(v.buf, target, cmp)
}

func (v *VecCell[T]) ContainsFunc(pred func(T) bool) bool {
	return v.IndexFunc(pred) >= 0
}

// IndexFunc returns the first index satisfying pred, or -1.
func (v *VecCell[T]) IndexFunc(pred func(T) bool) int {
	v.borrow()
	defer v.release()
	return slices.IndexFunc(v.buf, pred)
}
