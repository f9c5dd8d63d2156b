package vecell

import (
	"cmp"
	"slices"
)

// Operations that need a constraint on the element type.

// Dedup removes consecutive duplicates, keeping the first of each run.
func Dedup[T comparable](v *VecCell[T]) {
	v.borrow()
	defer v.release()
	v.buf = slices.Compact(v.buf)
}

func Contains[T comparable](v *VecCell[T], x T) bool {
	v.observe()
	return slices.Contains(v.buf, x)
}

// StartsWith reports whether prefix is a prefix of the cell's contents.
func StartsWith[T comparable](v *VecCell[T], prefix []T) bool {
	v.observe()
	return len(prefix) <= len(v.buf) && slices.Equal(v.buf[:len(prefix)], prefix)
}

// Equal reports whether a and b hold the same elements in the same order.
func Equal[T comparable](a, b *VecCell[T]) bool {
	a.observe()
	b.observe()
	return slices.Equal(a.buf, b.buf)
}

// Sort sorts ascending, keeping equal elements in their original order.
func Sort[T cmp.Ordered](v *VecCell[T]) {
	v.borrow()
	defer v.release()
	slices.SortStableFunc(v.buf, cmp.Compare[T])
}

// SortUnstable sorts ascending; equal elements may be reordered.
func SortUnstable[T cmp.Ordered](v *VecCell[T]) {
	v.borrow()
	defer v.release()
	slices.Sort(v.buf)
}

// BinarySearch searches a cell sorted ascending for x. It returns the index of
// a match and true, or the insertion index that keeps the cell sorted and false.
func BinarySearch[T cmp.Ordered](v *VecCell[T], x T) (int, bool) {
	v.observe()
	return slices.BinarySearch(v.buf, x)
}
