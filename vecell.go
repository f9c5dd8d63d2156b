package vecell

import (
	"fmt"
	"slices"
	"unsafe"
)

type cellState uint8

const (
	stateIdle cellState = iota
	stateBorrowed
	stateConsumed
)

// VecCell is a growable sequence that can be mutated through a shared pointer.
// It is not safe for concurrent use and must not be copied after first use;
// share it by pointer. The zero value is an empty cell ready to use.
type VecCell[T any] struct {
	buf   []T
	state cellState
}

// New returns an empty cell.
func New[T any]() *VecCell[T] {
	return &VecCell[T]{}
}

// WithCapacity returns an empty cell with room for at least n elements.
func WithCapacity[T any](n int) *VecCell[T] {
	if n < 0 {
		panic(&BoundsError{Op: "with_capacity", Index: n, End: -1})
	}
	return &VecCell[T]{buf: make([]T, 0, n)}
}

// From wraps s without copying. The cell owns s from now on; the caller must
// not keep using s or any slice sharing its backing array.
func From[T any](s []T) *VecCell[T] {
	return &VecCell[T]{buf: s}
}

// Of builds a cell holding items, in order.
func Of[T any](items ...T) *VecCell[T] {
	v := WithCapacity[T](len(items))
	v.ExtendFromSlice(items)
	return v
}

// borrow opens the exclusive window of one operation.
func (v *VecCell[T]) borrow() {
	switch v.state {
	case stateBorrowed:
		panic(ErrReentrant)
	case stateConsumed:
		panic(ErrConsumed)
	}
	v.state = stateBorrowed
}

func (v *VecCell[T]) release() {
	v.state = stateIdle
}

// observe checks that a read-only call does not overlap an open window.
func (v *VecCell[T]) observe() {
	switch v.state {
	case stateBorrowed:
		panic(ErrReentrant)
	case stateConsumed:
		panic(ErrConsumed)
	}
}

// IntoInner hands the buffer back to the caller and ends the cell's life.
// Every later checked operation panics with ErrConsumed.
func (v *VecCell[T]) IntoInner() []T {
	v.borrow()
	s := v.buf
	v.buf = nil
	v.state = stateConsumed
	return s
}

// UnsafeView returns the live buffer for reading. The caller must ensure that
// no operation that mutates the cell runs while the slice is in use.
func (v *VecCell[T]) UnsafeView() []T {
	return v.buf
}

// UnsafeViewMut returns the cell's own slice header. Writes through it,
// including appends and reslices, become the cell's contents. The caller must
// ensure that nothing else reads or writes the cell while it is in use.
func (v *VecCell[T]) UnsafeViewMut() *[]T {
	return &v.buf
}

// UnsafeGetRef returns a pointer to element i, or nil if i is out of range.
// The pointer is invalidated by any operation that moves the buffer.
func (v *VecCell[T]) UnsafeGetRef(i int) *T {
	if i < 0 || i >= len(v.buf) {
		return nil
	}
	return &v.buf[i]
}

// UnsafeData returns a pointer to the first element of the backing array,
// nil if no array has been allocated.
func (v *VecCell[T]) UnsafeData() *T {
	return unsafe.SliceData(v.buf)
}

// Get returns a copy of element i.
func (v *VecCell[T]) Get(i int) (T, bool) {
	v.observe()
	if i < 0 || i >= len(v.buf) {
		var zero T
		return zero, false
	}
	return v.buf[i], true
}

func (v *VecCell[T]) First() (T, bool) {
	return v.Get(0)
}

func (v *VecCell[T]) Last() (T, bool) {
	v.observe()
	return v.Get(len(v.buf) - 1)
}

func (v *VecCell[T]) Len() int {
	v.observe()
	return len(v.buf)
}

func (v *VecCell[T]) Cap() int {
	v.observe()
	return cap(v.buf)
}

func (v *VecCell[T]) IsEmpty() bool {
	return v.Len() == 0
}

// Clone returns a cell with its own copy of every element.
func (v *VecCell[T]) Clone() *VecCell[T] {
	v.observe()
	if v.buf == nil {
		return New[T]()
	}
	return From(slices.Clone(v.buf))
}

// CloneFunc is Clone for element types whose assignment shares state, such as
// pointers or slices; clone produces the independent copy of one element.
func (v *VecCell[T]) CloneFunc(clone func(T) T) *VecCell[T] {
	v.borrow()
	defer v.release()
	out := make([]T, len(v.buf))
	for i, x := range v.buf {
		out[i] = clone(x)
	}
	return From(out)
}

func (v *VecCell[T]) String() string {
	v.observe()
	return fmt.Sprint(v.buf)
}
