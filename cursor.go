package vecell

import "iter"

// Cursor walks a cell front to back, copying one element per step. It holds
// no reference into the buffer between steps, so the cell may be mutated
// while a Cursor is alive; later steps see the mutation.
type Cursor[T any] struct {
	vc  *VecCell[T]
	idx int
}

func (v *VecCell[T]) Iter() *Cursor[T] {
	return &Cursor[T]{vc: v}
}

// Next returns a copy of the element at the cursor position and advances.
// It reports false once the position is past the end of the cell.
func (c *Cursor[T]) Next() (T, bool) {
	x, ok := c.vc.Get(c.idx)
	c.idx++
	return x, ok
}

// Index is the position the next call to Next will read.
func (c *Cursor[T]) Index() int {
	return c.idx
}

// Values yields copies of the elements in order, reading the live cell at
// every step. The loop body may mutate the cell.
func (v *VecCell[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		c := v.Iter()
		for {
			x, ok := c.Next()
			if !ok || !yield(x) {
				return
			}
		}
	}
}

// All is Values with the index of each element.
func (v *VecCell[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		c := v.Iter()
		for {
			i := c.Index()
			x, ok := c.Next()
			if !ok || !yield(i, x) {
				return
			}
		}
	}
}
