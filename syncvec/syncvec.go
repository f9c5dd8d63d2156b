// Package syncvec puts a lock in front of a vecell.VecCell for callers that
// share one sequence between goroutines.
package syncvec

import (
	"slices"
	"sync"

	"github.com/rawbytedev/vecell"
)

// Locked is a thread safe VecCell. Writers hold the write lock for the
// duration of one cell operation; readers hold the read lock and go through the
// cell's shared view, which cannot overlap a writer.
type Locked[T any] struct {
	lock sync.RWMutex
	cell *vecell.VecCell[T]
}

func New[T any]() *Locked[T] {
	return &Locked[T]{cell: vecell.New[T]()}
}

// Wrap takes ownership of cell. The caller must not use cell directly afterwards.
func Wrap[T any](cell *vecell.VecCell[T]) *Locked[T] {
	return &Locked[T]{cell: cell}
}

func (l *Locked[T]) Push(x T) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.cell.Push(x)
}

func (l *Locked[T]) PushAll(xs ...T) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.cell.ExtendFromSlice(xs)
}

func (l *Locked[T]) Pop() (T, bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.cell.Pop()
}

func (l *Locked[T]) Insert(i int, x T) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.cell.Insert(i, x)
}

func (l *Locked[T]) Remove(i int) T {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.cell.Remove(i)
}

// DrainAll removes every element and returns them in order.
func (l *Locked[T]) DrainAll() []T {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.cell.DrainCollect(0, l.cell.Len())
}

func (l *Locked[T]) Get(i int) (T, bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	view := l.cell.UnsafeView()
	if i < 0 || i >= len(view) {
		var zero T
		return zero, false
	}
	return view[i], true
}

func (l *Locked[T]) Len() int {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return len(l.cell.UnsafeView())
}

// Snapshot returns a copy of the current contents.
func (l *Locked[T]) Snapshot() []T {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return slices.Clone(l.cell.UnsafeView())
}

// Do runs fn with exclusive access to the cell. fn must not retain the cell
// or call back into l.
func (l *Locked[T]) Do(fn func(cell *vecell.VecCell[T])) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fn(l.cell)
}

// View runs fn with a read-only view of the contents, shared with other
// readers. fn must not modify or retain the slice.
func (l *Locked[T]) View(fn func(items []T)) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	fn(l.cell.UnsafeView())
}
