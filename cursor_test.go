package vecell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		c := New[int]().Iter()
		_, ok := c.Next()
		assert.False(t, ok)
		_, ok = c.Next()
		assert.False(t, ok)
	})

	t.Run("in order", func(t *testing.T) {
		c := Of(1, 2, 3).Iter()
		var got []int
		for x, ok := c.Next(); ok; x, ok = c.Next() {
			got = append(got, x)
		}
		assert.Equal(t, []int{1, 2, 3}, got)
		assert.Equal(t, 4, c.Index())
	})

	t.Run("observes mutation between steps", func(t *testing.T) {
		v := Of(1, 2, 3)
		c := v.Iter()
		x, _ := c.Next()
		assert.Equal(t, 1, x)

		v.Set(1, 20)
		v.Push(4)
		x, _ = c.Next()
		assert.Equal(t, 20, x)

		v.Remove(0)
		x, _ = c.Next()
		assert.Equal(t, 4, x)
		_, ok := c.Next()
		assert.False(t, ok)
	})

	t.Run("fresh cursor restarts", func(t *testing.T) {
		v := Of("a", "b")
		c := v.Iter()
		c.Next()
		c.Next()
		x, ok := v.Iter().Next()
		require.True(t, ok)
		assert.Equal(t, "a", x)
	})
}

func TestRangeFuncs(t *testing.T) {
	v := Of(10, 20, 30)
	var idx, vals []int
	for i, x := range v.All() {
		idx = append(idx, i)
		vals = append(vals, x)
	}
	assert.Equal(t, []int{0, 1, 2}, idx)
	assert.Equal(t, []int{10, 20, 30}, vals)

	// the loop body may mutate the cell it ranges over
	var seen []int
	for x := range v.Values() {
		seen = append(seen, x)
		if x == 10 {
			v.Push(40)
		}
		if x == 30 {
			break
		}
	}
	assert.Equal(t, []int{10, 20, 30}, seen)
	assert.Equal(t, 4, v.Len())

	var all []int
	for x := range v.Values() {
		all = append(all, x)
	}
	assert.Equal(t, []int{10, 20, 30, 40}, all)
}
