package common

import (
	"math"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarUint(t *testing.T) {
	for _, x := range []uint64{0, 1, 127, 128, 300, math.MaxUint32, math.MaxUint64} {
		buf := WriteVarUint(nil, x)
		got, n := ReadVarUint(buf)
		require.Equal(t, len(buf), n, x)
		assert.Equal(t, x, got)
	}
	_, n := ReadVarUint([]byte{0x80, 0x80})
	assert.Zero(t, n, "truncated")
	_, n = ReadVarUint(nil)
	assert.Zero(t, n)
}

func TestQuickVarUint(t *testing.T) {
	f := func(x uint64) bool {
		got, n := ReadVarUint(WriteVarUint([]byte{0xff}, x)[1:])
		return n > 0 && got == x
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestFixedRoundTrip(t *testing.T) {
	values := []any{true, int8(-3), uint8(200), int16(-300), uint16(60000), int32(-7),
		uint32(1 << 31), int64(math.MinInt64), uint64(math.MaxUint64), float32(2.5), math.Pi}
	for _, x := range values {
		v := reflect.ValueOf(x)
		k := v.Kind()
		require.True(t, IsFixedKind(k), k)
		buf := AppendFixed(nil, v, k)
		require.Len(t, buf, FixedSize(k))
		out := reflect.New(v.Type()).Elem()
		SetFixed(out, buf, k)
		assert.Equal(t, x, out.Interface())
	}
	assert.False(t, IsFixedKind(reflect.Int))
	assert.False(t, IsFixedKind(reflect.String))
}

func TestBytesCast(t *testing.T) {
	assert.Nil(t, Bytes[uint32](nil))
	assert.Nil(t, Cast[uint32](nil))

	s := []uint16{1, 2, 3}
	b := Bytes(s)
	require.Len(t, b, 6)
	back := Cast[uint16](b)
	assert.Equal(t, s, back)
	back[1] = 9
	assert.Equal(t, uint16(9), s[1])
}
