package codec

import (
	"encoding/binary"
	"hash/crc32"
	"math"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/rawbytedev/vecell"
	"github.com/rawbytedev/vecell/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var optionSets = map[string]Options{
	"safe":       {},
	"unsafe":     {UnsafeStrings: true, UnsafePrimitives: true},
	"aligned":    {UnsafePrimitives: true, CheckAlignment: true},
	"compressed": {Compress: true},
	"all":        {UnsafeStrings: true, UnsafePrimitives: true, CheckAlignment: true, Compress: true},
}

func roundTrip[T any](t *testing.T, c *Codec, in []T) []T {
	t.Helper()
	data, err := Encode(c, vecell.From(in))
	require.NoError(t, err)
	out, err := Decode[T](c, data)
	require.NoError(t, err)
	return out.IntoInner()
}

func TestRoundTrip(t *testing.T) {
	for name, opts := range optionSets {
		t.Run(name, func(t *testing.T) {
			c := New(opts)
			assert.Equal(t, []int64{1, -2, math.MaxInt64, math.MinInt64}, roundTrip(t, c, []int64{1, -2, math.MaxInt64, math.MinInt64}))
			assert.Equal(t, []uint16{0, 7, math.MaxUint16}, roundTrip(t, c, []uint16{0, 7, math.MaxUint16}))
			assert.Equal(t, []float32{1.5, -0.25}, roundTrip(t, c, []float32{1.5, -0.25}))
			assert.Equal(t, []float64{math.Pi, math.Inf(-1)}, roundTrip(t, c, []float64{math.Pi, math.Inf(-1)}))
			assert.Equal(t, []bool{true, false, true}, roundTrip(t, c, []bool{true, false, true}))
			assert.Equal(t, []int8{-128, 0, 127}, roundTrip(t, c, []int8{-128, 0, 127}))
			assert.Equal(t, []string{"azerty", "", "Loling"}, roundTrip(t, c, []string{"azerty", "", "Loling"}))
			assert.Equal(t, [][]byte{[]byte("ab"), {}, {0xff}}, roundTrip(t, c, [][]byte{[]byte("ab"), {}, {0xff}}))
			assert.Empty(t, roundTrip(t, c, []uint32{}))
		})
	}
}

type celsius float64

func TestNamedElementType(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, []celsius{21.5, -3}, roundTrip(t, c, []celsius{21.5, -3}))
}

func TestQuickRoundTrip(t *testing.T) {
	for name, opts := range optionSets {
		c := New(opts)
		ints := func(xs []int32) bool {
			data, err := Encode(c, vecell.From(xs))
			if err != nil {
				return false
			}
			out, err := Decode[int32](c, data)
			return err == nil && vecell.Equal(out, vecell.From(xs))
		}
		require.NoError(t, quick.Check(ints, nil), name)

		strs := func(xs []string) bool {
			data, err := Encode(c, vecell.From(xs))
			if err != nil {
				return false
			}
			out, err := Decode[string](c, data)
			return err == nil && vecell.Equal(out, vecell.From(xs))
		}
		require.NoError(t, quick.Check(strs, nil), name)
	}
}

func TestUnsafeDecodeAliasesInput(t *testing.T) {
	if !common.NativeLittleEndian {
		t.Skip("raw primitives are only used on little-endian hosts")
	}
	c := New(Options{UnsafePrimitives: true})
	data, err := Encode(c, vecell.Of[uint8](1, 2, 3))
	require.NoError(t, err)
	out, err := Decode[uint8](c, data)
	require.NoError(t, err)
	if !assert.Equal(t, []uint8{1, 2, 3}, out.UnsafeView()) {
		return
	}
	// payload starts right after the five header bytes and the count
	assert.Same(t, &data[6], out.UnsafeData())

	// growing the cell moves it off the input
	out.Push(4)
	assert.Equal(t, byte(1), data[6])
	assert.Equal(t, []uint8{1, 2, 3, 4}, out.UnsafeView())
}

func TestDecodeErrors(t *testing.T) {
	c := New(Options{})
	data, err := Encode(c, vecell.Of[int32](1, 2, 3))
	require.NoError(t, err)

	_, err = Decode[int32](c, data[:4])
	assert.ErrorIs(t, err, ErrCorrupt)

	bad := append([]byte{}, data...)
	bad[0] = 'X'
	_, err = Decode[int32](c, bad)
	assert.ErrorIs(t, err, ErrCorrupt)

	bad = append([]byte{}, data...)
	bad[len(bad)-5] ^= 0xff
	_, err = Decode[int32](c, bad)
	assert.ErrorIs(t, err, ErrChecksum)

	_, err = Decode[int64](c, data)
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = Encode(c, vecell.Of(struct{ A int }{1}))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = Encode(c, vecell.Of(1, 2))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestEncodeConsumedCellPanics(t *testing.T) {
	c := New(Options{})
	v := vecell.Of[int32](1, 2)
	_ = v.IntoInner()
	assert.PanicsWithValue(t, vecell.ErrConsumed, func() { _, _ = Encode(c, v) })
}

func TestDecodeRejectsBadBool(t *testing.T) {
	c := New(Options{UnsafePrimitives: true})
	data, err := Encode(c, vecell.Of[uint8](0, 2))
	require.NoError(t, err)
	// reuse the uint8 frame as a bool frame
	forged := append([]byte{}, data[:len(data)-trailerSize]...)
	forged[3] = byte(reflect.Bool)
	forged = binary.LittleEndian.AppendUint32(forged, crc32.ChecksumIEEE(forged[2:]))
	_, err = Decode[bool](c, forged)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func BenchmarkEncodeSafe(b *testing.B) {
	benchEncode(b, Options{})
}

func BenchmarkEncodeUnsafe(b *testing.B) {
	benchEncode(b, Options{UnsafePrimitives: true})
}

func benchEncode(b *testing.B, opts Options) {
	v := vecell.New[float64]()
	v.Resize(4096, 1.5)
	c := New(opts)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(c, v)
	}
}

func BenchmarkDecodeUnsafe(b *testing.B) {
	v := vecell.New[float64]()
	v.Resize(4096, 1.5)
	c := New(Options{UnsafePrimitives: true})
	data, _ := Encode(c, v)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode[float64](c, data)
	}
}
