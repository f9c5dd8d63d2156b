// Package codec writes and reads binary snapshots of a vecell.VecCell whose
// elements are fixed-width primitives, strings or byte slices.
//
// Frame layout:
//
//	magic "VC" | version | kind | flags | varint count | payload | crc32 (LE)
//
// The checksum covers everything after the magic. Fixed-width elements are
// stored little-endian, back to back; strings and byte slices are stored as a
// varint length followed by their bytes. With Compress set the payload is a
// zstd frame.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"reflect"
	"sync"
	"unsafe"

	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/vecell"
	"github.com/rawbytedev/vecell/internal/common"
)

const (
	Version = 1

	headerSize  = 5
	trailerSize = 4

	flagCompressed = 1 << 0
)

var magic = [2]byte{'V', 'C'}

var (
	ErrUnsupported  = errors.New("codec: unsupported element type")
	ErrCorrupt      = errors.New("codec: corrupt snapshot")
	ErrChecksum     = errors.New("codec: checksum mismatch")
	ErrKindMismatch = errors.New("codec: element kind mismatch")
)

type Options struct {
	// UnsafeStrings decodes string and []byte elements as views into the
	// input; the caller must keep the input alive and unmodified.
	UnsafeStrings bool
	// UnsafePrimitives moves fixed-width elements as raw memory on
	// little-endian hosts. On decode the returned cell aliases the input.
	UnsafePrimitives bool
	// CheckAlignment makes decode copy instead of alias when the payload is
	// not aligned for the element type.
	CheckAlignment bool
	// Compress stores the payload as a zstd frame.
	Compress bool
}

type elemPlan struct {
	kind  reflect.Kind
	size  int
	isVar bool
	// bytes marks []byte elements; kind is then reflect.Slice.
	bytes bool
}

// Codec caches one plan per element type and is safe for concurrent use.
type Codec struct {
	Opts Options

	mu   sync.RWMutex
	plan map[reflect.Type]*elemPlan

	encOnce sync.Once
	enc     *zstd.Encoder
	encErr  error
	decOnce sync.Once
	dec     *zstd.Decoder
	decErr  error
}

func New(opts Options) *Codec {
	return &Codec{
		Opts: opts,
		plan: make(map[reflect.Type]*elemPlan),
	}
}

func (c *Codec) getPlan(t reflect.Type) (*elemPlan, error) {
	c.mu.RLock()
	if p, ok := c.plan[t]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	// Double-check
	if p, ok := c.plan[t]; ok {
		return p, nil
	}
	k := t.Kind()
	p := &elemPlan{kind: k}
	switch {
	case common.IsFixedKind(k):
		p.size = common.FixedSize(k)
	case k == reflect.String:
		p.isVar = true
	case k == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		p.isVar = true
		p.bytes = true
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, t)
	}
	if c.plan == nil {
		c.plan = make(map[reflect.Type]*elemPlan)
	}
	c.plan[t] = p
	return p, nil
}

func (c *Codec) encoder() (*zstd.Encoder, error) {
	c.encOnce.Do(func() {
		c.enc, c.encErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	if c.encErr != nil {
		return nil, fmt.Errorf("codec: zstd encoder: %w", c.encErr)
	}
	return c.enc, nil
}

func (c *Codec) decoder() (*zstd.Decoder, error) {
	c.decOnce.Do(func() {
		c.dec, c.decErr = zstd.NewReader(nil)
	})
	if c.decErr != nil {
		return nil, fmt.Errorf("codec: zstd decoder: %w", c.decErr)
	}
	return c.dec, nil
}

func (c *Codec) rawPrimitives() bool {
	return c.Opts.UnsafePrimitives && common.NativeLittleEndian
}

// Encode writes a snapshot of v. It reads v through its shared view, so no
// other operation on v may run until Encode returns.
func Encode[T any](c *Codec, v *vecell.VecCell[T]) ([]byte, error) {
	t := reflect.TypeFor[T]()
	p, err := c.getPlan(t)
	if err != nil {
		return nil, err
	}
	// a consumed cell panics here instead of encoding as empty
	v.Len()
	view := v.UnsafeView()

	var payload []byte
	switch {
	case !p.isVar && c.rawPrimitives():
		payload = common.Bytes(view)
	case !p.isVar:
		payload = make([]byte, 0, len(view)*p.size)
		rv := reflect.ValueOf(view)
		for i := range view {
			payload = common.AppendFixed(payload, rv.Index(i), p.kind)
		}
	default:
		rv := reflect.ValueOf(view)
		for i := range view {
			elem := rv.Index(i)
			if p.bytes {
				b := elem.Bytes()
				payload = common.WriteVarUint(payload, uint64(len(b)))
				payload = append(payload, b...)
			} else {
				s := elem.String()
				payload = common.WriteVarUint(payload, uint64(len(s)))
				payload = append(payload, s...)
			}
		}
	}

	var flags byte
	if c.Opts.Compress {
		enc, err := c.encoder()
		if err != nil {
			return nil, err
		}
		payload = enc.EncodeAll(payload, nil)
		flags |= flagCompressed
	}

	out := make([]byte, 0, headerSize+binary.MaxVarintLen64+len(payload)+trailerSize)
	out = append(out, magic[0], magic[1], Version, byte(p.kind), flags)
	out = common.WriteVarUint(out, uint64(len(view)))
	out = append(out, payload...)
	return binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(out[len(magic):])), nil
}

// Decode reads a snapshot into a new cell. With UnsafePrimitives or
// UnsafeStrings the cell may share memory with data; see Options.
func Decode[T any](c *Codec, data []byte) (*vecell.VecCell[T], error) {
	t := reflect.TypeFor[T]()
	p, err := c.getPlan(t)
	if err != nil {
		return nil, err
	}
	if len(data) < headerSize+1+trailerSize || data[0] != magic[0] || data[1] != magic[1] {
		return nil, ErrCorrupt
	}
	if data[2] != Version {
		return nil, fmt.Errorf("%w: version %d", ErrCorrupt, data[2])
	}
	body := data[:len(data)-trailerSize]
	want := binary.LittleEndian.Uint32(data[len(data)-trailerSize:])
	if crc32.ChecksumIEEE(body[len(magic):]) != want {
		return nil, ErrChecksum
	}
	if reflect.Kind(data[3]) != p.kind {
		return nil, fmt.Errorf("%w: snapshot holds %s, want %s", ErrKindMismatch, reflect.Kind(data[3]), p.kind)
	}
	flags := data[4]
	count, n := common.ReadVarUint(body[headerSize:])
	if n == 0 {
		return nil, ErrCorrupt
	}
	payload := body[headerSize+n:]
	compressed := flags&flagCompressed != 0
	if compressed {
		dec, err := c.decoder()
		if err != nil {
			return nil, err
		}
		payload, err = dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}

	if p.isVar {
		return decodeVar[T](c, p, t, payload, count)
	}
	if count > uint64(len(payload)/p.size) || uint64(len(payload)) != count*uint64(p.size) {
		return nil, fmt.Errorf("%w: %d elements need %d bytes, have %d", ErrCorrupt, count, count*uint64(p.size), len(payload))
	}
	if p.kind == reflect.Bool {
		for _, b := range payload {
			if b > 1 {
				return nil, fmt.Errorf("%w: bool byte %d", ErrCorrupt, b)
			}
		}
	}
	if c.rawPrimitives() {
		if !compressed && (!c.Opts.CheckAlignment || common.Aligned(payload, common.Alignment(p.kind))) {
			return vecell.From(common.Cast[T](payload)), nil
		}
		out := make([]T, count)
		copy(common.Bytes(out), payload)
		return vecell.From(out), nil
	}
	rv := reflect.MakeSlice(reflect.SliceOf(t), int(count), int(count))
	for i := 0; i < int(count); i++ {
		common.SetFixed(rv.Index(i), payload[i*p.size:(i+1)*p.size], p.kind)
	}
	return vecell.From(rv.Interface().([]T)), nil
}

func decodeVar[T any](c *Codec, p *elemPlan, t reflect.Type, payload []byte, count uint64) (*vecell.VecCell[T], error) {
	// every element takes at least one length byte
	if count > uint64(len(payload)) {
		return nil, fmt.Errorf("%w: %d elements in %d bytes", ErrCorrupt, count, len(payload))
	}
	rv := reflect.MakeSlice(reflect.SliceOf(t), int(count), int(count))
	pos := 0
	for i := 0; i < int(count); i++ {
		l, n := common.ReadVarUint(payload[pos:])
		if n == 0 || l > uint64(len(payload)-pos-n) {
			return nil, fmt.Errorf("%w: element %d", ErrCorrupt, i)
		}
		pos += n
		b := payload[pos : pos+int(l) : pos+int(l)]
		pos += int(l)
		elem := rv.Index(i)
		switch {
		case p.bytes && c.Opts.UnsafeStrings:
			elem.SetBytes(b)
		case p.bytes:
			elem.SetBytes(append([]byte{}, b...))
		case c.Opts.UnsafeStrings && len(b) > 0:
			elem.SetString(unsafe.String(&b[0], len(b)))
		default:
			elem.SetString(string(b))
		}
	}
	if pos != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(payload)-pos)
	}
	return vecell.From(rv.Interface().([]T)), nil
}
