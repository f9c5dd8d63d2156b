// Package script loads YAML operation scripts and replays them against a
// vecell.VecCell[int64].
package script

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/rawbytedev/vecell"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownOp = errors.New("script: unknown op")
	ErrArity     = errors.New("script: wrong number of args")
	ErrStep      = errors.New("script: step failed")
)

type Step struct {
	Op   string  `yaml:"op"`
	Args []int64 `yaml:"args,omitempty"`
}

type Script struct {
	Name string `yaml:"name"`
	// Capacity is reserved up front when positive.
	Capacity int     `yaml:"capacity,omitempty"`
	Initial  []int64 `yaml:"initial,omitempty"`
	Steps    []Step  `yaml:"steps"`
}

// arity is the accepted argument count range; max < 0 means variadic.
type arity struct{ min, max int }

var ops = map[string]arity{
	"push":          {1, 1},
	"pop":           {0, 0},
	"insert":        {2, 2},
	"remove":        {1, 1},
	"swap_remove":   {1, 1},
	"set":           {2, 2},
	"swap":          {2, 2},
	"truncate":      {1, 1},
	"clear":         {0, 0},
	"resize":        {2, 2},
	"reserve":       {1, 1},
	"reserve_exact": {1, 1},
	"try_reserve":   {1, 1},
	"shrink_to":     {1, 1},
	"shrink_to_fit": {0, 0},
	"split_off":     {1, 1},
	"drain":         {2, 2},
	"drain_collect": {2, 2},
	"extend":        {0, -1},
	"dedup":         {0, 0},
	"fill":          {1, 1},
	"reverse":       {0, 0},
	"rotate_left":   {1, 1},
	"rotate_right":  {1, 1},
	"sort":          {0, 0},
	"sort_unstable": {0, 0},
	"binary_search": {1, 1},
	"contains":      {1, 1},
	"starts_with":   {0, -1},
	"get":           {1, 1},
	"first":         {0, 0},
	"last":          {0, 0},
	"len":           {0, 0},
	"cap":           {0, 0},
}

// Load parses and validates a script.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("script: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) Validate() error {
	if s.Capacity < 0 {
		return fmt.Errorf("script: negative capacity %d", s.Capacity)
	}
	for i, st := range s.Steps {
		a, ok := ops[st.Op]
		if !ok {
			return fmt.Errorf("%w: step %d: %q", ErrUnknownOp, i, st.Op)
		}
		if len(st.Args) < a.min || (a.max >= 0 && len(st.Args) > a.max) {
			return fmt.Errorf("%w: step %d (%s): got %d", ErrArity, i, st.Op, len(st.Args))
		}
	}
	return nil
}

// Result records what a step returned, if anything.
type Result struct {
	Step  int    `json:"step"`
	Op    string `json:"op"`
	Value any    `json:"value,omitempty"`
	Found *bool  `json:"found,omitempty"`
}

type Runner struct {
	Logger zerolog.Logger
}

// Run replays s on a fresh cell. A step that fails stops the run; the cell is
// returned in the state left by the previous steps.
func (r *Runner) Run(s *Script) (*vecell.VecCell[int64], []Result, error) {
	logger := r.Logger.With().Str("script", s.Name).Logger()
	v := vecell.New[int64]()
	if err := v.TryReserveExact(max(s.Capacity, len(s.Initial))); err != nil {
		logger.Error().Err(err).Int("capacity", s.Capacity).Msg("initial reserve failed")
		return v, nil, fmt.Errorf("script: capacity: %w", err)
	}
	v.ExtendFromSlice(s.Initial)

	var results []Result
	for i, st := range s.Steps {
		res, err := apply(v, st)
		if err != nil {
			logger.Error().Err(err).Int("step", i).Str("op", st.Op).Msg("step failed")
			return v, results, fmt.Errorf("%w: step %d (%s): %w", ErrStep, i, st.Op, err)
		}
		ev := logger.Debug().Int("step", i).Str("op", st.Op).Ints64("args", st.Args).Int("len", v.Len())
		if res != nil {
			res.Step = i
			res.Op = st.Op
			results = append(results, *res)
			ev = ev.Interface("value", res.Value)
		}
		ev.Msg("step")
	}
	logger.Info().Int("steps", len(s.Steps)).Int("len", v.Len()).Int("cap", v.Cap()).Msg("script done")
	return v, results, nil
}

// apply runs one step. Bounds violations raised by the cell become errors, and
// every step that can grow the buffer by an argument-sized amount reserves
// through TryReserve first so an oversized request fails instead of exhausting
// memory.
func apply(v *vecell.VecCell[int64], st Step) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			be, ok := r.(*vecell.BoundsError)
			if !ok {
				panic(r)
			}
			res, err = nil, be
		}
	}()

	a := st.Args
	arg := func(i int) int { return int(a[i]) }
	value := func(x any) *Result { return &Result{Value: x} }
	lookup := func(x int64, ok bool) *Result {
		if !ok {
			return &Result{Found: &ok}
		}
		return &Result{Value: x, Found: &ok}
	}

	switch st.Op {
	case "push":
		v.Push(a[0])
	case "pop":
		return lookup(v.Pop()), nil
	case "insert":
		v.Insert(arg(0), a[1])
	case "remove":
		return value(v.Remove(arg(0))), nil
	case "swap_remove":
		return value(v.SwapRemove(arg(0))), nil
	case "set":
		v.Set(arg(0), a[1])
	case "swap":
		v.Swap(arg(0), arg(1))
	case "truncate":
		v.Truncate(arg(0))
	case "clear":
		v.Clear()
	case "resize":
		if grow := arg(0) - v.Len(); grow > 0 {
			if err := v.TryReserveExact(grow); err != nil {
				return nil, err
			}
		}
		v.Resize(arg(0), a[1])
	case "reserve":
		if arg(0) < 0 {
			v.Reserve(arg(0))
		}
		if err := v.TryReserve(arg(0)); err != nil {
			return nil, err
		}
	case "reserve_exact":
		if arg(0) < 0 {
			v.ReserveExact(arg(0))
		}
		if err := v.TryReserveExact(arg(0)); err != nil {
			return nil, err
		}
	case "try_reserve":
		if err := v.TryReserve(arg(0)); err != nil {
			return nil, err
		}
	case "shrink_to":
		v.ShrinkTo(arg(0))
	case "shrink_to_fit":
		v.ShrinkToFit()
	case "split_off":
		return value(v.SplitOff(arg(0))), nil
	case "drain":
		v.Drain(arg(0), arg(1))
	case "drain_collect":
		return value(v.DrainCollect(arg(0), arg(1))), nil
	case "extend":
		v.Extend(slices.Values(a))
	case "dedup":
		vecell.Dedup(v)
	case "fill":
		v.Fill(a[0])
	case "reverse":
		v.Reverse()
	case "rotate_left":
		v.RotateLeft(arg(0))
	case "rotate_right":
		v.RotateRight(arg(0))
	case "sort":
		vecell.Sort(v)
	case "sort_unstable":
		vecell.SortUnstable(v)
	case "binary_search":
		i, found := vecell.BinarySearch(v, a[0])
		return &Result{Value: i, Found: &found}, nil
	case "contains":
		return value(vecell.Contains(v, a[0])), nil
	case "starts_with":
		return value(vecell.StartsWith(v, a)), nil
	case "get":
		return lookup(v.Get(arg(0))), nil
	case "first":
		return lookup(v.First()), nil
	case "last":
		return lookup(v.Last()), nil
	case "len":
		return value(v.Len()), nil
	case "cap":
		return value(v.Cap()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, st.Op)
	}
	return nil, nil
}
