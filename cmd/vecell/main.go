// Command vecell replays a YAML script of sequence operations against one
// VecCell[int64] and prints the outcome as JSON.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/goccy/go-json"
	"github.com/rawbytedev/vecell/codec"
	"github.com/rawbytedev/vecell/internal/script"
	"github.com/rs/zerolog"
)

type output struct {
	Name    string          `json:"name"`
	Items   []int64         `json:"items"`
	Cap     int             `json:"cap"`
	Results []script.Result `json:"results,omitempty"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("vecell", flag.ContinueOnError)
	fs.SetOutput(stderr)
	scriptPath := fs.String("script", "", "path to the YAML script (required)")
	snapshot := fs.String("snapshot", "", "write a binary snapshot of the final cell to this file")
	compress := fs.Bool("compress", false, "zstd-compress the snapshot payload")
	memprofile := fs.String("memprofile", "", "write a heap profile to this file")
	verbose := fs.Bool("v", false, "log every step")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(level).With().Timestamp().Str("component", "vecell").Logger()

	if *scriptPath == "" {
		logger.Error().Msg("missing -script")
		fs.Usage()
		return fmt.Errorf("missing -script")
	}
	if *memprofile != "" {
		runtime.MemProfileRate = 1
	}

	f, err := os.Open(*scriptPath)
	if err != nil {
		logger.Error().Err(err).Msg("open script")
		return err
	}
	s, err := script.Load(f)
	f.Close()
	if err != nil {
		logger.Error().Err(err).Str("path", *scriptPath).Msg("load script")
		return err
	}

	r := script.Runner{Logger: logger}
	v, results, err := r.Run(s)
	if err != nil {
		return err
	}

	if *snapshot != "" {
		data, err := codec.Encode(codec.New(codec.Options{UnsafePrimitives: true, Compress: *compress}), v)
		if err != nil {
			logger.Error().Err(err).Msg("encode snapshot")
			return err
		}
		if err := os.WriteFile(*snapshot, data, 0o644); err != nil {
			logger.Error().Err(err).Msg("write snapshot")
			return err
		}
		logger.Info().Str("path", *snapshot).Int("bytes", len(data)).Msg("snapshot written")
	}

	out := output{Name: s.Name, Cap: v.Cap(), Results: results}
	out.Items = v.IntoInner()
	if out.Items == nil {
		out.Items = []int64{}
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if *memprofile != "" {
		pf, err := os.Create(*memprofile)
		if err != nil {
			logger.Error().Err(err).Msg("create memprofile")
			return err
		}
		defer pf.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(pf); err != nil {
			logger.Error().Err(err).Msg("write memprofile")
			return err
		}
	}
	return nil
}
