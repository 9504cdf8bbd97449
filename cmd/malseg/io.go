package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/example/malseg/internal/config"
	"github.com/example/malseg/internal/corpus"
	"github.com/example/malseg/internal/segment"
)

// newSegmenter builds a segmenter from cfg, loading the rule file when one
// is configured.
func newSegmenter(cfg config.Config) (*segment.Segmenter, error) {
	rules := segment.DefaultRules()
	if cfg.Paths.RulesFile != "" {
		loaded, err := segment.LoadRules(cfg.Paths.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}

	seg, err := segment.New(
		segment.WithRules(rules),
		segment.WithSentinel(cfg.Segment.Sentinel),
		segment.WithCacheSize(cfg.Segment.CacheSize),
		segment.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("build segmenter: %w", err)
	}

	return seg, nil
}

func filterFromConfig(cfg config.Config) corpus.Filter {
	return corpus.Filter{
		MinChars:       cfg.Filter.MinChars,
		MinScriptRatio: cfg.Filter.MinScriptRatio,
		MinWords:       cfg.Filter.MinWords,
		MaxWords:       cfg.Filter.MaxWords,
	}
}

func processorOptions(cfg config.Config) corpus.Options {
	return corpus.Options{
		Filter:        filterFromConfig(cfg),
		Normalize:     cfg.Segment.Normalize,
		Workers:       cfg.Segment.Workers,
		BatchSize:     cfg.Segment.BatchSize,
		ProgressEvery: cfg.Segment.ProgressEvery,
		Logger:        slog.Default(),
	}
}

// openInput opens path for reading; "-" and "" mean stdin.
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// openOutput creates path for writing; "-" and "" mean stdout.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func newProcessor(seg corpus.WordSegmenter, cfg config.Config) *corpus.Processor {
	return corpus.NewProcessor(seg, processorOptions(cfg))
}
