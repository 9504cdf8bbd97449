package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/malseg/internal/bench"
	"github.com/example/malseg/internal/config"
	"github.com/example/malseg/internal/corpus"
	"github.com/example/malseg/internal/segment"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		runs     int
		format   string
		minLines float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark corpus segmentation throughput",
		Long: "Segments the input corpus several times and reports lines per second. " +
			"The first run starts with an empty word cache, later runs reuse it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			format, err := config.NormalizeFormat(format)
			if err != nil {
				return err
			}

			in, err := openInput(cfg.Paths.Input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			data, err := io.ReadAll(in)
			_ = in.Close()
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			seg, err := newSegmenter(cfg)
			if err != nil {
				return err
			}

			opts := processorOptions(cfg)
			opts.ProgressEvery = 0

			results, err := runBench(cmd.Context(), seg, data, opts, runs)
			if err != nil {
				return err
			}

			durations := make([]time.Duration, len(results))
			for i, r := range results {
				durations[i] = r.Duration
			}
			stats := bench.ComputeStats(durations)

			switch format {
			case config.FormatJSON:
				bench.FormatJSON(results, stats, cmd.OutOrStdout())
			default:
				bench.FormatTable(results, stats, cmd.OutOrStdout())
			}

			return bench.CheckThroughputFloor(bench.MeanLinesPerSec(results), minLines)
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 5, "Number of passes over the corpus")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&minLines, "min-lines-per-sec", 0, "Exit non-zero if mean throughput is below this value (0 = disabled)")

	return cmd
}

// runBench segments data runs times into io.Discard. The cache is emptied
// before the first run only.
func runBench(ctx context.Context, seg *segment.Segmenter, data []byte, opts corpus.Options, runs int) ([]bench.RunResult, error) {
	proc := corpus.NewProcessor(seg, opts)
	results := make([]bench.RunResult, 0, runs)

	seg.ResetCache()

	for i := 0; i < runs; i++ {
		before := seg.CacheStats()

		st, err := proc.Process(ctx, bytes.NewReader(data), io.Discard)
		if err != nil {
			return nil, fmt.Errorf("run %d failed: %w", i+1, err)
		}

		after := seg.CacheStats()

		results = append(results, bench.RunResult{
			Index:       i,
			Cold:        i == 0,
			Duration:    st.Duration,
			Lines:       st.TotalLines,
			Words:       st.TotalWords,
			LinesPerSec: bench.CalcLinesPerSec(st.TotalLines, st.Duration),
			HitRatio:    hitRatio(before, after),
		})
	}

	return results, nil
}

func hitRatio(before, after segment.CacheStats) float64 {
	delta := segment.CacheStats{
		Hits:   after.Hits - before.Hits,
		Misses: after.Misses - before.Misses,
	}
	return delta.HitRatio()
}
