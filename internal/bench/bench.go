// Package bench provides benchmarking primitives for the malseg bench command.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing and throughput of a single pass over a corpus.
type RunResult struct {
	Index       int
	Cold        bool // true for the first run (empty word cache)
	Duration    time.Duration
	Lines       int
	Words       int
	LinesPerSec float64
	HitRatio    float64 // word cache hit ratio for this run
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// The slice must be non-empty.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// ---------------------------------------------------------------------------
// Throughput helpers
// ---------------------------------------------------------------------------

// CalcLinesPerSec returns lines / elapsed seconds.
// Returns 0 if elapsed is zero to avoid division by zero.
func CalcLinesPerSec(lines int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(lines) / elapsed.Seconds()
}

// MeanLinesPerSec averages LinesPerSec over runs.
func MeanLinesPerSec(runs []RunResult) float64 {
	if len(runs) == 0 {
		return 0
	}
	var total float64
	for _, r := range runs {
		total += r.LinesPerSec
	}
	return total / float64(len(runs))
}

// ---------------------------------------------------------------------------
// Throughput floor gate
// ---------------------------------------------------------------------------

// CheckThroughputFloor returns an error if meanLPS < floor.
// A floor of 0 disables the gate.
func CheckThroughputFloor(meanLPS, floor float64) error {
	if floor <= 0 {
		return nil
	}
	if meanLPS < floor {
		return fmt.Errorf("mean throughput %.1f lines/s is below floor %.1f", meanLPS, floor)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %8s  %12s  %8s\n", "Run", "Cold", "MS", "Lines", "Lines/s", "Hit%")
	fmt.Fprintln(sb, strings.Repeat("-", 56))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10.1f  %8d  %12.1f  %8.1f\n",
			r.Index+1,
			cold,
			float64(r.Duration.Milliseconds()),
			r.Lines,
			r.LinesPerSec,
			r.HitRatio*100,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 56))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  (min)\n", "", "", float64(stats.Min.Milliseconds()))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  (mean)\n", "", "", float64(stats.Mean.Milliseconds()))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  (max)\n", "", "", float64(stats.Max.Milliseconds()))

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index       int     `json:"index"`
	Cold        bool    `json:"cold"`
	DurationMS  float64 `json:"duration_ms"`
	Lines       int     `json:"lines"`
	Words       int     `json:"words"`
	LinesPerSec float64 `json:"lines_per_sec"`
	HitRatio    float64 `json:"cache_hit_ratio"`
}

type jsonStats struct {
	MinMS  float64 `json:"min_ms"`
	MeanMS float64 `json:"mean_ms"`
	MaxMS  float64 `json:"max_ms"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:  float64(stats.Min.Milliseconds()),
			MeanMS: float64(stats.Mean.Milliseconds()),
			MaxMS:  float64(stats.Max.Milliseconds()),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:       r.Index,
			Cold:        r.Cold,
			DurationMS:  float64(r.Duration.Milliseconds()),
			Lines:       r.Lines,
			Words:       r.Words,
			LinesPerSec: r.LinesPerSec,
			HitRatio:    r.HitRatio,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}
