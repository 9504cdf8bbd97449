package corpus

import (
	"sort"
	"time"
)

// Stats summarizes one pass over a corpus.
type Stats struct {
	TotalLines     int
	ProcessedLines int
	SkippedLines   int
	FailedLines    int
	Skipped        map[Reason]int

	TotalWords     int
	SegmentedWords int
	Morphemes      map[string]int

	Duration time.Duration
}

func newStats() Stats {
	return Stats{
		Skipped:   make(map[Reason]int),
		Morphemes: make(map[string]int),
	}
}

// SegmentationRate is the percentage of words that received a boundary.
func (s Stats) SegmentationRate() float64 {
	if s.TotalWords == 0 {
		return 0
	}
	return float64(s.SegmentedWords) / float64(s.TotalWords) * 100
}

// Retention is the percentage of input lines written to the output.
func (s Stats) Retention() float64 {
	if s.TotalLines == 0 {
		return 0
	}
	return float64(s.ProcessedLines) / float64(s.TotalLines) * 100
}

// LinesPerSecond is the input line throughput.
func (s Stats) LinesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalLines) / s.Duration.Seconds()
}

// UniqueMorphemes is the number of distinct suffixes split off.
func (s Stats) UniqueMorphemes() int { return len(s.Morphemes) }

// MorphemeCount pairs a suffix with its frequency.
type MorphemeCount struct {
	Suffix string `json:"suffix"`
	Count  int    `json:"count"`
}

// TopMorphemes returns up to n suffixes by descending count, ties broken
// by suffix so the order is stable. n <= 0 returns all of them.
func (s Stats) TopMorphemes(n int) []MorphemeCount {
	out := make([]MorphemeCount, 0, len(s.Morphemes))
	for suf, c := range s.Morphemes {
		out = append(out, MorphemeCount{Suffix: suf, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Suffix < out[j].Suffix
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
