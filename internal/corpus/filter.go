package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/malseg/internal/script"
)

// Reason explains why a line was skipped.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonEmpty       Reason = "empty"
	ReasonTooShort    Reason = "too_short"
	ReasonLowScript   Reason = "low_script_ratio"
	ReasonTooFewWords Reason = "too_few_words"
	ReasonTooMany     Reason = "too_many_words"
)

// Filter decides which corpus lines are worth segmenting. Lengths are in
// code points, words are whitespace-separated fields. Zero MinWords or
// MaxWords disables that bound.
type Filter struct {
	MinChars       int
	MinScriptRatio float64
	MinWords       int
	MaxWords       int
}

// SegmentFilter is the filter applied before segmentation.
func SegmentFilter() Filter {
	return Filter{MinChars: 10, MinScriptRatio: 0.3}
}

// TrainingFilter is the stricter filter used to build a raw training corpus.
func TrainingFilter() Filter {
	return Filter{MinChars: 10, MinScriptRatio: 0.4, MinWords: 3, MaxWords: 100}
}

// Check returns ReasonNone if the trimmed line passes every bound.
func (f Filter) Check(line string) Reason {
	if line == "" {
		return ReasonEmpty
	}
	if utf8.RuneCountInString(line) < f.MinChars {
		return ReasonTooShort
	}
	if script.Ratio(line) < f.MinScriptRatio {
		return ReasonLowScript
	}
	if f.MinWords > 0 || f.MaxWords > 0 {
		n := len(strings.Fields(line))
		if f.MinWords > 0 && n < f.MinWords {
			return ReasonTooFewWords
		}
		if f.MaxWords > 0 && n > f.MaxWords {
			return ReasonTooMany
		}
	}
	return ReasonNone
}

// Copy writes the trimmed lines of r that pass f to w, one per line.
func (f Filter) Copy(r io.Reader, w io.Writer) (Stats, error) {
	start := time.Now()
	stats := newStats()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	bw := bufio.NewWriterSize(w, 64*1024)

	for sc.Scan() {
		stats.TotalLines++
		line := strings.TrimSpace(sc.Text())
		if reason := f.Check(line); reason != ReasonNone {
			stats.SkippedLines++
			stats.Skipped[reason]++
			continue
		}
		stats.ProcessedLines++
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return stats, fmt.Errorf("write corpus: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read corpus: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("write corpus: %w", err)
	}

	stats.Duration = time.Since(start)

	return stats, nil
}
