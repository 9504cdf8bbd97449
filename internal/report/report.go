// Package report renders corpus statistics, rule listings and tokenizer
// previews as human-readable tables or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/example/malseg/internal/corpus"
	"github.com/example/malseg/internal/segment"
	"github.com/example/malseg/internal/tokenizer"
)

// DefaultTopN is the number of suffixes listed in corpus reports.
const DefaultTopN = 20

// ---------------------------------------------------------------------------
// Corpus statistics
// ---------------------------------------------------------------------------

// FormatCorpusTable writes a summary of st followed by the topN most
// frequent suffixes.
func FormatCorpusTable(st corpus.Stats, cache segment.CacheStats, topN int, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-20s %d\n", "lines", st.TotalLines)
	fmt.Fprintf(sb, "%-20s %d (%.1f%%)\n", "processed", st.ProcessedLines, st.Retention())
	fmt.Fprintf(sb, "%-20s %d\n", "skipped", st.SkippedLines)
	for _, r := range sortedReasons(st.Skipped) {
		fmt.Fprintf(sb, "  %-18s %d\n", r, st.Skipped[r])
	}
	fmt.Fprintf(sb, "%-20s %d\n", "failed", st.FailedLines)
	fmt.Fprintf(sb, "%-20s %d\n", "words", st.TotalWords)
	fmt.Fprintf(sb, "%-20s %d (%.1f%%)\n", "segmented words", st.SegmentedWords, st.SegmentationRate())
	fmt.Fprintf(sb, "%-20s %d\n", "unique suffixes", st.UniqueMorphemes())
	fmt.Fprintf(sb, "%-20s %.1f%% of %d lookups\n", "cache hit ratio", cache.HitRatio()*100, cache.Hits+cache.Misses)
	fmt.Fprintf(sb, "%-20s %s (%.0f lines/s)\n", "elapsed", st.Duration.Round(1e6), st.LinesPerSecond())

	top := st.TopMorphemes(topN)
	if len(top) > 0 {
		fmt.Fprintln(sb)
		fmt.Fprintf(sb, "%-4s  %-16s  %10s\n", "#", "Suffix", "Count")
		fmt.Fprintln(sb, strings.Repeat("-", 34))
		for i, m := range top {
			fmt.Fprintf(sb, "%-4d  %-16s  %10d\n", i+1, m.Suffix, m.Count)
		}
	}

	fmt.Fprint(w, sb.String())
}

type corpusJSON struct {
	TotalLines       int                    `json:"total_lines"`
	ProcessedLines   int                    `json:"processed_lines"`
	SkippedLines     int                    `json:"skipped_lines"`
	FailedLines      int                    `json:"failed_lines"`
	Skipped          map[string]int         `json:"skipped"`
	TotalWords       int                    `json:"total_words"`
	SegmentedWords   int                    `json:"segmented_words"`
	SegmentationRate float64                `json:"segmentation_rate"`
	UniqueMorphemes  int                    `json:"unique_morphemes"`
	TopMorphemes     []corpus.MorphemeCount `json:"top_morphemes"`
	Cache            cacheJSON              `json:"cache"`
	DurationMS       float64                `json:"duration_ms"`
	LinesPerSec      float64                `json:"lines_per_sec"`
}

type cacheJSON struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	Len       int     `json:"len"`
	Capacity  int     `json:"capacity"`
	HitRatio  float64 `json:"hit_ratio"`
}

// FormatCorpusJSON writes st as an indented JSON document.
func FormatCorpusJSON(st corpus.Stats, cache segment.CacheStats, topN int, w io.Writer) error {
	skipped := make(map[string]int, len(st.Skipped))
	for r, n := range st.Skipped {
		skipped[string(r)] = n
	}

	doc := corpusJSON{
		TotalLines:       st.TotalLines,
		ProcessedLines:   st.ProcessedLines,
		SkippedLines:     st.SkippedLines,
		FailedLines:      st.FailedLines,
		Skipped:          skipped,
		TotalWords:       st.TotalWords,
		SegmentedWords:   st.SegmentedWords,
		SegmentationRate: st.SegmentationRate(),
		UniqueMorphemes:  st.UniqueMorphemes(),
		TopMorphemes:     st.TopMorphemes(topN),
		Cache: cacheJSON{
			Hits:      cache.Hits,
			Misses:    cache.Misses,
			Evictions: cache.Evictions,
			Len:       cache.Len,
			Capacity:  cache.Capacity,
			HitRatio:  cache.HitRatio(),
		},
		DurationMS:  float64(st.Duration.Microseconds()) / 1000,
		LinesPerSec: st.LinesPerSecond(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode corpus report: %w", err)
	}
	return nil
}

func sortedReasons(m map[corpus.Reason]int) []corpus.Reason {
	out := make([]corpus.Reason, 0, len(m))
	for r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ---------------------------------------------------------------------------
// Rules
// ---------------------------------------------------------------------------

// FormatRulesTable lists rules in priority order.
func FormatRulesTable(rules []segment.Rule, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-4s  %-10s  %-8s  %s\n", "#", "Group", "MinStem", "Suffix")
	fmt.Fprintln(sb, strings.Repeat("-", 40))
	for i, r := range rules {
		fmt.Fprintf(sb, "%-4d  %-10s  %-8d  %s\n", i+1, r.Group, r.MinStem, r.Suffix)
	}

	fmt.Fprint(w, sb.String())
}

// ---------------------------------------------------------------------------
// Tokenizer preview
// ---------------------------------------------------------------------------

// PreviewTotals sums a set of comparisons.
type PreviewTotals struct {
	Lines     int `json:"lines"`
	RawTokens int `json:"raw_tokens"`
	SegTokens int `json:"segmented_tokens"`
}

// Ratio is segmented tokens per raw token.
func (p PreviewTotals) Ratio() float64 {
	if p.RawTokens == 0 {
		return 0
	}
	return float64(p.SegTokens) / float64(p.RawTokens)
}

// SumPreview totals comparisons.
func SumPreview(cs []tokenizer.Comparison) PreviewTotals {
	t := PreviewTotals{Lines: len(cs)}
	for _, c := range cs {
		t.RawTokens += c.RawTokens
		t.SegTokens += c.SegTokens
	}
	return t
}

// FormatPreviewTable writes one row per comparison and a totals line.
func FormatPreviewTable(cs []tokenizer.Comparison, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %8s  %8s  %6s  %s\n", "Line", "Raw", "Seg", "Delta", "Segmented")
	fmt.Fprintln(sb, strings.Repeat("-", 48))
	for i, c := range cs {
		fmt.Fprintf(sb, "%-5d  %8d  %8d  %+6d  %s\n", i+1, c.RawTokens, c.SegTokens, c.Delta(), c.Segmented)
	}

	t := SumPreview(cs)
	fmt.Fprintln(sb, strings.Repeat("-", 48))
	fmt.Fprintf(sb, "%-5s  %8d  %8d  %+6d  (x%.2f)\n", "total", t.RawTokens, t.SegTokens, t.SegTokens-t.RawTokens, t.Ratio())

	fmt.Fprint(w, sb.String())
}

type previewJSON struct {
	Lines  []tokenizer.Comparison `json:"lines"`
	Totals PreviewTotals          `json:"totals"`
	Ratio  float64                `json:"ratio"`
}

// FormatPreviewJSON writes comparisons and totals as JSON.
func FormatPreviewJSON(cs []tokenizer.Comparison, w io.Writer) error {
	t := SumPreview(cs)
	if cs == nil {
		cs = []tokenizer.Comparison{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(previewJSON{Lines: cs, Totals: t, Ratio: t.Ratio()}); err != nil {
		return fmt.Errorf("encode preview report: %w", err)
	}
	return nil
}
