// Package corpus drives segmentation over newline-delimited corpora: it
// filters lines, segments them, isolates per-line failures and collects
// statistics.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/malseg/internal/text"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 16 << 20

// WordSegmenter segments a single word. *segment.Segmenter satisfies it.
type WordSegmenter interface {
	SegmentWord(word string) string
	Sentinel() string
}

// Options configures a Processor.
type Options struct {
	Filter Filter
	// Normalize rewrites each line with text.NormalizeScript before
	// segmentation.
	Normalize bool
	// Workers is the number of lines segmented concurrently. Output order
	// always matches input order.
	Workers int
	// BatchSize is the number of lines read ahead per round.
	BatchSize int
	// ProgressEvery logs progress each time this many input lines have
	// been handled. Zero disables progress logs.
	ProgressEvery int
	Logger        *slog.Logger
}

// DefaultOptions returns sequential processing with the segmentation filter.
func DefaultOptions() Options {
	return Options{
		Filter:        SegmentFilter(),
		Workers:       1,
		BatchSize:     1024,
		ProgressEvery: 20000,
	}
}

// Processor segments corpora line by line.
type Processor struct {
	seg  WordSegmenter
	opts Options
}

// NewProcessor returns a Processor using seg. Non-positive Workers and
// BatchSize fall back to DefaultOptions values.
func NewProcessor(seg WordSegmenter, opts Options) *Processor {
	def := DefaultOptions()
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = def.BatchSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Processor{seg: seg, opts: opts}
}

type lineStatus uint8

const (
	lineKept lineStatus = iota
	lineSkipped
	lineFailed
)

type lineResult struct {
	status    lineStatus
	reason    Reason
	out       string
	words     int
	morphemes []string
	err       error
}

// Process reads lines from r and writes each accepted, segmented line to w.
// Lines failing the filter are dropped. A line whose segmentation panics is
// logged with its 1-based index, counted as failed and dropped; processing
// continues. Only read and write errors, or ctx cancellation between
// batches, stop the run.
func (p *Processor) Process(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	start := time.Now()
	stats := newStats()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	bw := bufio.NewWriterSize(w, 64*1024)

	batch := make([]string, 0, p.opts.BatchSize)
	results := make([]lineResult, p.opts.BatchSize)
	first := 1

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		p.segmentBatch(first, batch, results[:len(batch)])
		for i, res := range results[:len(batch)] {
			if err := p.record(&stats, first+i, res, bw); err != nil {
				return err
			}
		}
		first += len(batch)
		batch = batch[:0]
		return nil
	}

	for sc.Scan() {
		batch = append(batch, sc.Text())
		if len(batch) < p.opts.BatchSize {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := flush(); err != nil {
			return stats, err
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read corpus: %w", err)
	}
	if err := flush(); err != nil {
		return stats, err
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("write corpus: %w", err)
	}

	stats.Duration = time.Since(start)

	return stats, nil
}

func (p *Processor) segmentBatch(first int, lines []string, results []lineResult) {
	if p.opts.Workers == 1 {
		for i, line := range lines {
			results[i] = p.processLine(first+i, line)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			results[i] = p.processLine(first+i, line)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
}

func (p *Processor) record(stats *Stats, idx int, res lineResult, w *bufio.Writer) error {
	stats.TotalLines++

	switch res.status {
	case lineSkipped:
		stats.SkippedLines++
		stats.Skipped[res.reason]++
	case lineFailed:
		stats.FailedLines++
		p.opts.Logger.Warn("line failed", "line", idx, "error", res.err)
	case lineKept:
		stats.ProcessedLines++
		stats.TotalWords += res.words
		stats.SegmentedWords += len(res.morphemes)
		for _, m := range res.morphemes {
			stats.Morphemes[m]++
		}
		if _, err := w.WriteString(res.out); err != nil {
			return fmt.Errorf("write corpus: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("write corpus: %w", err)
		}
	}

	if n := p.opts.ProgressEvery; n > 0 && idx%n == 0 {
		p.opts.Logger.Info("progress",
			"lines", idx,
			"kept", stats.ProcessedLines,
			"seg_rate", fmt.Sprintf("%.1f%%", stats.SegmentationRate()),
		)
	}

	return nil
}

func (p *Processor) processLine(idx int, raw string) (res lineResult) {
	defer func() {
		if r := recover(); r != nil {
			res = lineResult{status: lineFailed, err: fmt.Errorf("line %d: panic: %v", idx, r)}
		}
	}()

	line := strings.TrimSpace(raw)
	if reason := p.opts.Filter.Check(line); reason != ReasonNone {
		return lineResult{status: lineSkipped, reason: reason}
	}
	if p.opts.Normalize {
		line = text.NormalizeScript(line)
	}

	sentinel := p.seg.Sentinel()

	var b strings.Builder
	b.Grow(len(line) + 4*len(sentinel))

	for _, run := range text.Tokenize(line) {
		if run.Kind != text.Word {
			b.WriteString(run.Text)
			continue
		}
		res.words++
		out := p.seg.SegmentWord(run.Text)
		if out != run.Text {
			if _, suffix, ok := strings.Cut(out, sentinel); ok {
				res.morphemes = append(res.morphemes, suffix)
			}
		}
		b.WriteString(out)
	}

	res.status = lineKept
	res.out = b.String()

	return res
}
