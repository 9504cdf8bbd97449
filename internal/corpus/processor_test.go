package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/malseg/internal/segment"
)

func newSegmenter(t *testing.T) *segment.Segmenter {
	t.Helper()

	s, err := segment.New()
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}

	return s
}

// panicky panics on one trigger word and delegates everything else.
type panicky struct {
	*segment.Segmenter
	trigger string
}

func (p panicky) SegmentWord(w string) string {
	if w == p.trigger {
		panic("pathological word")
	}
	return p.Segmenter.SegmentWord(w)
}

func sampleCorpus() (in, want string) {
	line1 := kuttikal + " " + keralathil + ", " + vannappol + "."
	out1 := kutti + segment.DefaultSentinel + pluralKal + " " +
		keralath + segment.DefaultSentinel + locativeIl + ", " + vannappol + "."
	line2 := "75000 " + vannappol + " " + vannappol
	in = strings.Join([]string{line1, "", "short", "  " + line2 + "  "}, "\n")
	want = out1 + "\n" + line2 + "\n"
	return in, want
}

func TestProcess(t *testing.T) {
	in, want := sampleCorpus()

	var out bytes.Buffer
	p := NewProcessor(newSegmenter(t), DefaultOptions())
	stats, err := p.Process(context.Background(), strings.NewReader(in), &out)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if out.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", out.String(), want)
	}

	if stats.TotalLines != 4 || stats.ProcessedLines != 2 || stats.SkippedLines != 2 || stats.FailedLines != 0 {
		t.Errorf("line stats = %+v", stats)
	}
	if stats.TotalWords != 6 || stats.SegmentedWords != 2 {
		t.Errorf("words = %d, segmented = %d; want 6, 2", stats.TotalWords, stats.SegmentedWords)
	}
	if stats.Morphemes[pluralKal] != 1 || stats.Morphemes[locativeIl] != 1 || stats.UniqueMorphemes() != 2 {
		t.Errorf("morphemes = %v", stats.Morphemes)
	}
	if stats.Skipped[ReasonEmpty] != 1 || stats.Skipped[ReasonTooShort] != 1 {
		t.Errorf("skip reasons = %v", stats.Skipped)
	}
}

func TestProcess_ParallelMatchesSequential(t *testing.T) {
	var lines []string
	for i := 0; i < 500; i++ {
		switch i % 3 {
		case 0:
			lines = append(lines, fmt.Sprintf("%d %s %s", i, kuttikal, keralathil))
		case 1:
			lines = append(lines, vannappol+" "+vannappol+" "+kuttikal)
		default:
			lines = append(lines, "x")
		}
	}
	in := strings.Join(lines, "\n")

	run := func(workers, batch int) (string, Stats) {
		var out bytes.Buffer
		opts := DefaultOptions()
		opts.Workers = workers
		opts.BatchSize = batch
		stats, err := NewProcessor(newSegmenter(t), opts).Process(context.Background(), strings.NewReader(in), &out)
		if err != nil {
			t.Fatalf("Process(workers=%d): %v", workers, err)
		}
		return out.String(), stats
	}

	seqOut, seqStats := run(1, 1024)
	parOut, parStats := run(8, 37)

	if seqOut != parOut {
		t.Error("parallel output differs from sequential output")
	}
	if seqStats.ProcessedLines != parStats.ProcessedLines ||
		seqStats.TotalWords != parStats.TotalWords ||
		seqStats.SegmentedWords != parStats.SegmentedWords {
		t.Errorf("stats differ: seq %+v par %+v", seqStats, parStats)
	}
}

func TestProcess_PanicIsolatedToLine(t *testing.T) {
	var logs bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewJSONHandler(&logs, nil))

	seg := panicky{Segmenter: newSegmenter(t), trigger: keralathil}
	in := strings.Join([]string{
		kuttikal + " " + kuttikal,
		kuttikal + " " + keralathil,
		vannappol + " " + vannappol,
	}, "\n")

	var out bytes.Buffer
	stats, err := NewProcessor(seg, opts).Process(context.Background(), strings.NewReader(in), &out)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if stats.FailedLines != 1 || stats.ProcessedLines != 2 {
		t.Errorf("stats = %+v, want 1 failed, 2 processed", stats)
	}
	if got := strings.Count(out.String(), "\n"); got != 2 {
		t.Errorf("wrote %d lines, want 2", got)
	}
	if !strings.Contains(logs.String(), `"line":2`) || !strings.Contains(logs.String(), "pathological word") {
		t.Errorf("expected warning naming line 2, got %s", logs.String())
	}
}

func TestProcess_Normalize(t *testing.T) {
	legacy := keralath + legacyIl
	line := legacy + " " + legacy

	run := func(normalize bool) string {
		opts := DefaultOptions()
		opts.Normalize = normalize
		var out bytes.Buffer
		if _, err := NewProcessor(newSegmenter(t), opts).Process(context.Background(), strings.NewReader(line), &out); err != nil {
			t.Fatalf("Process: %v", err)
		}
		return out.String()
	}

	seg := keralath + segment.DefaultSentinel + locativeIl
	if got, want := run(true), seg+" "+seg+"\n"; got != want {
		t.Errorf("normalized output = %q, want %q", got, want)
	}

	// Without normalization the ZWJ is a separator, so the legacy rule
	// cannot see it and the word ends in a bare virama.
	if got := run(false); strings.Contains(got, segment.DefaultSentinel) {
		t.Errorf("unnormalized output unexpectedly segmented: %q", got)
	}
}

func TestProcess_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := DefaultOptions()
	opts.BatchSize = 1

	in, _ := sampleCorpus()
	_, err := NewProcessor(newSegmenter(t), opts).Process(ctx, strings.NewReader(in), &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestProcess_WriteError(t *testing.T) {
	in, _ := sampleCorpus()
	_, err := NewProcessor(newSegmenter(t), DefaultOptions()).Process(context.Background(), strings.NewReader(in), failingWriter{})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error = %v, want disk full", err)
	}
}

func TestProcess_ProgressLogged(t *testing.T) {
	var logs bytes.Buffer
	opts := DefaultOptions()
	opts.ProgressEvery = 2
	opts.Logger = slog.New(slog.NewJSONHandler(&logs, nil))

	in, _ := sampleCorpus()
	if _, err := NewProcessor(newSegmenter(t), opts).Process(context.Background(), strings.NewReader(in), &bytes.Buffer{}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got := strings.Count(logs.String(), `"msg":"progress"`); got != 2 {
		t.Errorf("progress logs = %d, want 2:\n%s", got, logs.String())
	}
}
