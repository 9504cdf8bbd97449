package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/example/malseg/internal/corpus"
	"github.com/example/malseg/internal/segment"
)

func benchCorpus(n int) []byte {
	line, _ := sampleLine()
	return []byte(strings.Repeat(line+"\n", n))
}

func newBenchSegmenter(t *testing.T) *segment.Segmenter {
	t.Helper()

	seg, err := segment.New()
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}

	return seg
}

func TestRunBench_SingleRun(t *testing.T) {
	results, err := runBench(context.Background(), newBenchSegmenter(t), benchCorpus(10), corpus.DefaultOptions(), 1)
	if err != nil {
		t.Fatalf("runBench: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("want 1 result, got %d", len(results))
	}

	r := results[0]
	if !r.Cold {
		t.Error("first run should be marked cold")
	}

	if r.Lines != 10 || r.Words != 30 {
		t.Errorf("lines=%d words=%d; want 10 and 30", r.Lines, r.Words)
	}
}

func TestRunBench_WarmRunsHitCache(t *testing.T) {
	seg := newBenchSegmenter(t)
	// Pre-warm so the cold run proves ResetCache was applied.
	seg.SegmentWord(kuttikal)

	results, err := runBench(context.Background(), seg, benchCorpus(5), corpus.DefaultOptions(), 3)
	if err != nil {
		t.Fatalf("runBench: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d", len(results))
	}

	// 5 lines x 3 words, 3 distinct: the cold run misses 3 of 15 lookups.
	if got, want := results[0].HitRatio, 12.0/15.0; got != want {
		t.Errorf("cold hit ratio = %v; want %v", got, want)
	}

	for i, r := range results[1:] {
		if r.Cold {
			t.Errorf("run %d should not be cold", i+1)
		}

		if r.HitRatio != 1 {
			t.Errorf("warm run %d hit ratio = %v; want 1", i+1, r.HitRatio)
		}
	}
}

func TestRunBench_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := corpus.DefaultOptions()
	opts.BatchSize = 1

	_, err := runBench(ctx, newBenchSegmenter(t), benchCorpus(3), opts, 2)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestBenchCmd_JSON(t *testing.T) {
	line, _ := sampleLine()

	out, _, err := execute(t, strings.Repeat(line+"\n", 4), "bench", "--runs=2", "--format=json")
	if err != nil {
		t.Fatalf("bench: %v", err)
	}

	var rep struct {
		Runs []struct {
			Cold  bool `json:"cold"`
			Lines int  `json:"lines"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	if len(rep.Runs) != 2 || !rep.Runs[0].Cold || rep.Runs[1].Cold || rep.Runs[0].Lines != 4 {
		t.Errorf("unexpected runs: %+v", rep.Runs)
	}
}

func TestBenchCmd_ThroughputFloor(t *testing.T) {
	line, _ := sampleLine()

	_, _, err := execute(t, line+"\n", "bench", "--runs=1", "--min-lines-per-sec=1e15")
	if err == nil {
		t.Fatal("expected error when throughput is below the floor")
	}
}

func TestBenchCmd_RejectsZeroRuns(t *testing.T) {
	if _, _, err := execute(t, "", "bench", "--runs=0"); err == nil {
		t.Fatal("expected error for --runs=0")
	}
}
