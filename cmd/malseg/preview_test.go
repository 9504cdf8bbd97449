package main

import (
	"strings"
	"testing"

	"github.com/example/malseg/internal/testutil"
)

func TestPreviewCmd_MissingModel(t *testing.T) {
	_, _, err := execute(t, "", "preview", "--tokenizer-model=/nonexistent/tokenizer.model")
	if err == nil {
		t.Fatal("expected error for missing tokenizer model")
	}
}

func TestPreviewCmd_RejectsZeroLines(t *testing.T) {
	if _, _, err := execute(t, "", "preview", "--lines=0"); err == nil {
		t.Fatal("expected error for --lines=0")
	}
}

func TestPreviewCmd_Integration(t *testing.T) {
	model := testutil.RequireTokenizerModel(t)
	line, want := sampleLine()

	out, _, err := execute(t, line+"\nshort\n"+line+"\n", "preview", "--tokenizer-model", model, "--lines=1")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	if !strings.Contains(out, want) {
		t.Errorf("preview should show the segmented line:\n%s", out)
	}

	if !strings.Contains(out, "total") {
		t.Errorf("preview should print totals:\n%s", out)
	}
}
