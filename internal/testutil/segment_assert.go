package testutil

import (
	"strings"
	"testing"
)

// AssertReversible checks that segmented is original with zero or more
// sentinels inserted: removing every sentinel must give back the original
// text, byte for byte.
func AssertReversible(tb testing.TB, original, segmented, sentinel string) {
	tb.Helper()

	if sentinel == "" {
		tb.Fatal("AssertReversible: empty sentinel")
	}

	if restored := strings.ReplaceAll(segmented, sentinel, ""); restored != original {
		tb.Fatalf("segmentation not reversible:\n original: %q\nsegmented: %q\n restored: %q",
			original, segmented, restored)
	}
}

// AssertBoundaries checks that segmented holds exactly want sentinels.
func AssertBoundaries(tb testing.TB, segmented, sentinel string, want int) {
	tb.Helper()

	if got := strings.Count(segmented, sentinel); got != want {
		tb.Fatalf("boundary count in %q = %d, want %d", segmented, got, want)
	}
}
