// Package testutil provides shared fixtures and skip helpers for tests.
//
// Skip helpers call t.Skip with a clear human-readable reason when the named
// prerequisite is absent, so integration tests remain runnable in partial
// environments without failing noisily.
//
// Typical usage:
//
//	func TestPreviewIntegration(t *testing.T) {
//	    model := testutil.RequireTokenizerModel(t)
//	    corpus := testutil.WriteCorpus(t, line1, line2)
//	    ...
//	}
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TokenizerModelEnv overrides the tokenizer model search.
const TokenizerModelEnv = "MALSEG_TOKENIZER_MODEL"

// RequireTokenizerModel returns the path of a SentencePiece model, skipping
// the test when none is available. TokenizerModelEnv is checked first, then
// models/tokenizer.model in the working directory and each of its parents.
func RequireTokenizerModel(tb testing.TB) string {
	tb.Helper()

	if p := os.Getenv(TokenizerModelEnv); p != "" {
		if _, err := os.Stat(p); err != nil {
			tb.Skipf("tokenizer model not found at %s=%q", TokenizerModelEnv, p)
			return ""
		}
		return p
	}

	dir, err := filepath.Abs(".")
	if err != nil {
		tb.Skipf("cannot resolve working directory: %v", err)
		return ""
	}

	for {
		candidate := filepath.Join(dir, "models", "tokenizer.model")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	tb.Skipf("models/tokenizer.model not found; set %s to override", TokenizerModelEnv)

	return ""
}

// WriteCorpus writes lines, newline-terminated, to a file in a fresh temp
// directory and returns its path.
func WriteCorpus(tb testing.TB, lines ...string) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "corpus.txt")

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		tb.Fatalf("write corpus: %v", err)
	}

	return path
}
