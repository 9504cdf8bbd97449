// Package doctor provides environment preflight checks for malseg.
package doctor

import (
	"fmt"
	"io"
	"os"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// InputPath is the corpus to read; "" and "-" mean stdin and are skipped.
	InputPath string
	// RulesFile is an optional YAML rule file. Empty means built-in rules.
	RulesFile string
	// LoadRules parses a rule file and returns the number of rules in it.
	LoadRules func(path string) (int, error)
	// BuiltinRules is the size of the built-in rule set, reported when
	// RulesFile is empty.
	BuiltinRules int
	// Sentinel is the boundary marker to validate.
	Sentinel string
	// CheckSentinel rejects unusable sentinels.
	CheckSentinel func(sentinel string) error
	// TokenizerModel is the SentencePiece model used by preview.
	TokenizerModel string
	// SkipTokenizer skips the tokenizer check (preview not in use).
	SkipTokenizer bool
	// LoadTokenizer opens the tokenizer model at path.
	LoadTokenizer func(path string) error
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- input corpus -----------------------------------------------------
	if cfg.InputPath == "" || cfg.InputPath == "-" {
		fmt.Fprintf(w, "%s input: stdin\n", PassMark)
	} else if err := checkReadable(cfg.InputPath); err != nil {
		res.fail(fmt.Sprintf("input %q: %v", cfg.InputPath, err))
		fmt.Fprintf(w, "%s input %s: %v\n", FailMark, cfg.InputPath, err)
	} else {
		fmt.Fprintf(w, "%s input: %s\n", PassMark, cfg.InputPath)
	}

	// ---- suffix rules -----------------------------------------------------
	if cfg.RulesFile == "" {
		fmt.Fprintf(w, "%s rules: built-in (%d rules)\n", PassMark, cfg.BuiltinRules)
	} else if cfg.LoadRules == nil {
		fmt.Fprintf(w, "%s rules: %s (not validated)\n", PassMark, cfg.RulesFile)
	} else {
		n, err := cfg.LoadRules(cfg.RulesFile)
		if err != nil {
			res.fail(fmt.Sprintf("rules file %q: %v", cfg.RulesFile, err))
			fmt.Fprintf(w, "%s rules %s: %v\n", FailMark, cfg.RulesFile, err)
		} else {
			fmt.Fprintf(w, "%s rules: %s (%d rules)\n", PassMark, cfg.RulesFile, n)
		}
	}

	// ---- sentinel ---------------------------------------------------------
	if cfg.CheckSentinel != nil {
		if err := cfg.CheckSentinel(cfg.Sentinel); err != nil {
			res.fail(fmt.Sprintf("sentinel %q: %v", cfg.Sentinel, err))
			fmt.Fprintf(w, "%s sentinel %q: %v\n", FailMark, cfg.Sentinel, err)
		} else {
			fmt.Fprintf(w, "%s sentinel: %q\n", PassMark, cfg.Sentinel)
		}
	}

	// ---- tokenizer model --------------------------------------------------
	switch {
	case cfg.SkipTokenizer:
		fmt.Fprintf(w, "%s tokenizer model: skipped\n", PassMark)
	case cfg.LoadTokenizer == nil:
		if _, err := os.Stat(cfg.TokenizerModel); err != nil {
			res.fail(fmt.Sprintf("tokenizer model %q: %v", cfg.TokenizerModel, err))
			fmt.Fprintf(w, "%s tokenizer model %s: not found\n", FailMark, cfg.TokenizerModel)
		} else {
			fmt.Fprintf(w, "%s tokenizer model: %s\n", PassMark, cfg.TokenizerModel)
		}
	default:
		if err := cfg.LoadTokenizer(cfg.TokenizerModel); err != nil {
			res.fail(fmt.Sprintf("tokenizer model %q: %v", cfg.TokenizerModel, err))
			fmt.Fprintf(w, "%s tokenizer model %s: %v\n", FailMark, cfg.TokenizerModel, err)
		} else {
			fmt.Fprintf(w, "%s tokenizer model: %s\n", PassMark, cfg.TokenizerModel)
		}
	}

	return res
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
