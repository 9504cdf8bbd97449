package segment

// Analysis is the result of a morphological analysis of one word.
type Analysis struct {
	Word   string
	Parses []string
}

// Analyzer is an external morphological analyzer consulted for each
// segmentable word. Its result and error are discarded: an Analyzer can
// observe words but never change how they are segmented.
type Analyzer interface {
	Analyze(word string) (Analysis, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(word string) (Analysis, error)

// Analyze calls f(word).
func (f AnalyzerFunc) Analyze(word string) (Analysis, error) { return f(word) }

// NopAnalyzer always succeeds with an empty analysis.
type NopAnalyzer struct{}

// Analyze returns an Analysis with no parses.
func (NopAnalyzer) Analyze(word string) (Analysis, error) {
	return Analysis{Word: word}, nil
}
