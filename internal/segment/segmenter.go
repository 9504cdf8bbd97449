// Package segment inserts a single morpheme-boundary sentinel into
// Malayalam words using an ordered cascade of suffix rules.
package segment

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/example/malseg/internal/script"
	"github.com/example/malseg/internal/text"
)

// DefaultSentinel is the boundary marker written between stem and suffix.
const DefaultSentinel = "_SEP_"

// ErrInvalidSentinel is returned for a sentinel that is too short or not ASCII.
var ErrInvalidSentinel = errors.New("invalid sentinel")

// ValidateSentinel checks that s is at least two ASCII bytes.
func ValidateSentinel(s string) error {
	if len(s) < 2 {
		return fmt.Errorf("%w: %q is shorter than 2 bytes", ErrInvalidSentinel, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return fmt.Errorf("%w: %q is not ASCII", ErrInvalidSentinel, s)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	rules     RuleSet
	sentinel  string
	cacheSize int
	analyzer  Analyzer
	logger    *slog.Logger
}

func defaultOptions() options {
	return options{
		rules:     DefaultRules(),
		sentinel:  DefaultSentinel,
		cacheSize: DefaultCacheSize,
		analyzer:  NopAnalyzer{},
		logger:    slog.Default(),
	}
}

// Option configures a Segmenter.
type Option func(*options)

// WithRules replaces the built-in rule set.
func WithRules(rs RuleSet) Option {
	return func(o *options) { o.rules = rs }
}

// WithSentinel sets the boundary marker.
func WithSentinel(s string) Option {
	return func(o *options) { o.sentinel = s }
}

// WithCacheSize sets the memoization capacity in words.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithAnalyzer installs a morphological analyzer hook. A nil analyzer
// restores NopAnalyzer.
func WithAnalyzer(a Analyzer) Option {
	return func(o *options) {
		if a == nil {
			a = NopAnalyzer{}
		}
		o.analyzer = a
	}
}

// WithLogger sets the logger used for analyzer diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// Segmenter
// ---------------------------------------------------------------------------

// Segmenter owns an immutable rule set and its word cache. It is safe for
// concurrent use.
type Segmenter struct {
	rules    RuleSet
	sentinel string
	analyzer Analyzer
	logger   *slog.Logger
	cache    *Cache
}

// New builds a Segmenter. Each Segmenter has its own cache.
func New(opts ...Option) (*Segmenter, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := ValidateSentinel(o.sentinel); err != nil {
		return nil, err
	}
	if err := o.rules.validate(o.sentinel); err != nil {
		return nil, err
	}

	cache, err := NewCache(o.cacheSize)
	if err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Segmenter{
		rules:    o.rules,
		sentinel: o.sentinel,
		analyzer: o.analyzer,
		logger:   logger,
		cache:    cache,
	}, nil
}

// Sentinel returns the boundary marker.
func (s *Segmenter) Sentinel() string { return s.sentinel }

// Rules returns the rule set in priority order.
func (s *Segmenter) Rules() RuleSet { return s.rules }

// CacheStats returns a snapshot of the word cache counters.
func (s *Segmenter) CacheStats() CacheStats { return s.cache.Stats() }

// ResetCache empties the word cache.
func (s *Segmenter) ResetCache() { s.cache.Purge() }

// SegmentWord returns word with the sentinel inserted between stem and
// suffix for the first matching rule, or word unchanged. Words of two or
// fewer code points and words without Malayalam code points are never
// segmented, and neither are words that already contain the sentinel.
// Results are memoized.
func (s *Segmenter) SegmentWord(word string) string {
	if out, ok := s.cache.Get(word); ok {
		return out
	}

	out := s.segment(word)
	s.cache.Add(word, out)

	return out
}

func (s *Segmenter) segment(word string) string {
	if utf8.RuneCountInString(word) <= 2 || !script.ContainsMalayalam(word) {
		return word
	}
	// Already segmented, e.g. a line fed back through the pipeline.
	if strings.Contains(word, s.sentinel) {
		return word
	}

	s.consult(word)

	_, stem, suffix, ok := s.rules.Match(word)
	if !ok {
		return word
	}

	out := stem + s.sentinel + suffix
	if strings.Count(out, s.sentinel) != 1 {
		// The stem or suffix edge overlaps the sentinel text.
		return word
	}

	return out
}

// consult calls the analyzer and discards the outcome, including panics.
func (s *Segmenter) consult(word string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("analyzer panicked", "word", word, "panic", r)
		}
	}()

	if _, err := s.analyzer.Analyze(word); err != nil {
		s.logger.Debug("analyzer failed", "word", word, "error", err)
	}
}

// SegmentText tokenizes t, segments every word run and copies separator
// runs unchanged. The result is never shorter than t.
func (s *Segmenter) SegmentText(t string) string {
	runs := text.Tokenize(t)

	var b strings.Builder
	b.Grow(len(t) + len(s.sentinel)*4)

	for _, r := range runs {
		if r.Kind == text.Word {
			b.WriteString(s.SegmentWord(r.Text))
			continue
		}
		b.WriteString(r.Text)
	}

	return b.String()
}

// SplitSegmented separates a SegmentWord result back into stem and suffix.
// ok is false when out carries no sentinel.
func SplitSegmented(out, sentinel string) (stem, suffix string, ok bool) {
	return strings.Cut(out, sentinel)
}
