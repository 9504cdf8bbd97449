package segment

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	kuttikal     = "\u0D15\u0D41\u0D1F\u0D4D\u0D1F\u0D3F\u0D15\u0D7E" // കുട്ടികൾ
	kutti        = "\u0D15\u0D41\u0D1F\u0D4D\u0D1F\u0D3F"
	pluralKal    = "\u0D15\u0D7E"
	keralathil   = "\u0D15\u0D47\u0D30\u0D33\u0D24\u0D4D\u0D24\u0D3F\u0D7D" // കേരളത്തിൽ
	keralath     = "\u0D15\u0D47\u0D30\u0D33\u0D24\u0D4D\u0D24"
	locativeIl   = "\u0D3F\u0D7D"
	paalayil     = "\u0D2A\u0D3E\u0D32\u0D2F\u0D3F\u0D7D" // പാലയിൽ
	paalay       = "\u0D2A\u0D3E\u0D32\u0D2F"
	paala        = "\u0D2A\u0D3E\u0D32"
	locativeYil  = "\u0D2F\u0D3F\u0D7D"
	varunnu      = "\u0D35\u0D30\u0D41\u0D28\u0D4D\u0D28\u0D41" // വരുന്നു
	varu         = "\u0D35\u0D30\u0D41"
	nnu          = "\u0D28\u0D4D\u0D28\u0D41"
	vannappol    = "\u0D35\u0D28\u0D4D\u0D28\u0D2A\u0D4D\u0D2A\u0D4B\u0D7E" // വന്നപ്പോൾ
	avarodu      = "\u0D05\u0D35\u0D30\u0D4B\u0D1F\u0D4D" // അവരോട്
	googleLegacy = "\u0D17\u0D42\u0D17\u0D3F\u0D33\u0D3F\u0D32\u0D4D\u200D" // ഗൂഗിളില് + ZWJ
	googleStem   = "\u0D17\u0D42\u0D17\u0D3F\u0D33"
	legacyIl     = "\u0D3F\u0D32\u0D4D\u200D"
	aakal        = "\u0D06\u0D15\u0D7E" // ആകൾ
)

func newTestSegmenter(t *testing.T, opts ...Option) *Segmenter {
	t.Helper()

	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return s
}

func TestSegmentWord(t *testing.T) {
	s := newTestSegmenter(t)

	tests := []struct {
		name string
		word string
		want string
	}{
		{
			name: "plural suffix",
			word: kuttikal,
			want: kutti + DefaultSentinel + pluralKal,
		},
		{
			name: "locative suffix",
			word: keralathil,
			want: keralath + DefaultSentinel + locativeIl,
		},
		{
			name: "earlier rule wins over longer later suffix",
			word: paalayil,
			want: paalay + DefaultSentinel + locativeIl,
		},
		{
			name: "stem too short for first candidate falls through",
			word: varunnu,
			want: varu + DefaultSentinel + nnu,
		},
		{
			name: "legacy chillu rule",
			word: googleLegacy,
			want: googleStem + DefaultSentinel + legacyIl,
		},
		{
			name: "no rule matches",
			word: vannappol,
			want: vannappol,
		},
		{
			name: "no rule matches verb form",
			word: avarodu,
			want: avarodu,
		},
		{
			name: "suffix present but stem too short",
			word: aakal,
			want: aakal,
		},
		{
			name: "two code points",
			word: pluralKal,
			want: pluralKal,
		},
		{
			name: "empty",
			word: "",
			want: "",
		},
		{
			name: "digits",
			word: "75000",
			want: "75000",
		},
		{
			name: "latin word",
			word: "google",
			want: "google",
		},
		{
			name: "already segmented",
			word: kutti + DefaultSentinel + pluralKal,
			want: kutti + DefaultSentinel + pluralKal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.SegmentWord(tt.word); got != tt.want {
				t.Errorf("SegmentWord(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestSegmentText(t *testing.T) {
	s := newTestSegmenter(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "word then punctuation",
			in:   kuttikal + ".",
			want: kutti + DefaultSentinel + pluralKal + ".",
		},
		{
			name: "numbers untouched",
			in:   "75000 " + kuttikal,
			want: "75000 " + kutti + DefaultSentinel + pluralKal,
		},
		{
			name: "separators only",
			in:   " ,.! ",
			want: " ,.! ",
		},
		{
			name: "whitespace preserved verbatim",
			in:   "\t" + keralathil + "  " + vannappol + "?\n",
			want: "\t" + keralath + DefaultSentinel + locativeIl + "  " + vannappol + "?\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.SegmentText(tt.in); got != tt.want {
				t.Errorf("SegmentText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSegmentWord_CustomSentinel(t *testing.T) {
	s := newTestSegmenter(t, WithSentinel("@@"))

	if got, want := s.SegmentWord(kuttikal), kutti+"@@"+pluralKal; got != want {
		t.Errorf("SegmentWord = %q, want %q", got, want)
	}

	if s.Sentinel() != "@@" {
		t.Errorf("Sentinel() = %q", s.Sentinel())
	}
}

func TestSegmentWord_CustomRules(t *testing.T) {
	rs, err := NewRuleSet([]Rule{
		{Suffix: locativeIl, MinStem: 10},
		{Suffix: locativeYil, MinStem: 3},
	})
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}

	s := newTestSegmenter(t, WithRules(rs))

	// First rule rejects the stem length, second applies.
	if got, want := s.SegmentWord(paalayil), paala+DefaultSentinel+locativeYil; got != want {
		t.Errorf("SegmentWord = %q, want %q", got, want)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"empty sentinel", []Option{WithSentinel("")}, ErrInvalidSentinel},
		{"one byte sentinel", []Option{WithSentinel("|")}, ErrInvalidSentinel},
		{"non ascii sentinel", []Option{WithSentinel(pluralKal)}, ErrInvalidSentinel},
		{"empty rule set", []Option{WithRules(RuleSet{})}, ErrEmptyRuleSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := New(WithCacheSize(0)); err == nil {
		t.Error("expected error for zero cache size")
	}
}

func TestNew_SentinelCollidesWithRule(t *testing.T) {
	rs, err := NewRuleSet([]Rule{{Suffix: "xxSEPxx", MinStem: 1}})
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}

	_, err = New(WithRules(rs), WithSentinel("SEP"))
	if !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("New error = %v, want ErrInvalidRule", err)
	}
}

// ---------------------------------------------------------------------------
// Analyzer hook
// ---------------------------------------------------------------------------

func TestSegmentWord_AnalyzerNeverChangesOutput(t *testing.T) {
	analyzers := map[string]Analyzer{
		"nop": NopAnalyzer{},
		"failing": AnalyzerFunc(func(string) (Analysis, error) {
			return Analysis{}, errors.New("analyzer down")
		}),
		"panicking": AnalyzerFunc(func(string) (Analysis, error) {
			panic("boom")
		}),
		"nil": nil,
	}

	words := []string{kuttikal, keralathil, varunnu, vannappol, "75000", "ab"}

	ref := newTestSegmenter(t)
	for name, a := range analyzers {
		t.Run(name, func(t *testing.T) {
			s := newTestSegmenter(t, WithAnalyzer(a))
			for _, w := range words {
				if got, want := s.SegmentWord(w), ref.SegmentWord(w); got != want {
					t.Errorf("SegmentWord(%q) = %q, want %q", w, got, want)
				}
			}
		})
	}
}

func TestSegmentWord_AnalyzerConsultedOncePerSegmentableWord(t *testing.T) {
	var calls []string
	a := AnalyzerFunc(func(w string) (Analysis, error) {
		calls = append(calls, w)
		return Analysis{Word: w}, nil
	})

	s := newTestSegmenter(t, WithAnalyzer(a))
	for n := 0; n < 3; n++ {
		s.SegmentWord(kuttikal)
		s.SegmentWord("75000")
		s.SegmentWord(pluralKal)
	}

	if len(calls) != 1 || calls[0] != kuttikal {
		t.Errorf("analyzer calls = %q, want exactly [%q]", calls, kuttikal)
	}
}

func TestSegmentWord_AnalyzerFailureLoggedAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := newTestSegmenter(t,
		WithLogger(logger),
		WithAnalyzer(AnalyzerFunc(func(string) (Analysis, error) {
			return Analysis{}, errors.New("analyzer down")
		})),
	)
	s.SegmentWord(kuttikal)

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "analyzer down") {
		t.Errorf("expected debug log for analyzer failure, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// Memoization
// ---------------------------------------------------------------------------

func TestSegmentWord_Memoized(t *testing.T) {
	s := newTestSegmenter(t)

	first := s.SegmentWord(kuttikal)
	second := s.SegmentWord(kuttikal)

	if first != second {
		t.Fatalf("results differ: %q vs %q", first, second)
	}

	st := s.CacheStats()
	if st.Hits != 1 || st.Misses != 1 || st.Len != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 1 entry", st)
	}
}

func TestSegmentWord_StableAcrossEviction(t *testing.T) {
	s := newTestSegmenter(t, WithCacheSize(1))

	a1 := s.SegmentWord(kuttikal)
	_ = s.SegmentWord(keralathil) // evicts kuttikal
	a2 := s.SegmentWord(kuttikal)

	if a1 != a2 {
		t.Errorf("result changed across eviction: %q vs %q", a1, a2)
	}

	if st := s.CacheStats(); st.Evictions < 2 || st.Len != 1 {
		t.Errorf("stats = %+v, want >= 2 evictions and 1 entry", st)
	}
}

func TestSegmenter_IndependentCaches(t *testing.T) {
	a := newTestSegmenter(t)
	b := newTestSegmenter(t)

	a.SegmentWord(kuttikal)

	if st := b.CacheStats(); st.Len != 0 || st.Misses != 0 {
		t.Errorf("second segmenter cache touched: %+v", st)
	}
}

func TestSegmenter_ResetCache(t *testing.T) {
	s := newTestSegmenter(t)
	s.SegmentWord(kuttikal)
	s.ResetCache()

	if st := s.CacheStats(); st.Len != 0 {
		t.Errorf("Len after reset = %d, want 0", st.Len)
	}

	if got := s.SegmentWord(kuttikal); got != kutti+DefaultSentinel+pluralKal {
		t.Errorf("SegmentWord after reset = %q", got)
	}
}

func TestSplitSegmented(t *testing.T) {
	stem, suffix, ok := SplitSegmented(kutti+DefaultSentinel+pluralKal, DefaultSentinel)
	if !ok || stem != kutti || suffix != pluralKal {
		t.Errorf("SplitSegmented = %q, %q, %v", stem, suffix, ok)
	}

	if _, _, ok := SplitSegmented(kuttikal, DefaultSentinel); ok {
		t.Error("expected ok=false for unsegmented word")
	}
}

func TestSegmenter_ConcurrentUse(t *testing.T) {
	s := newTestSegmenter(t, WithCacheSize(2))
	words := []string{kuttikal, keralathil, paalayil, varunnu, vannappol}

	want := make(map[string]string, len(words))
	ref := newTestSegmenter(t)
	for _, w := range words {
		want[w] = ref.SegmentWord(w)
	}

	done := make(chan struct{})
	errs := make(chan string, 8*len(words)*50)
	for g := 0; g < 8; g++ {
		g := g
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 50; i++ {
				w := words[(g+i)%len(words)]
				if got := s.SegmentWord(w); got != want[w] {
					errs <- got
				}
			}
		}()
	}
	for n := 0; n < 8; n++ {
		<-done
	}
	close(errs)

	for got := range errs {
		t.Errorf("concurrent SegmentWord returned unexpected %q", got)
	}
}
