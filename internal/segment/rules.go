package segment

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyRuleSet is returned when a rule set has no rules.
	ErrEmptyRuleSet = errors.New("rule set is empty")
	// ErrInvalidRule is returned for a rule with an empty suffix or a
	// minimum stem length below one.
	ErrInvalidRule = errors.New("invalid rule")
)

// Group names the grammatical family a rule belongs to. It is descriptive
// only and plays no part in matching.
type Group string

const (
	GroupPlural   Group = "plural"
	GroupCase     Group = "case"
	GroupVerb     Group = "verb"
	GroupMisc     Group = "misc"
	GroupCompound Group = "compound"
)

// Rule matches a word ending in Suffix whose remaining stem has at least
// MinStem code points.
type Rule struct {
	Suffix  string `yaml:"suffix" json:"suffix"`
	MinStem int    `yaml:"min_stem" json:"min_stem"`
	Group   Group  `yaml:"group,omitempty" json:"group,omitempty"`
}

// Split reports where word divides into stem and suffix under r.
func (r Rule) Split(word string) (stem, suffix string, ok bool) {
	if len(word) <= len(r.Suffix) || !strings.HasSuffix(word, r.Suffix) {
		return "", "", false
	}

	stem = word[:len(word)-len(r.Suffix)]
	if utf8.RuneCountInString(stem) < r.MinStem {
		return "", "", false
	}

	return stem, r.Suffix, true
}

func (r Rule) String() string {
	return fmt.Sprintf("(.{%d,})%s$", r.MinStem, r.Suffix)
}

func (r Rule) validate(sentinel string) error {
	switch {
	case r.Suffix == "":
		return fmt.Errorf("%w: empty suffix", ErrInvalidRule)
	case !utf8.ValidString(r.Suffix):
		return fmt.Errorf("%w: suffix %q is not valid UTF-8", ErrInvalidRule, r.Suffix)
	case r.MinStem < 1:
		return fmt.Errorf("%w: suffix %q has min stem %d (want >= 1)", ErrInvalidRule, r.Suffix, r.MinStem)
	case sentinel != "" && strings.Contains(r.Suffix, sentinel):
		return fmt.Errorf("%w: suffix %q contains sentinel %q", ErrInvalidRule, r.Suffix, sentinel)
	}
	return nil
}

// RuleSet is an ordered, immutable list of rules. Earlier rules take
// priority: the first rule that matches a word decides its segmentation.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet copies rules into a RuleSet, preserving order.
func NewRuleSet(rules []Rule) (RuleSet, error) {
	if len(rules) == 0 {
		return RuleSet{}, ErrEmptyRuleSet
	}

	for i, r := range rules {
		if err := r.validate(""); err != nil {
			return RuleSet{}, fmt.Errorf("rule %d: %w", i+1, err)
		}
	}

	return RuleSet{rules: append([]Rule(nil), rules...)}, nil
}

// Len returns the number of rules.
func (rs RuleSet) Len() int { return len(rs.rules) }

// Rules returns a copy of the rules in priority order.
func (rs RuleSet) Rules() []Rule { return append([]Rule(nil), rs.rules...) }

// Match returns the index of the first rule that splits word, and the split.
func (rs RuleSet) Match(word string) (idx int, stem, suffix string, ok bool) {
	for i, r := range rs.rules {
		if stem, suffix, ok := r.Split(word); ok {
			return i, stem, suffix, true
		}
	}
	return -1, "", "", false
}

func (rs RuleSet) validate(sentinel string) error {
	if len(rs.rules) == 0 {
		return ErrEmptyRuleSet
	}
	for i, r := range rs.rules {
		if err := r.validate(sentinel); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
	}
	return nil
}

// DefaultRules returns the built-in Malayalam suffix rules.
//
// Order is significant. Short suffixes such as ിൽ come before longer ones
// such as യിൽ, so some longer rules are shadowed and never fire. Both the
// atomic chillu form ിൽ and the legacy ZWJ form are listed; see
// text.NormalizeScript.
func DefaultRules() RuleSet {
	return RuleSet{rules: append([]Rule(nil), defaultRules...)}
}

var defaultRules = []Rule{
	// plural
	{Suffix: "\u0D15\u0D7E", MinStem: 3, Group: GroupPlural}, // കൾ
	{Suffix: "\u0D2E\u0D3E\u0D7C", MinStem: 4, Group: GroupPlural}, // മാർ
	{Suffix: "\u0D19\u0D4D\u0D19\u0D7E", MinStem: 3, Group: GroupPlural}, // ങ്ങൾ

	// case
	{Suffix: "\u0D3F\u0D7D", MinStem: 3, Group: GroupCase}, // ിൽ
	{Suffix: "\u0D3F\u0D32\u0D4D\u200D", MinStem: 3, Group: GroupCase}, // ില്+ZWJ
	{Suffix: "\u0D2F\u0D3F\u0D7D", MinStem: 3, Group: GroupCase}, // യിൽ
	{Suffix: "\u0D3F\u0D28\u0D4D", MinStem: 3, Group: GroupCase}, // ിന്
	{Suffix: "\u0D3F\u0D28\u0D41", MinStem: 3, Group: GroupCase}, // ിനു
	{Suffix: "\u0D3F\u0D28\u0D4D\u0D28\u0D4D", MinStem: 3, Group: GroupCase}, // ിന്ന്
	{Suffix: "\u0D41\u0D1F\u0D46", MinStem: 4, Group: GroupCase}, // ുടെ
	{Suffix: "\u0D2F\u0D41\u0D1F\u0D46", MinStem: 3, Group: GroupCase}, // യുടെ
	{Suffix: "\u0D3F\u0D28\u0D4D\u0D31\u0D46", MinStem: 3, Group: GroupCase}, // ിന്റെ
	{Suffix: "\u0D3E\u0D7D", MinStem: 3, Group: GroupCase}, // ാൽ
	{Suffix: "\u0D3F\u0D28\u0D3E\u0D7D", MinStem: 3, Group: GroupCase}, // ിനാൽ
	{Suffix: "\u0D15\u0D4A\u0D23\u0D4D\u0D1F\u0D4D", MinStem: 3, Group: GroupCase}, // കൊണ്ട്
	{Suffix: "\u0D3F\u0D7D\u0D28\u0D3F\u0D28\u0D4D\u0D28\u0D4D", MinStem: 4, Group: GroupCase}, // ിൽനിന്ന്
	{Suffix: "\u0D2F\u0D3F\u0D7D\u0D28\u0D3F\u0D28\u0D4D\u0D28\u0D4D", MinStem: 3, Group: GroupCase}, // യിൽനിന്ന്

	// verb
	{Suffix: "\u0D41\u0D28\u0D4D\u0D28\u0D41", MinStem: 4, Group: GroupVerb}, // ുന്നു
	{Suffix: "\u0D41\u0D28\u0D4D\u0D28", MinStem: 4, Group: GroupVerb}, // ുന്ന
	{Suffix: "\u0D41\u0D15\u0D2F\u0D3E\u0D23\u0D4D", MinStem: 4, Group: GroupVerb}, // ുകയാണ്
	{Suffix: "\u0D41\u0D15\u0D2F\u0D3E\u0D23\u0D41", MinStem: 4, Group: GroupVerb}, // ുകയാണു
	{Suffix: "\u0D3F\u0D1A\u0D4D\u0D1A\u0D41", MinStem: 4, Group: GroupVerb}, // ിച്ചു
	{Suffix: "\u0D3F\u0D1A\u0D4D\u0D1A\u0D4D", MinStem: 4, Group: GroupVerb}, // ിച്ച്
	{Suffix: "\u0D28\u0D4D\u0D28\u0D41", MinStem: 3, Group: GroupVerb}, // ന്നു
	{Suffix: "\u0D2F\u0D3F", MinStem: 3, Group: GroupVerb}, // യി
	{Suffix: "\u0D41\u0D02", MinStem: 3, Group: GroupVerb}, // ും
	{Suffix: "\u0D2F\u0D41\u0D02", MinStem: 4, Group: GroupVerb}, // യും

	// misc
	{Suffix: "\u0D3E\u0D2F\u0D3F", MinStem: 3, Group: GroupMisc}, // ായി
	{Suffix: "\u0D3E\u0D2F\u0D3F\u0D1F\u0D4D\u0D1F\u0D4D", MinStem: 4, Group: GroupMisc}, // ായിട്ട്
	{Suffix: "\u0D3E\u0D24\u0D46", MinStem: 3, Group: GroupMisc}, // ാതെ
	{Suffix: "\u0D19\u0D4D\u0D15\u0D3F\u0D7D", MinStem: 4, Group: GroupMisc}, // ങ്കിൽ
	{Suffix: "\u0D41\u0D28\u0D4D\u0D28\u0D24\u0D4D", MinStem: 4, Group: GroupMisc}, // ുന്നത്
	{Suffix: "\u0D3F\u0D2F\u0D24\u0D4D", MinStem: 4, Group: GroupMisc}, // ിയത്
	{Suffix: "\u0D7D", MinStem: 3, Group: GroupMisc}, // ൽ
	{Suffix: "\u0D4B", MinStem: 3, Group: GroupMisc}, // ോ
	{Suffix: "\u0D2F\u0D4B", MinStem: 3, Group: GroupMisc}, // യോ
	{Suffix: "\u0D24\u0D28\u0D4D\u0D28\u0D46", MinStem: 3, Group: GroupMisc}, // തന്നെ
	{Suffix: "\u0D15\u0D42\u0D1F\u0D3F", MinStem: 3, Group: GroupMisc}, // കൂടി
	{Suffix: "\u0D15\u0D42\u0D1F\u0D46", MinStem: 3, Group: GroupMisc}, // കൂടെ
	{Suffix: "\u0D3F\u0D28\u0D47\u0D15\u0D4D\u0D15\u0D3E\u0D7E", MinStem: 4, Group: GroupMisc}, // ിനേക്കാൾ

	// compound
	{Suffix: "\u0D15\u0D3E\u0D7C", MinStem: 4, Group: GroupCompound}, // കാർ
	{Suffix: "\u0D35\u0D3E\u0D26\u0D3F", MinStem: 4, Group: GroupCompound}, // വാദി
	{Suffix: "\u0D35\u0D3E\u0D26\u0D02", MinStem: 4, Group: GroupCompound}, // വാദം
	{Suffix: "\u0D36\u0D3E\u0D32", MinStem: 4, Group: GroupCompound}, // ശാല
	{Suffix: "\u0D36\u0D3E\u0D32\u0D3E", MinStem: 4, Group: GroupCompound}, // ശാലാ
	{Suffix: "\u0D1C\u0D3F", MinStem: 4, Group: GroupCompound}, // ജി
	{Suffix: "\u0D38\u0D3E\u0D7C", MinStem: 4, Group: GroupCompound}, // സാർ
}
