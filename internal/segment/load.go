package segment

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleFile is the on-disk layout of a rule set:
//
//	rules:
//	  - suffix: കൾ
//	    min_stem: 3
//	    group: plural
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// ParseRules decodes a YAML rule set from r. Rules keep file order.
func ParseRules(r io.Reader) (RuleSet, error) {
	var f ruleFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return RuleSet{}, ErrEmptyRuleSet
		}
		return RuleSet{}, fmt.Errorf("decode rules: %w", err)
	}

	return NewRuleSet(f.Rules)
}

// LoadRules reads a YAML rule set from path.
func LoadRules(path string) (RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("open rules file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rs, err := ParseRules(f)
	if err != nil {
		return RuleSet{}, fmt.Errorf("load rules %q: %w", path, err)
	}

	return rs, nil
}

// WriteRules encodes rs as YAML, in priority order.
func WriteRules(w io.Writer, rs RuleSet) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ruleFile{Rules: rs.rules}); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return enc.Close()
}
