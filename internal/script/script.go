// Package script classifies runes against the Malayalam Unicode block and
// the ASCII word-character class used by the segmenter.
package script

import "unicode/utf8"

// Malayalam block bounds (inclusive).
const (
	MalayalamFirst rune = '\u0D00'
	MalayalamLast  rune = '\u0D7F'
)

// IsMalayalam reports whether r lies in the Malayalam block.
func IsMalayalam(r rune) bool {
	return r >= MalayalamFirst && r <= MalayalamLast
}

// IsASCIIWord reports whether r is an ASCII letter, digit or underscore.
func IsASCIIWord(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// IsWordRune reports whether r belongs to a word-like run.
func IsWordRune(r rune) bool {
	return IsMalayalam(r) || IsASCIIWord(r)
}

// ContainsMalayalam reports whether s has at least one Malayalam code point.
func ContainsMalayalam(s string) bool {
	for _, r := range s {
		if IsMalayalam(r) {
			return true
		}
	}

	return false
}

// Ratio returns the fraction of code points in s that are Malayalam.
// An empty string has ratio 0.
func Ratio(s string) float64 {
	total := utf8.RuneCountInString(s)
	if total == 0 {
		return 0
	}

	n := 0
	for _, r := range s {
		if IsMalayalam(r) {
			n++
		}
	}

	return float64(n) / float64(total)
}
