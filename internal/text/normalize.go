package text

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

// Normalize prepares raw command input for segmentation.
// It trims surrounding whitespace, normalizes line endings to \n,
// and rejects empty or whitespace-only input.
func Normalize(s string) (string, error) {
	// Normalize line endings: CRLF → LF, then bare CR → LF.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = strings.TrimSpace(s)

	if s == "" {
		return "", ErrEmptyText
	}

	return s, nil
}

const (
	virama = '\u0D4D'
	zwj    = '\u200D'
)

// legacyChillu maps the base consonant of a consonant+virama+ZWJ sequence
// to its atomic chillu code point (Unicode 5.1).
var legacyChillu = map[rune]rune{
	'\u0D23': '\u0D7A', // ണ → ൺ
	'\u0D28': '\u0D7B', // ന → ൻ
	'\u0D30': '\u0D7C', // ര → ർ
	'\u0D32': '\u0D7D', // ല → ൽ
	'\u0D33': '\u0D7E', // ള → ൾ
	'\u0D15': '\u0D7F', // ക → ൿ
}

// NormalizeScript rewrites s to NFC and replaces legacy chillu sequences
// with their atomic code points, so that visually identical suffixes match
// a single rule. The result may be shorter than s.
func NormalizeScript(s string) string {
	s = norm.NFC.String(s)
	if !strings.ContainsRune(s, zwj) {
		return s
	}

	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(rs); i++ {
		if i+2 < len(rs) && rs[i+1] == virama && rs[i+2] == zwj {
			if chillu, ok := legacyChillu[rs[i]]; ok {
				b.WriteRune(chillu)
				i += 2
				continue
			}
		}
		b.WriteRune(rs[i])
	}

	return b.String()
}
