package text

import (
	"unicode/utf8"

	"github.com/example/malseg/internal/script"
)

// Kind classifies a run produced by Tokenize.
type Kind uint8

const (
	// Separator runs hold whitespace, punctuation, symbols and any
	// character outside the word class.
	Separator Kind = iota
	// Word runs hold Malayalam code points and ASCII word characters.
	Word
)

func (k Kind) String() string {
	if k == Word {
		return "word"
	}
	return "separator"
}

// Run is a maximal span of same-kind characters from a line.
type Run struct {
	Text string
	Kind Kind
}

// Tokenize splits line into maximal word and separator runs, left to right.
// Concatenating the Text of every run reproduces line byte for byte.
//
// Malayalam and ASCII word characters with no separator between them form
// a single word run, so "abcകൾ" is one run.
func Tokenize(line string) []Run {
	if line == "" {
		return nil
	}

	var runs []Run
	start := 0
	kind := kindOf(line)

	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		k := Separator
		// Invalid bytes decode as RuneError, which is never a word rune.
		if script.IsWordRune(r) {
			k = Word
		}
		if k != kind {
			runs = append(runs, Run{Text: line[start:i], Kind: kind})
			start = i
			kind = k
		}
		i += size
	}
	runs = append(runs, Run{Text: line[start:], Kind: kind})

	return runs
}

func kindOf(s string) Kind {
	r, _ := utf8.DecodeRuneInString(s)
	if script.IsWordRune(r) {
		return Word
	}
	return Separator
}

// Join concatenates run texts in order.
func Join(runs []Run) string {
	n := 0
	for _, r := range runs {
		n += len(r.Text)
	}

	b := make([]byte, 0, n)
	for _, r := range runs {
		b = append(b, r.Text...)
	}

	return string(b)
}
