package tokenizer

import (
	"errors"
	"fmt"
	"os"

	gosp "github.com/vikesh-raj/go-sentencepiece-encoder/sentencepiece"
)

var (
	// ErrEmptyPath is returned when NewSentencePieceTokenizer is called with an empty path.
	ErrEmptyPath = errors.New("tokenizer model path must not be empty")
	// ErrModelIsDir is returned when the model path names a directory.
	ErrModelIsDir = errors.New("tokenizer model path is a directory")
)

// SentencePieceTokenizer implements Tokenizer using a pure-Go UNIGRAM SentencePiece model.
type SentencePieceTokenizer struct {
	path string
	proc gosp.Sentencepiece
}

// NewSentencePieceTokenizer loads a SentencePiece model from the given path.
func NewSentencePieceTokenizer(modelPath string) (*SentencePieceTokenizer, error) {
	if modelPath == "" {
		return nil, ErrEmptyPath
	}

	info, err := os.Stat(modelPath)
	if err != nil {
		return nil, fmt.Errorf("stat sentencepiece model: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrModelIsDir, modelPath)
	}

	proc, err := gosp.NewSentencepieceFromFile(modelPath, false)
	if err != nil {
		return nil, fmt.Errorf("load sentencepiece model %q: %w", modelPath, err)
	}

	return &SentencePieceTokenizer{path: modelPath, proc: proc}, nil
}

// Path returns the model file the tokenizer was loaded from.
func (t *SentencePieceTokenizer) Path() string { return t.path }

// Encode tokenizes text and returns SentencePiece token IDs as int64.
// Malayalam text is passed through unchanged; the model's own
// normalization applies.
func (t *SentencePieceTokenizer) Encode(text string) ([]int64, error) {
	if text == "" {
		return []int64{}, nil
	}

	ids := t.proc.TokenizeToIDs(text)

	result := make([]int64, len(ids))
	for i, id := range ids {
		result[i] = int64(id)
	}

	return result, nil
}
