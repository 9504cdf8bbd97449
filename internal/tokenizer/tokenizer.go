// Package tokenizer measures how segmented text tokenizes under a subword
// model. The implementation uses SentencePiece UNIGRAM models so the effect
// of morpheme boundaries on downstream vocabularies can be previewed.
package tokenizer

// Tokenizer encodes text into SentencePiece token IDs.
type Tokenizer interface {
	// Encode tokenizes text and returns SentencePiece token IDs.
	Encode(text string) ([]int64, error)
}
