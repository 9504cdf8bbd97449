package tokenizer

import (
	"fmt"
	"strings"
)

// Comparison reports token counts for one line before and after segmentation.
type Comparison struct {
	Raw       string `json:"raw"`
	Segmented string `json:"segmented"`
	RawTokens int    `json:"raw_tokens"`
	SegTokens int    `json:"segmented_tokens"`
}

// Delta is SegTokens minus RawTokens.
func (c Comparison) Delta() int { return c.SegTokens - c.RawTokens }

// CountSegmented counts the tokens produced for segmented text. Every
// sentinel is a hard split: the pieces around it are encoded separately so
// no token can span a morpheme boundary, and the sentinel itself costs
// nothing.
func CountSegmented(tok Tokenizer, segmented, sentinel string) (int, error) {
	if sentinel == "" {
		return count(tok, segmented)
	}

	total := 0
	for _, piece := range strings.Split(segmented, sentinel) {
		n, err := count(tok, piece)
		if err != nil {
			return 0, err
		}
		total += n
	}

	return total, nil
}

// Compare encodes raw as-is and segmented with CountSegmented.
func Compare(tok Tokenizer, raw, segmented, sentinel string) (Comparison, error) {
	rawN, err := count(tok, raw)
	if err != nil {
		return Comparison{}, fmt.Errorf("encode raw line: %w", err)
	}

	segN, err := CountSegmented(tok, segmented, sentinel)
	if err != nil {
		return Comparison{}, fmt.Errorf("encode segmented line: %w", err)
	}

	return Comparison{Raw: raw, Segmented: segmented, RawTokens: rawN, SegTokens: segN}, nil
}

func count(tok Tokenizer, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	ids, err := tok.Encode(s)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
