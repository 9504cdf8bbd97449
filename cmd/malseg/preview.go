package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/example/malseg/internal/config"
	"github.com/example/malseg/internal/corpus"
	"github.com/example/malseg/internal/report"
	"github.com/example/malseg/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newPreviewCmd() *cobra.Command {
	var (
		lines  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compare SentencePiece token counts before and after segmentation",
		Long: "Segments the first lines of the input and encodes each line twice with the " +
			"configured SentencePiece model: once as-is and once with every sentinel " +
			"treated as a hard split.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if lines < 1 {
				return fmt.Errorf("--lines must be at least 1")
			}
			format, err := config.NormalizeFormat(format)
			if err != nil {
				return err
			}

			tok, err := tokenizer.NewSentencePieceTokenizer(cfg.Paths.TokenizerModel)
			if err != nil {
				return err
			}

			seg, err := newSegmenter(cfg)
			if err != nil {
				return err
			}

			in, err := openInput(cfg.Paths.Input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			filter := filterFromConfig(cfg)
			comparisons := make([]tokenizer.Comparison, 0, lines)

			sc := bufio.NewScanner(in)
			sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
			for len(comparisons) < lines && sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if filter.Check(line) != corpus.ReasonNone {
					continue
				}

				c, err := tokenizer.Compare(tok, line, seg.SegmentText(line), seg.Sentinel())
				if err != nil {
					return err
				}
				comparisons = append(comparisons, c)
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			if format == config.FormatJSON {
				return report.FormatPreviewJSON(comparisons, cmd.OutOrStdout())
			}
			report.FormatPreviewTable(comparisons, cmd.OutOrStdout())

			return nil
		},
	}

	cmd.Flags().IntVar(&lines, "lines", 20, "Number of filtered input lines to preview")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")

	return cmd
}
