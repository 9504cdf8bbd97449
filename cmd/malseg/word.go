package main

import (
	"fmt"

	"github.com/example/malseg/internal/segment"
	"github.com/example/malseg/internal/text"
	"github.com/spf13/cobra"
)

func newWordCmd() *cobra.Command {
	var split bool

	cmd := &cobra.Command{
		Use:   "word WORD [WORD...]",
		Short: "Segment individual words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			seg, err := newSegmenter(cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, arg := range args {
				word, err := text.Normalize(arg)
				if err != nil {
					return fmt.Errorf("word %q: %w", arg, err)
				}
				if cfg.Segment.Normalize {
					word = text.NormalizeScript(word)
				}

				out := seg.SegmentWord(word)
				if !split {
					fmt.Fprintln(w, out)
					continue
				}

				stem, suffix, ok := segment.SplitSegmented(out, seg.Sentinel())
				if !ok {
					fmt.Fprintf(w, "%s\t%s\t-\n", word, word)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", word, stem, suffix)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&split, "split", false, "Print word, stem and suffix as tab-separated columns")

	return cmd
}
