package main

import (
	"fmt"

	"github.com/example/malseg/internal/corpus"
	"github.com/spf13/cobra"
)

func newFilterCmd() *cobra.Command {
	var training bool

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Copy corpus lines that pass the quality filter",
		Long: "Writes the trimmed lines that pass the configured filter. With --training " +
			"the stricter preset for tokenizer training data is used instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			f := filterFromConfig(cfg)
			if training {
				f = corpus.TrainingFilter()
			}

			in, err := openInput(cfg.Paths.Input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			out, err := openOutput(cfg.Paths.Output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := out.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("close output: %w", cerr)
				}
			}()

			st, err := f.Copy(in, out)
			if err != nil {
				return err
			}

			w := cmd.ErrOrStderr()
			fmt.Fprintf(w, "kept %d of %d lines (%.1f%%)\n", st.ProcessedLines, st.TotalLines, st.Retention())
			for _, r := range []corpus.Reason{
				corpus.ReasonEmpty,
				corpus.ReasonTooShort,
				corpus.ReasonLowScript,
				corpus.ReasonTooFewWords,
				corpus.ReasonTooMany,
			} {
				if n := st.Skipped[r]; n > 0 {
					fmt.Fprintf(w, "  %-18s %d\n", r, n)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&training, "training", false, "Use the tokenizer-training preset (10 chars, 40% script, 3-100 words)")

	return cmd
}
