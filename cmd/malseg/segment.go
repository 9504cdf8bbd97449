package main

import (
	"fmt"

	"github.com/example/malseg/internal/config"
	"github.com/example/malseg/internal/report"
	"github.com/spf13/cobra"
)

func newSegmentCmd() *cobra.Command {
	var (
		reportFormat string
		topN         int
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Segment a corpus line by line",
		Long: "Reads newline-delimited text, drops lines that fail the filter and " +
			"writes every remaining line with morpheme boundaries marked by the sentinel. " +
			"A summary report is written to stderr.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			format, err := config.NormalizeFormat(reportFormat)
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

			out, err := openOutput(cfg.Paths.Output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := out.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("close output: %w", cerr)
				}
			}()

			st, err := newProcessor(seg, cfg).Process(cmd.Context(), in, out)
			if err != nil {
				return err
			}

			if quiet {
				return nil
			}

			if format == config.FormatJSON {
				return report.FormatCorpusJSON(st, seg.CacheStats(), topN, cmd.ErrOrStderr())
			}
			report.FormatCorpusTable(st, seg.CacheStats(), topN, cmd.ErrOrStderr())

			return nil
		},
	}

	cmd.Flags().StringVar(&reportFormat, "report", "table", "Summary format written to stderr: table|json")
	cmd.Flags().IntVar(&topN, "top", report.DefaultTopN, "Number of most frequent suffixes in the summary (0 = all)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the summary report")

	return cmd
}
