package main

import (
	"errors"
	"fmt"

	"github.com/example/malseg/internal/doctor"
	"github.com/example/malseg/internal/segment"
	"github.com/example/malseg/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var skipTokenizer bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check input, rules, sentinel and tokenizer model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := activeCfg
			stdout := cmd.OutOrStdout()

			dcfg := doctor.Config{
				InputPath:      cfg.Paths.Input,
				RulesFile:      cfg.Paths.RulesFile,
				LoadRules:      countRules,
				BuiltinRules:   segment.DefaultRules().Len(),
				Sentinel:       cfg.Segment.Sentinel,
				CheckSentinel:  segment.ValidateSentinel,
				TokenizerModel: cfg.Paths.TokenizerModel,
				SkipTokenizer:  skipTokenizer || cfg.Paths.TokenizerModel == "",
				LoadTokenizer:  loadTokenizer,
			}

			result := doctor.Run(dcfg, stdout)

			if err := cfg.Validate(); err != nil {
				result.AddFailure(fmt.Sprintf("config: %v", err))
				_, _ = fmt.Fprintf(stdout, "%s config: %v\n", doctor.FailMark, err)
			} else {
				_, _ = fmt.Fprintf(stdout, "%s config: ok\n", doctor.PassMark)
			}

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(stdout, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipTokenizer, "skip-tokenizer", false, "Skip the tokenizer model check")

	return cmd
}

func countRules(path string) (int, error) {
	rs, err := segment.LoadRules(path)
	if err != nil {
		return 0, err
	}
	return rs.Len(), nil
}

func loadTokenizer(path string) error {
	_, err := tokenizer.NewSentencePieceTokenizer(path)
	return err
}
