package main

import (
	"encoding/json"
	"fmt"

	"github.com/example/malseg/internal/config"
	"github.com/example/malseg/internal/report"
	"github.com/example/malseg/internal/segment"
	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and export suffix rules",
	}

	cmd.AddCommand(newRulesListCmd())
	cmd.AddCommand(newRulesExportCmd())

	return cmd
}

// activeRules returns the configured rule file, or the built-in rules.
func activeRules(cfg config.Config) (segment.RuleSet, error) {
	if cfg.Paths.RulesFile == "" {
		return segment.DefaultRules(), nil
	}
	return segment.LoadRules(cfg.Paths.RulesFile)
}

func newRulesListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			format, err := config.NormalizeFormat(format)
			if err != nil {
				return err
			}

			rs, err := activeRules(cfg)
			if err != nil {
				return err
			}

			if format == config.FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(rs.Rules()); err != nil {
					return fmt.Errorf("encode rules: %w", err)
				}
				return nil
			}

			report.FormatRulesTable(rs.Rules(), cmd.OutOrStdout())

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")

	return cmd
}

func newRulesExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the active rules as a YAML rule file",
		Long: "Writes the active rule set in the format accepted by --rules, " +
			"as a starting point for a custom rule file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			rs, err := activeRules(cfg)
			if err != nil {
				return err
			}

			out, err := openOutput(cfg.Paths.Output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := out.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("close output: %w", cerr)
				}
			}()

			return segment.WriteRules(out, rs)
		},
	}
}
