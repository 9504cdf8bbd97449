package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/example/malseg/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	activeCfg config.Config
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "malseg",
		Short:         "Malayalam morpheme boundary segmentation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newSegmentCmd())
	cmd.AddCommand(newWordCmd())
	cmd.AddCommand(newFilterCmd())
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := config.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

// requireConfig returns the loaded config once it has passed validation.
func requireConfig() (config.Config, error) {
	if activeCfg.Segment.Sentinel == "" {
		return config.Config{}, errors.New("configuration not loaded")
	}
	if err := activeCfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return activeCfg, nil
}
