// Package config loads malseg settings from defaults, a config file,
// MALSEG_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Paths    PathsConfig   `mapstructure:"paths"`
	Segment  SegmentConfig `mapstructure:"segment"`
	Filter   FilterConfig  `mapstructure:"filter"`
	LogLevel string        `mapstructure:"log_level"`
}

type PathsConfig struct {
	Input          string `mapstructure:"input"`
	Output         string `mapstructure:"output"`
	RulesFile      string `mapstructure:"rules_file"`
	TokenizerModel string `mapstructure:"tokenizer_model"`
}

type SegmentConfig struct {
	Sentinel      string `mapstructure:"sentinel"`
	CacheSize     int    `mapstructure:"cache_size"`
	Workers       int    `mapstructure:"workers"`
	Normalize     bool   `mapstructure:"normalize"`
	BatchSize     int    `mapstructure:"batch_size"`
	ProgressEvery int    `mapstructure:"progress_every"`
}

type FilterConfig struct {
	MinChars       int     `mapstructure:"min_chars"`
	MinScriptRatio float64 `mapstructure:"min_script_ratio"`
	MinWords       int     `mapstructure:"min_words"`
	MaxWords       int     `mapstructure:"max_words"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps config keys to the flag that overrides them.
var flagKeys = []struct{ key, flag string }{
	{"paths.input", "input"},
	{"paths.output", "output"},
	{"paths.rules_file", "rules"},
	{"paths.tokenizer_model", "tokenizer-model"},
	{"segment.sentinel", "sentinel"},
	{"segment.cache_size", "cache-size"},
	{"segment.workers", "workers"},
	{"segment.normalize", "normalize"},
	{"segment.batch_size", "batch-size"},
	{"segment.progress_every", "progress-every"},
	{"filter.min_chars", "min-chars"},
	{"filter.min_script_ratio", "min-script-ratio"},
	{"filter.min_words", "min-words"},
	{"filter.max_words", "max-words"},
	{"log_level", "log-level"},
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			Input:          "-",
			Output:         "-",
			RulesFile:      "",
			TokenizerModel: "",
		},
		Segment: SegmentConfig{
			Sentinel:      "_SEP_",
			CacheSize:     50000,
			Workers:       1,
			Normalize:     false,
			BatchSize:     1024,
			ProgressEvery: 20000,
		},
		Filter: FilterConfig{
			MinChars:       10,
			MinScriptRatio: 0.3,
			MinWords:       0,
			MaxWords:       0,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.StringP("input", "i", defaults.Paths.Input, "Input corpus path (- for stdin)")
	fs.StringP("output", "o", defaults.Paths.Output, "Output path (- for stdout)")
	fs.String("rules", defaults.Paths.RulesFile, "YAML rule file replacing the built-in suffix rules")
	fs.String("tokenizer-model", defaults.Paths.TokenizerModel, "SentencePiece model used by preview and doctor")
	fs.String("sentinel", defaults.Segment.Sentinel, "Boundary marker inserted between stem and suffix")
	fs.Int("cache-size", defaults.Segment.CacheSize, "Word cache capacity")
	fs.Int("workers", defaults.Segment.Workers, "Concurrent line workers")
	fs.Bool("normalize", defaults.Segment.Normalize, "NFC-normalize lines and map legacy chillu sequences before segmenting")
	fs.Int("batch-size", defaults.Segment.BatchSize, "Lines per worker batch")
	fs.Int("progress-every", defaults.Segment.ProgressEvery, "Log progress every N lines (0 disables)")
	fs.Int("min-chars", defaults.Filter.MinChars, "Skip lines shorter than this many characters")
	fs.Float64("min-script-ratio", defaults.Filter.MinScriptRatio, "Skip lines with a lower Malayalam character ratio")
	fs.Int("min-words", defaults.Filter.MinWords, "Skip lines with fewer words (0 disables)")
	fs.Int("max-words", defaults.Filter.MaxWords, "Skip lines with more words (0 disables)")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("MALSEG")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("malseg")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Segment.CacheSize <= 0:
		return fmt.Errorf("%w: segment.cache_size must be positive, got %d", ErrInvalidConfig, c.Segment.CacheSize)
	case c.Segment.Workers <= 0:
		return fmt.Errorf("%w: segment.workers must be positive, got %d", ErrInvalidConfig, c.Segment.Workers)
	case c.Segment.BatchSize <= 0:
		return fmt.Errorf("%w: segment.batch_size must be positive, got %d", ErrInvalidConfig, c.Segment.BatchSize)
	case c.Segment.ProgressEvery < 0:
		return fmt.Errorf("%w: segment.progress_every must not be negative", ErrInvalidConfig)
	case c.Filter.MinChars < 0:
		return fmt.Errorf("%w: filter.min_chars must not be negative", ErrInvalidConfig)
	case c.Filter.MinScriptRatio < 0 || c.Filter.MinScriptRatio > 1:
		return fmt.Errorf("%w: filter.min_script_ratio must be in [0,1], got %g", ErrInvalidConfig, c.Filter.MinScriptRatio)
	case c.Filter.MinWords < 0 || c.Filter.MaxWords < 0:
		return fmt.Errorf("%w: filter word bounds must not be negative", ErrInvalidConfig)
	case c.Filter.MaxWords > 0 && c.Filter.MinWords > c.Filter.MaxWords:
		return fmt.Errorf("%w: filter.min_words %d exceeds filter.max_words %d", ErrInvalidConfig, c.Filter.MinWords, c.Filter.MaxWords)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// ParseLogLevel converts a level name into a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.input", c.Paths.Input)
	v.SetDefault("paths.output", c.Paths.Output)
	v.SetDefault("paths.rules_file", c.Paths.RulesFile)
	v.SetDefault("paths.tokenizer_model", c.Paths.TokenizerModel)
	v.SetDefault("segment.sentinel", c.Segment.Sentinel)
	v.SetDefault("segment.cache_size", c.Segment.CacheSize)
	v.SetDefault("segment.workers", c.Segment.Workers)
	v.SetDefault("segment.normalize", c.Segment.Normalize)
	v.SetDefault("segment.batch_size", c.Segment.BatchSize)
	v.SetDefault("segment.progress_every", c.Segment.ProgressEvery)
	v.SetDefault("filter.min_chars", c.Filter.MinChars)
	v.SetDefault("filter.min_script_ratio", c.Filter.MinScriptRatio)
	v.SetDefault("filter.min_words", c.Filter.MinWords)
	v.SetDefault("filter.max_words", c.Filter.MaxWords)
	v.SetDefault("log_level", c.LogLevel)
}

// bindFlags binds each known flag to its nested key so a flag only wins
// when it was set explicitly; otherwise the config file and env still apply.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", fk.flag, err)
		}
	}
	return nil
}
