// Package config loads toolkit settings from an optional YAML file,
// ENROLLSTATS_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configName is the config file name without extension.
const configName = ".enrollstats"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix.
const envPrefix = "ENROLLSTATS"

// Defaults
const (
	DefaultRawFile       = "enrollment.csv"
	DefaultFixedFile     = "enrollment_fixed.csv"
	DefaultSectionDir    = "./section"
	DefaultOverallDir    = "./overall"
	DefaultToleranceMs   = 10
	DefaultMinTotal      = 100
	DefaultOutputFormat  = "text"
	DefaultTimezone      = "Local"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultLogFile       = "~/.enrollstats/logs/app.log"
	DefaultWatchDebounce = "2s"
)

// Config represents the complete toolkit configuration
type Config struct {
	Timezone string        `mapstructure:"timezone" yaml:"timezone"`
	Files    FilesConfig   `mapstructure:"files" yaml:"files"`
	Split    SplitConfig   `mapstructure:"split" yaml:"split"`
	Fix      FixConfig     `mapstructure:"fix" yaml:"fix"`
	Diff     DiffConfig    `mapstructure:"diff" yaml:"diff"`
	Watch    WatchConfig   `mapstructure:"watch" yaml:"watch"`
	Logging  LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// FilesConfig names the enrollment logs
type FilesConfig struct {
	Raw   string `mapstructure:"raw" yaml:"raw"`
	Fixed string `mapstructure:"fixed" yaml:"fixed"`
}

// SplitConfig holds the per-course output locations
type SplitConfig struct {
	SectionDir string `mapstructure:"section_dir" yaml:"section_dir"`
	OverallDir string `mapstructure:"overall_dir" yaml:"overall_dir"`
	CreateDirs bool   `mapstructure:"create_dirs" yaml:"create_dirs"`
}

// FixConfig holds timestamp repair settings
type FixConfig struct {
	ToleranceMs int64 `mapstructure:"tolerance_ms" yaml:"tolerance_ms"`
}

// DiffConfig holds seat-drop scan settings
type DiffConfig struct {
	MinTotal int    `mapstructure:"min_total" yaml:"min_total"`
	Output   string `mapstructure:"output" yaml:"output"`
}

// WatchConfig holds settings for re-running the pipeline on file changes
type WatchConfig struct {
	Debounce string `mapstructure:"debounce" yaml:"debounce"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// Load loads configuration from file, env vars, and defaults.
// If path is non-empty it must exist; otherwise .enrollstats.yaml is searched
// in the working directory and $HOME, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Timezone: DefaultTimezone,
		Files: FilesConfig{
			Raw:   DefaultRawFile,
			Fixed: DefaultFixedFile,
		},
		Split: SplitConfig{
			SectionDir: DefaultSectionDir,
			OverallDir: DefaultOverallDir,
		},
		Fix:   FixConfig{ToleranceMs: DefaultToleranceMs},
		Diff:  DiffConfig{MinTotal: DefaultMinTotal, Output: DefaultOutputFormat},
		Watch: WatchConfig{Debounce: DefaultWatchDebounce},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			File:   DefaultLogFile,
		},
	}
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("timezone", d.Timezone)

	v.SetDefault("files.raw", d.Files.Raw)
	v.SetDefault("files.fixed", d.Files.Fixed)

	v.SetDefault("split.section_dir", d.Split.SectionDir)
	v.SetDefault("split.overall_dir", d.Split.OverallDir)
	v.SetDefault("split.create_dirs", d.Split.CreateDirs)

	v.SetDefault("fix.tolerance_ms", d.Fix.ToleranceMs)

	v.SetDefault("diff.min_total", d.Diff.MinTotal)
	v.SetDefault("diff.output", d.Diff.Output)

	v.SetDefault("watch.debounce", d.Watch.Debounce)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Files.Raw == "" {
		return fmt.Errorf("files.raw is required")
	}
	if c.Files.Fixed == "" {
		return fmt.Errorf("files.fixed is required")
	}
	if c.Split.SectionDir == "" {
		return fmt.Errorf("split.section_dir is required")
	}
	if c.Split.OverallDir == "" {
		return fmt.Errorf("split.overall_dir is required")
	}
	if c.Fix.ToleranceMs < 0 {
		return fmt.Errorf("fix.tolerance_ms must not be negative")
	}
	if c.Diff.MinTotal < 0 {
		return fmt.Errorf("diff.min_total must not be negative")
	}
	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d < 0 {
		return fmt.Errorf("watch.debounce must be a non-negative duration such as 2s")
	}

	validOutputs := map[string]bool{"text": true, "table": true, "json": true}
	if !validOutputs[c.Diff.Output] {
		return fmt.Errorf("diff.output must be one of: text, table, json")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// DebounceDuration returns watch.debounce as a duration. Validate has
// already rejected unparsable values.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(w.Debounce)
	return d
}

// YAML renders the configuration the way it would be written to .enrollstats.yaml.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
