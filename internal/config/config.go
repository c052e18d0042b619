// Package config loads editor settings from an HCL, YAML, JSON or TOML file,
// with TRACKEDIT_* environment overrides for the non-HCL formats.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentic-research/trackedit/internal/command"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/viper"
)

// Config holds the settings shared by every subcommand.
type Config struct {
	LogLevel  string  `hcl:"log_level,optional" mapstructure:"log_level"`
	LogFormat string  `hcl:"log_format,optional" mapstructure:"log_format"`
	Database  string  `hcl:"database,optional" mapstructure:"database"`
	Naming    *Naming `hcl:"naming,block" mapstructure:"naming"`
}

// Naming overrides the names given to created nodes. Empty fields keep the
// built-in names.
type Naming struct {
	SplitSuffixSpaced  string `hcl:"split_suffix_spaced,optional" mapstructure:"split_suffix_spaced"`
	SplitSuffixCompact string `hcl:"split_suffix_compact,optional" mapstructure:"split_suffix_compact"`
	Track              string `hcl:"track,optional" mapstructure:"track"`
	Route              string `hcl:"route,optional" mapstructure:"route"`
	Segment            string `hcl:"segment,optional" mapstructure:"segment"`
	Folder             string `hcl:"folder,optional" mapstructure:"folder"`
}

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultDatabase  = "trackedit.db"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Database:  DefaultDatabase,
	}
}

// Load reads the configuration at path. An empty path or a missing file
// yields the defaults (plus environment overrides).
func Load(path string) (*Config, error) {
	if path != "" && strings.EqualFold(filepath.Ext(path), ".hcl") {
		return loadHCL(path)
	}

	v := viper.New()
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("database", DefaultDatabase)
	v.SetEnvPrefix("TRACKEDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !missing(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func loadHCL(path string) (*Config, error) {
	cfg := &Config{}
	if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	d := Default()
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = d.LogFormat
	}
	if cfg.Database == "" {
		cfg.Database = d.Database
	}
	return cfg, nil
}

func missing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// CommandNaming converts the naming overrides for the command engine.
func (c *Config) CommandNaming() command.Naming {
	if c.Naming == nil {
		return command.DefaultNaming()
	}
	return command.Naming{
		SplitSpaced:  c.Naming.SplitSuffixSpaced,
		SplitCompact: c.Naming.SplitSuffixCompact,
		Track:        c.Naming.Track,
		Route:        c.Naming.Route,
		Segment:      c.Naming.Segment,
		Folder:       c.Naming.Folder,
	}
}

// NewLogger builds the process logger described by c, writing to w.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", c.LogFormat)
}
