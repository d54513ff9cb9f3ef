// Package config loads taranis settings from a TOML file and TARANIS_*
// environment variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"taranis/internal/fasta"
	"taranis/internal/refallele"
)

const (
	DefaultConfigFile = "taranis.toml"

	EnvConfig    = "TARANIS_CONFIG"
	EnvExtension = "TARANIS_EXTENSION"
	EnvWorkers   = "TARANIS_WORKERS"
	EnvTieBreak  = "TARANIS_TIE_BREAK"
	EnvReport    = "TARANIS_REPORT"
	EnvLogLevel  = "TARANIS_LOG_LEVEL"
	EnvLogFile   = "TARANIS_LOG_FILE"
)

// ReportFormats are the accepted values of schema.report.
var ReportFormats = []string{"text", "json", "jsonl"}

// Config is the root configuration.
type Config struct {
	Schema SchemaConfig `toml:"schema"`
	Log    LogConfig    `toml:"log"`
}

// SchemaConfig drives the reference-alleles command.
type SchemaConfig struct {
	Extension string `toml:"extension"`
	Workers   int    `toml:"workers"` // 0 = all CPUs
	TieBreak  string `toml:"tie_break"`
	Report    string `toml:"report"`
}

// LogConfig drives internal/logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Load reads path (or $TARANIS_CONFIG, or ./taranis.toml when present),
// applies environment overrides and defaults, and validates the result.
// A missing file is an error only when it was named explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if path = os.Getenv(EnvConfig); path != "" {
			explicit = true
		} else {
			path = DefaultConfigFile
		}
	}

	cfg := &Config{}
	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if explicit {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Default returns a finalized config without reading files or environment.
func Default() *Config {
	c := &Config{}
	c.loadDefaults()
	return c
}

func load(path string) (*Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	defer fh.Close()

	var c Config
	if err := toml.NewDecoder(fh).DisallowUnknownFields().Decode(&c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("config %s: unknown keys:\n%s", path, strict.String())
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) finalize() error {
	if err := c.loadEnv(); err != nil {
		return err
	}
	c.loadDefaults()
	return c.Validate()
}

func (c *Config) loadDefaults() {
	if c.Schema.Extension == "" {
		c.Schema.Extension = fasta.DefaultExtension
	}
	if c.Schema.TieBreak == "" {
		c.Schema.TieBreak = string(refallele.FirstInFile)
	}
	if c.Schema.Report == "" {
		c.Schema.Report = "text"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(EnvExtension); v != "" {
		c.Schema.Extension = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Schema.Workers = n
	}
	if v := os.Getenv(EnvTieBreak); v != "" {
		c.Schema.TieBreak = v
	}
	if v := os.Getenv(EnvReport); v != "" {
		c.Schema.Report = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	return nil
}

// Validate checks every field. It is exported so callers can re-check after
// applying flag overrides.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Schema.Extension, ".") {
		return fmt.Errorf("invalid schema.extension %q: must start with '.'", c.Schema.Extension)
	}
	if c.Schema.Workers < 0 {
		return fmt.Errorf("invalid schema.workers %d: must be ≥ 0", c.Schema.Workers)
	}
	if _, err := refallele.ParseTieBreak(c.Schema.TieBreak); err != nil {
		return fmt.Errorf("schema.tie_break: %w", err)
	}
	if !validReport(c.Schema.Report) {
		return fmt.Errorf("invalid schema.report %q (want %s)", c.Schema.Report, strings.Join(ReportFormats, " | "))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func validReport(s string) bool {
	for _, f := range ReportFormats {
		if s == f {
			return true
		}
	}
	return false
}
