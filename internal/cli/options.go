// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"taranis/internal/config"
	"taranis/internal/refallele"
)

// Global holds flags shared by every command.
type Global struct {
	ConfigFile string
	Verbose    bool
	LogFile    string
}

// RegisterGlobal wires the persistent flags.
func RegisterGlobal(fs *pflag.FlagSet, g *Global) {
	fs.StringVar(&g.ConfigFile, "config", "", "TOML config file [taranis.toml if present]")
	fs.BoolVarP(&g.Verbose, "verbose", "v", false, "print verbose output to the console [false]")
	fs.StringVarP(&g.LogFile, "log-file", "l", "", "also write the log to a file, at the console level (add -v for debug lines)")
}

// Options holds the reference-alleles flags.
type Options struct {
	// Input / output
	Schema    string
	Output    string
	Extension string
	Force     bool

	// Selection
	TieBreak string

	// Performance
	Workers int

	// Report
	Report string
}

// Register wires the reference-alleles flags onto fs.
func Register(fs *pflag.FlagSet, o *Options) {
	fs.StringVarP(&o.Schema, "schema", "s", "", "directory with the core gene files of the schema [*]")
	fs.StringVarP(&o.Output, "output", "o", "", "output folder to save reference alleles [*]")
	fs.StringVar(&o.Extension, "extension", ".fasta", "locus file extension [.fasta]")
	fs.BoolVarP(&o.Force, "force", "f", false, "overwrite an existing output folder without asking [false]")

	fs.StringVar(&o.TieBreak, "tie-break", string(refallele.FirstInFile), "pick among equal candidates: first | shortest [first]")

	fs.IntVarP(&o.Workers, "workers", "t", 0, "loci processed concurrently (0 = all CPUs) [0]")

	fs.StringVar(&o.Report, "report", "text", "report format: "+strings.Join(config.ReportFormats, " | ")+" [text]")
}

// ApplyConfig fills every flag the user did not set from cfg.
func ApplyConfig(fs *pflag.FlagSet, o *Options, cfg *config.Config) {
	if !fs.Changed("extension") {
		o.Extension = cfg.Schema.Extension
	}
	if !fs.Changed("tie-break") {
		o.TieBreak = cfg.Schema.TieBreak
	}
	if !fs.Changed("workers") {
		o.Workers = cfg.Schema.Workers
	}
	if !fs.Changed("report") {
		o.Report = cfg.Schema.Report
	}
}

// Validate applies the reference-alleles invariants.
func Validate(o *Options) error {
	if o.Schema == "" {
		return errors.New("--schema is required")
	}
	if o.Output == "" {
		return errors.New("--output is required")
	}
	if !strings.HasPrefix(o.Extension, ".") {
		return fmt.Errorf("--extension %q must start with '.'", o.Extension)
	}
	if o.Workers < 0 {
		return errors.New("--workers must be ≥ 0")
	}
	if _, err := refallele.ParseTieBreak(o.TieBreak); err != nil {
		return fmt.Errorf("--tie-break: %w", err)
	}
	for _, f := range config.ReportFormats {
		if o.Report == f {
			return nil
		}
	}
	return fmt.Errorf("invalid --report %q", o.Report)
}
