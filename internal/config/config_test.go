package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvExtension, EnvWorkers, EnvTieBreak, EnvReport, EnvLogLevel, EnvLogFile} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "taranis.toml")
	if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return fn
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Config{
		Schema: SchemaConfig{Extension: ".fasta", TieBreak: "first", Report: "text"},
		Log:    LogConfig{Level: "info"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, Default()); diff != "" {
		t.Fatalf("Default() (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	fn := writeConfig(t, `
[schema]
extension = ".fa"
workers = 4
tie_break = "shortest"
report = "json"

[log]
level = "debug"
file = "run.log"
`)
	cfg, err := Load(fn)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Config{
		Schema: SchemaConfig{Extension: ".fa", Workers: 4, TieBreak: "shortest", Report: "json"},
		Log:    LogConfig{Level: "debug", File: "run.log"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	fn := writeConfig(t, "[schema]\nworkers = 4\n")
	t.Setenv(EnvWorkers, "2")
	t.Setenv(EnvTieBreak, "shortest")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(fn)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Schema.Workers != 2 || cfg.Schema.TieBreak != "shortest" || cfg.Log.Level != "warn" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	fn := writeConfig(t, "[schema]\nreport = \"json\"\n")
	t.Setenv(EnvConfig, fn)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Schema.Report != "json" {
		t.Fatalf("report = %q", cfg.Schema.Report)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"unknown key":   "[schema]\nextensoin = \".fa\"\n",
		"bad tie break": "[schema]\ntie_break = \"longest\"\n",
		"bad report":    "[schema]\nreport = \"xml\"\n",
		"bad workers":   "[schema]\nworkers = -1\n",
		"bad extension": "[schema]\nextension = \"fasta\"\n",
		"bad level":     "[log]\nlevel = \"chatty\"\n",
		"not toml":      "[schema\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "missing.toml") {
		t.Fatalf("err = %v", err)
	}
}

func TestBadWorkersEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvWorkers, "many")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric workers")
	}
}
