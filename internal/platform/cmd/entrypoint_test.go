package cmd

import (
	"context"
	"flag"
	"testing"
)

type testConfig struct {
	DBPath string `env:"ARBITER_CMD_TEST_DB" envDefault:"arbiter.db"`
	Rules  string `env:"ARBITER_CMD_TEST_RULES" envDefault:"rules.yaml"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("ARBITER_CMD_TEST_DB", "env.db")
	t.Setenv("ARBITER_CMD_TEST_RULES", "env-rules.yaml")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "db path")
	fs.StringVar(&cfg.Rules, "rules", cfg.Rules, "rules path")

	if err := ParseArgs(fs, []string{"-db", "flag.db"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.DBPath != "flag.db" {
		t.Fatalf("expected flag value for db path, got %q", cfg.DBPath)
	}
	if cfg.Rules != "env-rules.yaml" {
		t.Fatalf("expected env rules path, got %q", cfg.Rules)
	}
}

func TestParseConfigFromArgsReadsEnvAndFlags(t *testing.T) {
	t.Setenv("ARBITER_CMD_TEST_DB", "configarg.db")
	t.Setenv("ARBITER_CMD_TEST_RULES", "configarg-rules.yaml")

	cfg := testConfig{}
	fs := flag.NewFlagSet("configargs", flag.ContinueOnError)
	fs.StringVar(&cfg.DBPath, "db", "", "db path")
	fs.StringVar(&cfg.Rules, "rules", "", "rules path")
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-db", "flag2.db"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfg.DBPath != "flag2.db" {
		t.Fatalf("expected parsed flag db path, got %q", cfg.DBPath)
	}
	if cfg.Rules != "configarg-rules.yaml" {
		t.Fatalf("expected env rules path, got %q", cfg.Rules)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(nil, "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(nil, ServiceArbiter, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}
