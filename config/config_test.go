package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MatchThresholdMeters != 1000 {
		t.Fatalf("default threshold = %v, want 1000", cfg.MatchThresholdMeters)
	}
	if cfg.SampleStride != 10 {
		t.Fatalf("default stride = %d, want 10", cfg.SampleStride)
	}
	if cfg.Format != "csv" {
		t.Fatalf("default format = %q, want csv", cfg.Format)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("match_threshold_meters: 250\nsample_stride: 5\nformat: parquet\nout_dir: /tmp/rides\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MatchThresholdMeters != 250 {
		t.Fatalf("threshold = %v, want 250", cfg.MatchThresholdMeters)
	}
	if cfg.SampleStride != 5 {
		t.Fatalf("stride = %d, want 5", cfg.SampleStride)
	}
	if cfg.Format != "parquet" {
		t.Fatalf("format = %q, want parquet", cfg.Format)
	}
	if cfg.OutDir != "/tmp/rides" {
		t.Fatalf("out dir = %q", cfg.OutDir)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("match_threshold_meters: 250\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TRIPMAPPER_MATCH_THRESHOLD_METERS", "500")
	t.Setenv("TRIPMAPPER_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MatchThresholdMeters != 500 {
		t.Fatalf("threshold = %v, want env override 500", cfg.MatchThresholdMeters)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.MatchThresholdMeters = 0 },
		func(c *Config) { c.SampleStride = -1 },
		func(c *Config) { c.Format = "xml" },
		func(c *Config) { c.Mock = true; c.MockRides = 0 },
	}
	for i, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
