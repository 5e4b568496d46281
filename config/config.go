// Package config loads tripmapper settings with layered precedence:
// built-in defaults, then an optional YAML file, then TRIPMAPPER_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/cycleviz/tripmapper"
)

// EnvPrefix namespaces environment overrides, e.g. TRIPMAPPER_OUT_DIR.
const EnvPrefix = "TRIPMAPPER_"

// Config holds every tunable of the batch pipeline.
type Config struct {
	// FitDir is the directory scanned for *.fit activity files. Empty together
	// with Mock=false means no rides.
	FitDir string `koanf:"fit_dir"`
	// PhotoDirs are the directories scanned for geotagged photos.
	PhotoDirs []string `koanf:"photo_dirs"`
	// OutDir receives rides.json, the assignment table and copied photos.
	OutDir string `koanf:"out_dir"`

	// Mock switches ride loading to the deterministic generator.
	Mock      bool  `koanf:"mock"`
	MockRides int   `koanf:"mock_rides"`
	Seed      int64 `koanf:"seed"`

	// MatchThresholdMeters rejects photo matches at or beyond this distance.
	MatchThresholdMeters float64 `koanf:"match_threshold_meters"`
	// SampleStride keeps every Nth route point when downsampling.
	SampleStride int `koanf:"sample_stride"`

	// Format selects the assignment table encoding: csv or parquet.
	Format string `koanf:"format"`
	// CopyPhotos controls publishing matched photo files into OutDir/photos.
	CopyPhotos bool `koanf:"copy_photos"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutDir:               "out",
		Mock:                 false,
		MockRides:            6,
		Seed:                 1,
		MatchThresholdMeters: tripmapper.DefaultMatchThresholdMeters,
		SampleStride:         tripmapper.DefaultSampleStride,
		Format:               "csv",
		CopyPhotos:           true,
		LogLevel:             "info",
		LogFormat:            "console",
	}
}

// Load builds the configuration. path may be empty; a missing explicit file is
// an error, but no file at all is fine.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// TRIPMAPPER_MATCH_THRESHOLD_METERS -> match_threshold_meters
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.MatchThresholdMeters <= 0 {
		return fmt.Errorf("match_threshold_meters must be positive, got %v", c.MatchThresholdMeters)
	}
	if c.SampleStride <= 0 {
		return fmt.Errorf("sample_stride must be positive, got %d", c.SampleStride)
	}
	switch strings.ToLower(c.Format) {
	case "csv", "parquet":
	default:
		return fmt.Errorf("unsupported format %q (expected csv|parquet)", c.Format)
	}
	if c.Mock && c.MockRides <= 0 {
		return fmt.Errorf("mock_rides must be positive when mock is enabled, got %d", c.MockRides)
	}
	return nil
}
