// Package config loads the ripple configuration: where the analysis
// service lives, how long a single call may take, and where the local
// model database is kept.
//
// Sources, lowest to highest precedence: built-in defaults, a
// ripple.yaml file in the working directory, RIPPLE_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the optional config file looked up in the working
// directory.
const FileName = "ripple.yaml"

// Environment variable names.
const (
	EnvAnalysisURL    = "RIPPLE_ANALYSIS_URL"
	EnvRequestTimeout = "RIPPLE_REQUEST_TIMEOUT"
	EnvDatabasePath   = "RIPPLE_DB_PATH"
)

// Config holds the runtime settings.
type Config struct {
	// AnalysisURL is the base URL of the cascade analysis service.
	AnalysisURL string

	// RequestTimeout bounds one analyze or apply call.
	RequestTimeout time.Duration

	// DatabasePath is the local model database file.
	DatabasePath string
}

// fileConfig is the YAML shape; durations are strings ("30s") because
// yaml.v3 has no native duration support.
type fileConfig struct {
	AnalysisURL    string `yaml:"analysis_url"`
	RequestTimeout string `yaml:"request_timeout"`
	DatabasePath   string `yaml:"database_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AnalysisURL:    "http://localhost:8787",
		RequestTimeout: 30 * time.Second,
		DatabasePath:   filepath.Join(".ripple", "model.db"),
	}
}

// Load builds the effective configuration for the given directory.
// A missing config file is not an error — defaults plus environment
// apply.
func Load(dir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file — fine.
	case err != nil:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	default:
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		if file.AnalysisURL != "" {
			cfg.AnalysisURL = file.AnalysisURL
		}
		if file.RequestTimeout != "" {
			d, err := time.ParseDuration(file.RequestTimeout)
			if err != nil {
				return Config{}, fmt.Errorf("parsing request_timeout in %s: %w", path, err)
			}
			cfg.RequestTimeout = d
		}
		if file.DatabasePath != "" {
			cfg.DatabasePath = file.DatabasePath
		}
	}

	if v := os.Getenv(EnvAnalysisURL); v != "" {
		cfg.AnalysisURL = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.DatabasePath = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.AnalysisURL == "" {
		return fmt.Errorf("analysis_url must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	return nil
}
