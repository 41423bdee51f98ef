// Package config handles loading and managing ohip configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ohip/ohip/pkg/scoring"
)

// Config is the top-level configuration for ohip.
type Config struct {
	Scoring   ScoringConfig   `yaml:"scoring"`
	Provider  ProviderConfig  `yaml:"provider"`
	Narrative NarrativeConfig `yaml:"narrative"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ScoringConfig overrides individual scoring coefficients, keyed by the
// names scoring.Weights.Override accepts.
type ScoringConfig struct {
	Weights map[string]float64 `yaml:"weights"`
}

// ProviderConfig points at the upstream country-record provider.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"` // seconds
	Retries int    `yaml:"retries"`
}

// NarrativeConfig controls generated analysis text.
type NarrativeConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Deployment string `yaml:"deployment"`
	APIKeyEnv  string `yaml:"api_key_env"` // name of the env var holding the key
	Timeout    int    `yaml:"timeout"`     // seconds
	CacheSize  int    `yaml:"cache_size"`
}

// StorageConfig selects the blob backend for records and reports.
type StorageConfig struct {
	Backend   string `yaml:"backend"` // local, s3, gcs
	LocalPath string `yaml:"local_path"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // S3-compatible endpoint override
}

// DatabaseConfig holds the catalog connection string.
type DatabaseConfig struct {
	URL string `yaml:"url"` // postgres://... or sqlite://path
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Weights: map[string]float64{},
		},
		Provider: ProviderConfig{
			Timeout: 15,
			Retries: 1,
		},
		Narrative: NarrativeConfig{
			APIKeyEnv: "AZURE_OPENAI_API_KEY",
			Timeout:   300,
			CacheSize: 64,
		},
		Storage: StorageConfig{
			Backend:   "local",
			LocalPath: filepath.Join(CacheDir(), "store"),
		},
		Database: DatabaseConfig{
			URL: "sqlite://" + filepath.Join(CacheDir(), "catalog.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "local", "s3", "gcs":
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend != "local" && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required for backend %q", c.Storage.Backend)
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("provider.timeout must be positive, got %d", c.Provider.Timeout)
	}
	if c.Provider.Retries < 0 {
		return fmt.Errorf("provider.retries must not be negative, got %d", c.Provider.Retries)
	}
	if _, err := c.Weights(); err != nil {
		return fmt.Errorf("scoring.weights: %w", err)
	}
	return nil
}

// Weights returns the default scoring weights with the configured overrides
// applied.
func (c *Config) Weights() (scoring.Weights, error) {
	return scoring.DefaultWeights().Override(c.Scoring.Weights)
}

// ProviderTimeout returns the provider timeout as a duration.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.Timeout) * time.Second
}

// NarrativeTimeout returns the narrative generation timeout as a duration.
func (c *Config) NarrativeTimeout() time.Duration {
	return time.Duration(c.Narrative.Timeout) * time.Second
}

// FindConfigFile looks for .ohip/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".ohip", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the per-user cache directory, ~/.cache/ohip.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "ohip")
}
