// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Run behavior
	BatchSize        int     `json:"batch_size,omitempty" validate:"gte=0,lte=10000"`
	SampleSize       int     `json:"sample_size,omitempty" validate:"gte=0,lte=1000"` // dry-run sample
	ProfileThreshold float64 `json:"profile_threshold,omitempty" validate:"gte=0,lte=100"`
	StorageTimeout   int     `json:"storage_timeout_seconds,omitempty" validate:"gte=0,lte=600"`

	// Dictionary overrides; empty means the embedded dictionary
	DictTech     string `json:"dict_tech,omitempty"`
	DictSoft     string `json:"dict_soft,omitempty"`
	DictProfiles string `json:"dict_profiles,omitempty"`

	// Logging
	LogFile string `json:"log_file,omitempty"`
	Verbose bool   `json:"verbose,omitempty"`
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are handled by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			f := invalid[0]
			return fmt.Errorf("config error: %q fails %q validation", f.Field(), f.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	// The three dictionary sources replace the embedded one together.
	overrides := 0
	for _, p := range []string{c.DictTech, c.DictSoft, c.DictProfiles} {
		if p != "" {
			overrides++
		}
	}
	if overrides != 0 && overrides != 3 {
		return fmt.Errorf("config error: 'dict_tech', 'dict_soft' and 'dict_profiles' must be set together")
	}

	for _, p := range []string{c.DictTech, c.DictSoft, c.DictProfiles} {
		if p != "" {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				return fmt.Errorf("config error: dictionary file not found: %s", p)
			}
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DictTech == "" {
		result.DictTech = defaults.DictTech
	}
	if result.DictSoft == "" {
		result.DictSoft = defaults.DictSoft
	}
	if result.DictProfiles == "" {
		result.DictProfiles = defaults.DictProfiles
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}

	// Int fields: use default if zero
	if result.BatchSize == 0 {
		result.BatchSize = defaults.BatchSize
	}
	if result.SampleSize == 0 {
		result.SampleSize = defaults.SampleSize
	}
	if result.StorageTimeout == 0 {
		result.StorageTimeout = defaults.StorageTimeout
	}

	// Float fields
	if result.ProfileThreshold == 0 {
		result.ProfileThreshold = defaults.ProfileThreshold
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
