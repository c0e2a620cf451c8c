// Package config defines the application configuration model and loads it
// from an optional HCL file.
package config

import (
	"errors"
	"fmt"
)

// Log output formats accepted by the logging format setting.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Defaults applied when no config file is present or a setting is omitted.
const (
	DefaultLogDir        = "logs"
	DefaultRetentionDays = 30
	DefaultLogFormat     = FormatText
)

// Logging holds the settings for the logging subsystem.
type Logging struct {
	// Dir is the directory log segments are written to. It is created on
	// startup when missing.
	Dir string
	// RetentionDays bounds how long rotated segments are kept. Zero keeps
	// no history at all.
	RetentionDays int
	// Format selects the file sink encoding, FormatText or FormatJSON.
	Format string
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Logging Logging
}

// Default returns the configuration used when no file overrides anything.
func Default() *Config {
	return &Config{
		Logging: Logging{
			Dir:           DefaultLogDir,
			RetentionDays: DefaultRetentionDays,
			Format:        DefaultLogFormat,
		},
	}
}

// New validates cfg and returns it. All loading paths funnel through here
// so an invalid configuration can never reach the rest of the program.
func New(cfg Config) (*Config, error) {
	if cfg.Logging.Dir == "" {
		return nil, errors.New("logging dir is a required configuration field and cannot be empty")
	}
	if cfg.Logging.RetentionDays < 0 {
		return nil, fmt.Errorf("logging retention_days must be non-negative, got %d", cfg.Logging.RetentionDays)
	}
	switch cfg.Logging.Format {
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("invalid logging format %q: must be %q or %q", cfg.Logging.Format, FormatText, FormatJSON)
	}
	return &cfg, nil
}
