package app

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string `validate:"required"`

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	// LogWriter receives log output. Defaults to the App's output writer.
	LogWriter io.Writer `validate:"-"`

	// ControlPort enables the control server when positive.
	ControlPort int `validate:"gte=0,lte=65535"`
	// ResultsDir overrides the manifest and the saved preference.
	ResultsDir string
	// DryRun replaces the configured analyzer with an input check.
	DryRun bool
	// PrefsPath overrides the default preferences file.
	PrefsPath string
}

var configValidate = validator.New()

// NewConfig fills in defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if err := configValidate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
