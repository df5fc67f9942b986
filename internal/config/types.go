// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gmksplit/gmksplit/internal/reconcile"
	"github.com/gmksplit/gmksplit/internal/splitter"
	"github.com/gmksplit/gmksplit/pkg/gmfile/container"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config holds the conversion defaults.
	Config struct {
		// ConvertLineEndings writes code with \n and restores \r\n on compose.
		ConvertLineEndings bool `json:"convert_line_endings" mapstructure:"convert_line_endings"`
		// OmitDisabledFields leaves out switched-off field groups.
		OmitDisabledFields bool `json:"omit_disabled_fields" mapstructure:"omit_disabled_fields"`
		// PreserveIDs names the identifier preservation policy.
		PreserveIDs string `json:"preserve_ids" mapstructure:"preserve_ids"`
		// Compression names the body compression of written archives.
		Compression string `json:"compression" mapstructure:"compression"`
		// LogLevel is the minimum level of log messages.
		LogLevel string `json:"log_level" mapstructure:"log_level"`
	}

	// InvalidConfigError is returned when a loaded value cannot be used.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ConvertLineEndings: true,
		OmitDisabledFields: true,
		PreserveIDs:        string(reconcile.PolicyObjects),
		Compression:        container.CompressionZstd.String(),
		LogLevel:           log.InfoLevel.String(),
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := reconcile.ParsePolicy(c.PreserveIDs); err != nil {
		errs = append(errs, fmt.Errorf("preserve_ids: %w", err))
	}
	if _, err := container.ParseCompression(c.Compression); err != nil {
		errs = append(errs, fmt.Errorf("compression: %w", err))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// SplitterOptions converts the configuration into conversion options.
func (c *Config) SplitterOptions() (splitter.Options, error) {
	if err := c.Validate(); err != nil {
		return splitter.Options{}, err
	}
	policy, _ := reconcile.ParsePolicy(c.PreserveIDs)
	compression, _ := container.ParseCompression(c.Compression)
	return splitter.Options{
		ConvertLineEndings: c.ConvertLineEndings,
		OmitDisabledFields: c.OmitDisabledFields,
		Policy:             policy,
		Compression:        compression,
	}, nil
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
