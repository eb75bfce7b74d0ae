// Package config provides YAML-loadable configuration for fetchkit's retry
// and pagination defaults. Configuration is an immutable value handed to
// call sites, not mutable global state, so tests can override per call
// without cross-test leakage.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360/fetchkit/errors"
	"github.com/c360/fetchkit/pager"
	"github.com/c360/fetchkit/retry"
)

// Duration wraps time.Duration with YAML support for strings like "1s" or
// "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// RetryConfig configures the retry engine.
type RetryConfig struct {
	MaxRetries          int      `yaml:"max_retries"`
	InitialBackoffDelay Duration `yaml:"initial_backoff_delay"`
	MaxBackoffDelay     Duration `yaml:"max_backoff_delay"`
}

// PagerConfig configures pagination.
type PagerConfig struct {
	OrderBy    string `yaml:"order_by"`
	Descending bool   `yaml:"descending"`
	PageSize   int    `yaml:"page_size"`
}

// Config is the complete fetchkit configuration.
type Config struct {
	Retry RetryConfig `yaml:"retry"`
	Pager PagerConfig `yaml:"pager"`
}

// Default returns the configuration matching the library defaults.
func Default() Config {
	r := retry.DefaultOptions()
	p := pager.DefaultOptions()
	return Config{
		Retry: RetryConfig{
			MaxRetries:          r.MaxRetries,
			InitialBackoffDelay: Duration(r.InitialBackoffDelay),
			MaxBackoffDelay:     Duration(r.MaxBackoffDelay),
		},
		Pager: PagerConfig{
			PageSize: p.PageSize,
		},
	}
}

// Load reads a YAML configuration file, fills omitted fields from Default,
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "config", "Load", "read file")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapInvalid(err, "config", "Load", "parse YAML")
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields with library defaults. Explicit
// zero values that are meaningful (MaxRetries: 0) survive because only
// fields that cannot legally be zero are touched.
func (c *Config) ApplyDefaults() {
	def := Default()
	if c.Retry.InitialBackoffDelay == 0 {
		c.Retry.InitialBackoffDelay = def.Retry.InitialBackoffDelay
	}
	if c.Retry.MaxBackoffDelay == 0 {
		c.Retry.MaxBackoffDelay = def.Retry.MaxBackoffDelay
	}
	if c.Pager.PageSize == 0 {
		c.Pager.PageSize = def.Pager.PageSize
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Retry.MaxRetries < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("max_retries %d", c.Retry.MaxRetries),
			"config", "Validate", "max_retries cannot be negative")
	}
	if c.Retry.InitialBackoffDelay <= 0 {
		return errors.WrapInvalid(
			fmt.Errorf("initial_backoff_delay %v", time.Duration(c.Retry.InitialBackoffDelay)),
			"config", "Validate", "initial_backoff_delay must be positive")
	}
	if c.Retry.MaxBackoffDelay < c.Retry.InitialBackoffDelay {
		return errors.WrapInvalid(
			fmt.Errorf("max %v < initial %v",
				time.Duration(c.Retry.MaxBackoffDelay), time.Duration(c.Retry.InitialBackoffDelay)),
			"config", "Validate", "max_backoff_delay must be >= initial_backoff_delay")
	}
	if c.Pager.PageSize <= 0 {
		return errors.WrapInvalid(
			fmt.Errorf("page_size %d", c.Pager.PageSize),
			"config", "Validate", "page_size must be positive")
	}
	return nil
}

// RetryOptions converts the retry section into engine options.
func (c *Config) RetryOptions() retry.Options {
	return retry.Options{
		MaxRetries:          c.Retry.MaxRetries,
		InitialBackoffDelay: time.Duration(c.Retry.InitialBackoffDelay),
		MaxBackoffDelay:     time.Duration(c.Retry.MaxBackoffDelay),
	}
}

// PagerOptions converts the pager section into pager options.
func (c *Config) PagerOptions() pager.Options {
	return pager.Options{
		OrderBy:    c.Pager.OrderBy,
		Descending: c.Pager.Descending,
		PageSize:   c.Pager.PageSize,
	}
}
