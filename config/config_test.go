package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fetchkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, time.Duration(cfg.Retry.InitialBackoffDelay))
	assert.Equal(t, 16*time.Minute, time.Duration(cfg.Retry.MaxBackoffDelay))
	assert.Equal(t, 10, cfg.Pager.PageSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
retry:
  max_retries: 5
  initial_backoff_delay: 250ms
  max_backoff_delay: 30s
pager:
  order_by: created_at
  descending: true
  page_size: 25
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, time.Duration(cfg.Retry.InitialBackoffDelay))
	assert.Equal(t, 30*time.Second, time.Duration(cfg.Retry.MaxBackoffDelay))
	assert.Equal(t, "created_at", cfg.Pager.OrderBy)
	assert.True(t, cfg.Pager.Descending)
	assert.Equal(t, 25, cfg.Pager.PageSize)
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
pager:
  page_size: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Pager.PageSize)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, time.Duration(cfg.Retry.InitialBackoffDelay))
}

func TestLoad_ZeroRetriesIsLegal(t *testing.T) {
	path := writeConfig(t, `
retry:
  max_retries: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Retry.MaxRetries)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
retry:
  initial_backoff_delay: soon
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(*Config) {}, false},
		{"negative retries", func(c *Config) { c.Retry.MaxRetries = -1 }, true},
		{"zero initial delay", func(c *Config) { c.Retry.InitialBackoffDelay = 0 }, true},
		{"max below initial", func(c *Config) {
			c.Retry.InitialBackoffDelay = Duration(time.Minute)
			c.Retry.MaxBackoffDelay = Duration(time.Second)
		}, true},
		{"zero page size", func(c *Config) { c.Pager.PageSize = 0 }, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(&cfg)
			err := cfg.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOptionConversions(t *testing.T) {
	cfg := Default()
	cfg.Retry.MaxRetries = 7
	cfg.Pager.OrderBy = "seq"
	cfg.Pager.PageSize = 4

	ropts := cfg.RetryOptions()
	assert.Equal(t, 7, ropts.MaxRetries)
	assert.Equal(t, time.Second, ropts.InitialBackoffDelay)

	popts := cfg.PagerOptions()
	assert.Equal(t, "seq", popts.OrderBy)
	assert.Equal(t, 4, popts.PageSize)
}

func TestDuration_Roundtrip(t *testing.T) {
	d := Duration(90 * time.Second)
	out, err := d.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", out)
}
