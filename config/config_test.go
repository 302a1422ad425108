package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":5001", cfg.Server.Address)
	assert.Equal(t, "en", cfg.Language.Default)
	assert.Equal(t, "es", cfg.Language.Alternate)
	assert.Equal(t, 0.15, cfg.Language.Threshold)
	assert.Equal(t, "opencage", cfg.Geocoder.Provider)
	assert.Equal(t, "us", cfg.Geocoder.CountryCode)
	assert.Equal(t, "openai", cfg.Responder.Provider)
	assert.Equal(t, 0.7, cfg.Responder.Temperature)
}

func TestLoad(t *testing.T) {
	doc := `
log_level: debug
server:
  address: ":8080"
catalog:
  path: testdata/sites.json
language:
  alternate: es
  threshold: 0.2
geocoder:
  api_key: file-key
responder:
  model: gpt-4o-mini
mcp:
  enabled: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Explicit values override defaults, unset fields keep them.
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "testdata/sites.json", cfg.Catalog.Path)
	assert.Equal(t, 0.2, cfg.Language.Threshold)
	assert.Equal(t, "en", cfg.Language.Default)
	assert.Equal(t, "file-key", cfg.Geocoder.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Responder.Model)
	assert.Equal(t, 0.7, cfg.Responder.Temperature)
	assert.True(t, cfg.MCP.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("OPENCAGE_API_KEY", "env-geo-key")
	t.Setenv("OPENAI_API_KEY", "env-llm-key")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "env-geo-key", cfg.Geocoder.APIKey)
	assert.Equal(t, "env-llm-key", cfg.Responder.APIKey)

	// Keys set in the file are not overridden.
	cfg = Default()
	cfg.Geocoder.APIKey = "file-key"
	cfg.ApplyEnv()
	assert.Equal(t, "file-key", cfg.Geocoder.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.Server.Address = "" }},
		{"empty catalog path", func(c *Config) { c.Catalog.Path = "" }},
		{"zero threshold", func(c *Config) { c.Language.Threshold = 0 }},
		{"threshold above one", func(c *Config) { c.Language.Threshold = 1.5 }},
		{"bad default tag", func(c *Config) { c.Language.Default = "no such tag" }},
		{"bad alternate tag", func(c *Config) { c.Language.Alternate = "no such tag" }},
		{"unknown geocoder", func(c *Config) { c.Geocoder.Provider = "nominatim" }},
		{"unknown responder", func(c *Config) { c.Responder.Provider = "anthropic" }},
		{"temperature out of range", func(c *Config) { c.Responder.Temperature = 2.5 }},
		{"negative timeout", func(c *Config) { c.Geocoder.TimeoutMs = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateEmptyProvidersAllowed(t *testing.T) {
	cfg := Default()
	cfg.Geocoder.Provider = ""
	cfg.Responder.Provider = ""
	assert.NoError(t, cfg.Validate())
}
