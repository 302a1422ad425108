// Package config defines the configuration structures for the siteseeker
// service and loads them from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the service.
type Config struct {
	LogLevel   string           `json:"log_level" yaml:"log_level"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
	Language   LanguageConfig   `json:"language" yaml:"language"`
	Geocoder   GeocoderConfig   `json:"geocoder" yaml:"geocoder"`
	Responder  ResponderConfig  `json:"responder" yaml:"responder"`
	HTTPClient HTTPClientConfig `json:"http_client" yaml:"http_client"`
	MCP        MCPConfig        `json:"mcp" yaml:"mcp"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address string `json:"address" yaml:"address"`
}

// CatalogConfig points at the site catalog source.
type CatalogConfig struct {
	Path string `json:"path" yaml:"path"`
}

// LanguageConfig controls language detection and translation gating.
type LanguageConfig struct {
	Default   string   `json:"default" yaml:"default"`     // BCP 47 tag, e.g. "en"
	Alternate string   `json:"alternate" yaml:"alternate"` // e.g. "es"
	// Indicators overrides the built-in indicator word list for the
	// alternate language.
	Indicators []string `json:"indicators,omitempty" yaml:"indicators,omitempty"`
	Threshold  float64  `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

// GeocoderConfig configures the postal-code geocoding collaborator.
type GeocoderConfig struct {
	Provider        string `json:"provider" yaml:"provider"` // Available options: opencage
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	APIKey          string `json:"api_key,omitempty" yaml:"api_key"`
	CountryCode     string `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	TimeoutMs       int    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	CacheSize       int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds,omitempty" yaml:"cache_ttl_seconds,omitempty"`
}

// ResponderConfig configures the generative responder collaborator.
type ResponderConfig struct {
	Provider        string  `json:"provider" yaml:"provider"` // Available options: openai
	APIKey          string  `json:"api_key,omitempty" yaml:"api_key"`
	BaseURL         string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model           string  `json:"model" yaml:"model"`
	Temperature     float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens       int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	MaxPromptTokens int     `json:"max_prompt_tokens,omitempty" yaml:"max_prompt_tokens,omitempty"`
	TimeoutMs       int     `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	SystemPrompt    string  `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
}

// HTTPClientConfig tunes the shared outbound HTTP client.
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
}

// MCPConfig enables the MCP tool surface.
type MCPConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Default returns a configuration with working defaults for everything
// except collaborator credentials.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Address: ":5001",
		},
		Catalog: CatalogConfig{
			Path: "data/sites.json",
		},
		Language: LanguageConfig{
			Default:   "en",
			Alternate: "es",
			Threshold: 0.15,
		},
		Geocoder: GeocoderConfig{
			Provider:        "opencage",
			CountryCode:     "us",
			TimeoutMs:       3000,
			CacheSize:       256,
			CacheTTLSeconds: 3600,
		},
		Responder: ResponderConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			Temperature: 0.7,
			MaxTokens:   500,
			TimeoutMs:   20000,
		},
		HTTPClient: HTTPClientConfig{
			TimeoutMs:    3000,
			Retry:        1,
			BackoffMinMs: 100,
			BackoffMaxMs: 800,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults. API keys left
// empty in the file are filled from OPENCAGE_API_KEY and OPENAI_API_KEY.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv fills collaborator keys from the environment when unset.
func (c *Config) ApplyEnv() {
	if c.Geocoder.APIKey == "" {
		c.Geocoder.APIKey = os.Getenv("OPENCAGE_API_KEY")
	}
	if c.Responder.APIKey == "" {
		c.Responder.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}
