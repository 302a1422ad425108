package config

import (
	"fmt"

	"golang.org/x/text/language"
)

// Validate checks the configuration for values that would misconfigure the
// pipeline at runtime. Collaborator credentials are not required here: the
// service degrades per component when a collaborator is absent.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path must not be empty")
	}
	if c.Language.Threshold <= 0 || c.Language.Threshold > 1 {
		return fmt.Errorf("language.threshold must be in (0, 1], got %v", c.Language.Threshold)
	}
	if _, err := language.Parse(c.Language.Default); err != nil {
		return fmt.Errorf("language.default %q: %w", c.Language.Default, err)
	}
	if _, err := language.Parse(c.Language.Alternate); err != nil {
		return fmt.Errorf("language.alternate %q: %w", c.Language.Alternate, err)
	}
	switch c.Geocoder.Provider {
	case "", "opencage":
	default:
		return fmt.Errorf("geocoder.provider %q is not supported", c.Geocoder.Provider)
	}
	switch c.Responder.Provider {
	case "", "openai":
	default:
		return fmt.Errorf("responder.provider %q is not supported", c.Responder.Provider)
	}
	if c.Responder.Temperature < 0 || c.Responder.Temperature > 2 {
		return fmt.Errorf("responder.temperature must be in [0, 2], got %v", c.Responder.Temperature)
	}
	if c.Geocoder.TimeoutMs < 0 || c.Responder.TimeoutMs < 0 || c.HTTPClient.TimeoutMs < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}
