package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Gemini.APIKey == "" && c.Gemini.APIKeyFile == "" {
		errs = append(errs, fmt.Errorf("gemini.api_key or gemini.api_key_file is required"))
	}

	if c.Gemini.Model == "" {
		errs = append(errs, fmt.Errorf("gemini.model is required"))
	}

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}

	if c.Engine.MaxTurns <= 0 {
		errs = append(errs, fmt.Errorf("engine.max_turns must be > 0, got %d", c.Engine.MaxTurns))
	}

	if c.Auth.Enabled && !c.Auth.AllowAnonymous && len(c.Auth.APIKeys) == 0 && c.Auth.JWT.JWKSURL == "" {
		errs = append(errs, fmt.Errorf("auth.enabled requires api_keys, jwt.jwks_url, or allow_anonymous"))
	}

	for i, k := range c.Auth.APIKeys {
		if k.Key == "" || k.Subject == "" {
			errs = append(errs, fmt.Errorf("auth.api_keys[%d] needs both key and subject", i))
		}
	}

	if c.Observability.Metrics.Enabled && c.Observability.Metrics.Path == "" {
		errs = append(errs, fmt.Errorf("observability.metrics.path is required when metrics are enabled"))
	}

	return errors.Join(errs...)
}
