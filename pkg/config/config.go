// Package config provides unified configuration for the daedap server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (DAEDAP_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the daedap server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Engine        EngineConfig        `yaml:"engine"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Finance       FinanceConfig       `yaml:"finance"`
	Auth          AuthConfig          `yaml:"auth"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// LoggingConfig holds log level and debug category settings. The
// DAEDAP_LOG_LEVEL and DAEDAP_DEBUG environment variables override
// these.
type LoggingConfig struct {
	Level string `yaml:"level"` // default: "INFO"
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 1 MB
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
}

// EngineConfig holds conversation loop settings.
type EngineConfig struct {
	System      string        `yaml:"system"`       // default system instruction, optional
	MaxTurns    int           `yaml:"max_turns"`    // default: 6
	TurnTimeout time.Duration `yaml:"turn_timeout"` // default: 120s
	ToolTimeout time.Duration `yaml:"tool_timeout"` // default: 30s
}

// GeminiConfig holds model backend settings.
type GeminiConfig struct {
	Model      string `yaml:"model"`        // default: "gemini-2.5-flash"
	APIKey     string `yaml:"api_key"`      // required
	APIKeyFile string `yaml:"api_key_file"` // _file variant for api_key
}

// FinanceConfig holds market data tool settings.
type FinanceConfig struct {
	BaseURL string        `yaml:"base_url"` // default: public Yahoo Finance host
	Timeout time.Duration `yaml:"timeout"`  // default: 10s
}

// AuthConfig holds authentication and rate limiting settings.
// With Enabled false the ask endpoint is open, matching a private
// deployment behind a trusted proxy.
type AuthConfig struct {
	Enabled        bool            `yaml:"enabled"`         // default: false
	AllowAnonymous bool            `yaml:"allow_anonymous"` // default: false
	APIKeys        []APIKeyConfig  `yaml:"api_keys"`
	JWT            JWTConfig       `yaml:"jwt"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// APIKeyConfig declares one static API key.
type APIKeyConfig struct {
	Key     string `yaml:"key"`
	Subject string `yaml:"subject"`
	Tier    string `yaml:"tier"`
}

// JWTConfig holds JWT/OIDC validation settings. JWKSURL empty disables
// the JWT authenticator.
type JWTConfig struct {
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
	JWKSURL  string `yaml:"jwks_url"`
}

// RateLimitConfig holds per-tier request budgets.
type RateLimitConfig struct {
	Enabled    bool           `yaml:"enabled"`     // default: false
	DefaultRPM int            `yaml:"default_rpm"` // default: 60
	Tiers      map[string]int `yaml:"tiers"`       // tier name -> requests per minute
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			MaxBodySize:     1 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Engine: EngineConfig{
			MaxTurns:    6,
			TurnTimeout: 120 * time.Second,
			ToolTimeout: 30 * time.Second,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Finance: FinanceConfig{
			Timeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			RateLimit: RateLimitConfig{
				DefaultRPM: 60,
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
