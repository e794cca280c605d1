package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("default server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("default server.read_timeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.MaxBodySize != 1<<20 {
		t.Errorf("default server.max_body_size = %d, want 1 MB", cfg.Server.MaxBodySize)
	}
	if cfg.Engine.MaxTurns != 6 {
		t.Errorf("default engine.max_turns = %d, want 6", cfg.Engine.MaxTurns)
	}
	if cfg.Engine.TurnTimeout != 120*time.Second {
		t.Errorf("default engine.turn_timeout = %v, want 120s", cfg.Engine.TurnTimeout)
	}
	if cfg.Engine.ToolTimeout != 30*time.Second {
		t.Errorf("default engine.tool_timeout = %v, want 30s", cfg.Engine.ToolTimeout)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("default gemini.model = %q", cfg.Gemini.Model)
	}
	if !cfg.Observability.Metrics.Enabled || cfg.Observability.Metrics.Path != "/metrics" {
		t.Errorf("default metrics = %+v", cfg.Observability.Metrics)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
server:
  port: 9090
  read_timeout: 60s
  max_body_size: 2097152
  shutdown_timeout: 10s
engine:
  system: "Answer in Korean."
  max_turns: 4
  turn_timeout: 90s
  tool_timeout: 15s
gemini:
  model: gemini-2.5-pro
  api_key: test-key
finance:
  base_url: http://localhost:9999
  timeout: 5s
observability:
  metrics:
    enabled: true
    path: /internal/metrics
`
	tmpFile := writeTemp(t, "config-*.yaml", yamlContent)

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("server.read_timeout = %v, want 60s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.MaxBodySize != 2097152 {
		t.Errorf("server.max_body_size = %d, want 2 MB", cfg.Server.MaxBodySize)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("server.shutdown_timeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Engine.System != "Answer in Korean." {
		t.Errorf("engine.system = %q", cfg.Engine.System)
	}
	if cfg.Engine.MaxTurns != 4 {
		t.Errorf("engine.max_turns = %d, want 4", cfg.Engine.MaxTurns)
	}
	if cfg.Engine.TurnTimeout != 90*time.Second {
		t.Errorf("engine.turn_timeout = %v, want 90s", cfg.Engine.TurnTimeout)
	}
	if cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("gemini.model = %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.APIKey != "test-key" {
		t.Errorf("gemini.api_key = %q", cfg.Gemini.APIKey)
	}
	if cfg.Finance.BaseURL != "http://localhost:9999" {
		t.Errorf("finance.base_url = %q", cfg.Finance.BaseURL)
	}
	if cfg.Finance.Timeout != 5*time.Second {
		t.Errorf("finance.timeout = %v, want 5s", cfg.Finance.Timeout)
	}
	if cfg.Observability.Metrics.Path != "/internal/metrics" {
		t.Errorf("metrics.path = %q", cfg.Observability.Metrics.Path)
	}
}

func TestEnvOverride(t *testing.T) {
	yamlContent := `
server:
  port: 9090
gemini:
  model: yaml-model
  api_key: yaml-key
`
	tmpFile := writeTemp(t, "config-*.yaml", yamlContent)

	t.Setenv("DAEDAP_PORT", "7070")
	t.Setenv("DAEDAP_MODEL", "env-model")
	t.Setenv("DAEDAP_API_KEY", "env-key")
	t.Setenv("DAEDAP_MAX_TURNS", "3")
	t.Setenv("DAEDAP_TURN_TIMEOUT", "45s")

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Gemini.Model != "env-model" {
		t.Errorf("gemini.model = %q, want env override", cfg.Gemini.Model)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("gemini.api_key = %q, want env override", cfg.Gemini.APIKey)
	}
	if cfg.Engine.MaxTurns != 3 {
		t.Errorf("engine.max_turns = %d, want env override 3", cfg.Engine.MaxTurns)
	}
	if cfg.Engine.TurnTimeout != 45*time.Second {
		t.Errorf("engine.turn_timeout = %v, want env override 45s", cfg.Engine.TurnTimeout)
	}
}

func TestGeminiAPIKeyEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "bare-env-key")

	cfg, err := Load(noConfigFile(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gemini.APIKey != "bare-env-key" {
		t.Errorf("gemini.api_key = %q, want GEMINI_API_KEY value", cfg.Gemini.APIKey)
	}
}

func TestFileReference(t *testing.T) {
	secretFile := writeTemp(t, "secret-*.txt", "  sk-from-file-123  \n")

	yamlContent := `
gemini:
  api_key_file: ` + secretFile + `
`
	tmpFile := writeTemp(t, "config-*.yaml", yamlContent)

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Gemini.APIKey != "sk-from-file-123" {
		t.Errorf("gemini.api_key = %q, want \"sk-from-file-123\" (from file, trimmed)", cfg.Gemini.APIKey)
	}
}

func TestFileReferenceDoesNotOverrideValue(t *testing.T) {
	secretFile := writeTemp(t, "secret-*.txt", "file-key")

	yamlContent := `
gemini:
  api_key: direct-key
  api_key_file: ` + secretFile + `
`
	tmpFile := writeTemp(t, "config-*.yaml", yamlContent)

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gemini.APIKey != "direct-key" {
		t.Errorf("gemini.api_key = %q, want direct value to win", cfg.Gemini.APIKey)
	}
}

func TestValidateMissingAPIKey(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing api key")
	} else if !strings.Contains(err.Error(), "gemini.api_key") {
		t.Errorf("error = %v, want gemini.api_key mention", err)
	}
}

func TestValidateBadPort(t *testing.T) {
	cfg := Defaults()
	cfg.Gemini.APIKey = "k"
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for port 0")
	}
}

func TestValidateBadMaxTurns(t *testing.T) {
	cfg := Defaults()
	cfg.Gemini.APIKey = "k"
	cfg.Engine.MaxTurns = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative max_turns")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for explicit missing config file")
	}
}

// noConfigFile returns an explicit path to a minimal config file that
// only satisfies validation through env vars set by the caller.
func noConfigFile(t *testing.T) string {
	t.Helper()
	return writeTemp(t, "config-*.yaml", "{}\n")
}

func writeTemp(t *testing.T, pattern, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing temp file: %v", err)
	}
	return f.Name()
}
