package application

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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppConfigDefaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultAppConfig(), cfg)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout())
}

func TestLoadAppConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
llm:
  provider: anthropic
  model: claude-3-5-sonnet-20241022
  api_key_env: ANTHROPIC_API_KEY
  timeout_seconds: 30
  requests_per_second: 2
logging:
  level: debug
triage:
  fast_depth_threshold: 500
  max_keywords: 5
`)

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout())
	assert.Equal(t, 2.0, cfg.LLM.RequestsPerSecond)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 500, cfg.Triage.FastDepthThreshold)
	assert.Equal(t, 5, cfg.Triage.MaxKeywords)

	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultAppConfig().Guardrail, cfg.Guardrail)
	assert.Equal(t, DefaultAppConfig().Pricing, cfg.Pricing)
}

func TestLoadAppConfigRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: skynet\n")

	_, err := LoadAppConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadAppConfigRejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: verbose\n")

	_, err := LoadAppConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadAppConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map\n")

	_, err := LoadAppConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLLMSettingsAPIKey(t *testing.T) {
	t.Setenv("TEST_PROVIDER_KEY", "sk-test")

	s := LLMSettings{APIKeyEnv: "TEST_PROVIDER_KEY"}
	assert.Equal(t, "sk-test", s.APIKey())

	assert.Empty(t, LLMSettings{}.APIKey())
}
