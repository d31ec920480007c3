package application

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ishu121992/agentic-eval/internal/guardrail"
	"github.com/ishu121992/agentic-eval/internal/metrics"
)

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Addr string `yaml:"addr" validate:"required"`
}

// LLMSettings selects and configures the language model backend.
// An empty provider means no LLM is used and evaluators fall back to
// deterministic heuristics.
type LLMSettings struct {
	Provider          string  `yaml:"provider" validate:"omitempty,oneof=openai anthropic google"`
	Model             string  `yaml:"model"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" validate:"min=0"`
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"min=0"`
}

// Timeout returns the configured per-request timeout, defaulting to
// 60 seconds.
func (s LLMSettings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// APIKey resolves the provider credential from the environment.
func (s LLMSettings) APIKey() string {
	if s.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(s.APIKeyEnv)
}

// LoggingSettings configures the structured logger.
type LoggingSettings struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// AppConfig is the top-level application configuration, loaded from a
// YAML file with zero sections falling back to defaults.
type AppConfig struct {
	Server    ServerSettings   `yaml:"server"`
	LLM       LLMSettings      `yaml:"llm"`
	Guardrail guardrail.Config `yaml:"guardrail"`
	Triage    TriageConfig     `yaml:"triage"`
	Pricing   metrics.Pricing  `yaml:"pricing"`
	Logging   LoggingSettings  `yaml:"logging"`
}

// DefaultAppConfig returns the configuration used when no file is
// provided.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Server:    ServerSettings{Addr: ":8080"},
		Guardrail: guardrail.DefaultConfig(),
		Triage:    DefaultTriageConfig(),
		Pricing:   metrics.DefaultPricing(),
		Logging:   LoggingSettings{Level: "info"},
	}
}

// LoadAppConfig reads and validates a YAML configuration file,
// layering it over the defaults.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parsing config file: %w", err)
	}

	// A partial file may zero out whole sections; re-apply defaults.
	if cfg.Guardrail == (guardrail.Config{}) {
		cfg.Guardrail = guardrail.DefaultConfig()
	}
	if cfg.Pricing == (metrics.Pricing{}) {
		cfg.Pricing = metrics.DefaultPricing()
	}
	if cfg.Triage == (TriageConfig{}) {
		cfg.Triage = DefaultTriageConfig()
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if err := validator.New().Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
