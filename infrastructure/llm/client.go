// Package llm provides a unified interface for the language model
// providers that back the signal evaluators, with built-in support for
// rate limiting, retries, metrics, and tracing.
//
// The package abstracts multiple providers (OpenAI, Anthropic, Google)
// behind a common interface while adding operational cross-cutting
// concerns through a middleware pattern. Evaluators can switch
// providers or gain resilience features without changing their code.
//
// Basic usage:
//
//	client, err := llm.NewClient("openai", llm.ClientConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o-mini",
//	})
//	response, in, out, err := client.Complete(ctx, "Assess this invention...", nil)
//
// With middleware:
//
//	client, err := llm.NewClient("anthropic", llm.ClientConfig{
//	    APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	    Model:  "claude-3-5-sonnet-20241022",
//	    Middleware: []llm.Middleware{
//	        llm.RateLimitMiddleware(10, 20),
//	        llm.RetryMiddleware(3, time.Second),
//	        llm.MetricsMiddleware(collector),
//	    },
//	})
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ishu121992/agentic-eval/internal/ports"
)

// CoreLLM is the minimal interface a provider must implement. The
// middleware system wraps any conforming implementation.
type CoreLLM interface {
	// DoRequest sends a prompt to the provider and returns the response
	// text together with input and output token counts. The opts map
	// carries provider-specific parameters such as temperature,
	// max_tokens, or a per-request model override.
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the currently configured model name.
	GetModel() string

	// SetModel updates the model for subsequent requests.
	SetModel(model string)
}

// TokenEstimator provides pluggable token estimation strategies for
// cost estimation when exact counts are unavailable before a request.
type TokenEstimator interface {
	// EstimateTokens returns an approximate token count for the text.
	EstimateTokens(text string) int
}

// ClientConfig holds all options for creating an LLM client.
type ClientConfig struct {
	// APIKey authenticates requests to the provider.
	APIKey string

	// Model specifies which model to use for requests.
	Model string

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the default.
	BaseURL string

	// Timeout bounds individual requests. Zero means no timeout.
	Timeout time.Duration

	// TokenEstimator provides custom token counting logic.
	// If nil, a simple character-based estimator is used.
	TokenEstimator TokenEstimator

	// Middleware is applied in the order specified, the first entry
	// being the outermost wrapper.
	Middleware []Middleware
}

// Middleware wraps a CoreLLM to add cross-cutting functionality such
// as rate limiting, retries, metrics, or tracing without modifying
// provider logic.
type Middleware func(CoreLLM) CoreLLM

// Client implements ports.LLMClient by wrapping a provider-specific
// CoreLLM with the configured middleware chain.
type Client struct {
	core      CoreLLM
	estimator TokenEstimator
}

var _ ports.LLMClient = (*Client)(nil)

// NewClient assembles the middleware chain around the requested
// provider and validates configuration.
func NewClient(providerType string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	factory, ok := providerFactories[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", providerType)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	// Apply middleware in reverse order so the first is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	estimator := config.TokenEstimator
	if estimator == nil {
		estimator = &SimpleTokenEstimator{}
	}

	return &Client{core: core, estimator: estimator}, nil
}

// Complete sends a prompt through the middleware chain and returns the
// response text with the provider-reported token counts.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	return c.core.DoRequest(ctx, prompt, options)
}

// EstimateTokens returns an approximate token count for the text using
// the configured estimator.
func (c *Client) EstimateTokens(text string) (int, error) {
	return c.estimator.EstimateTokens(text), nil
}

// GetModel returns the model name from the underlying provider.
func (c *Client) GetModel() string { return c.core.GetModel() }

// SimpleTokenEstimator provides basic character-based estimation,
// assuming roughly 4 characters per token. Works reasonably well for
// English text.
type SimpleTokenEstimator struct{}

// EstimateTokens returns an approximate token count using the
// 4-characters-per-token heuristic.
func (e *SimpleTokenEstimator) EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// ProviderFactory creates a CoreLLM implementation from configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

// Provider factory registry. Providers register themselves in init so
// custom providers can be added without touching client code.
var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a custom provider factory.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	providerFactories[providerType] = factory
}
