package evaluators

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"text/template"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

var _ ports.SignalEvaluator = (*LLMEvaluator)(nil)

// Default LLM parameters for evaluator requests. Low temperature keeps
// scoring consistent across runs.
const (
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 512
)

// LLMConfig holds the tunable parameters for an LLM-backed evaluator.
type LLMConfig struct {
	// Temperature controls randomness in scoring (0.0-1.0).
	Temperature float64 `validate:"min=0,max=1"`

	// MaxTokens limits the length of the evaluator's response.
	MaxTokens int `validate:"min=50,max=2000"`
}

// DefaultLLMConfig returns the standard evaluator parameters.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{Temperature: DefaultTemperature, MaxTokens: DefaultMaxTokens}
}

// LLMEvaluator scores one dimension by rendering a prompt from the
// triaged invention and delegating judgment to a language model.
// The evaluator is stateless after construction and safe for
// concurrent use.
type LLMEvaluator struct {
	dimension domain.Dimension
	name      string
	client    ports.LLMClient
	config    LLMConfig
	prompt    *template.Template
}

// NewLLMEvaluator builds an evaluator for the given dimension backed
// by the provided client.
func NewLLMEvaluator(dim domain.Dimension, client ports.LLMClient, config LLMConfig) (*LLMEvaluator, error) {
	if client == nil {
		return nil, fmt.Errorf("LLM client cannot be nil")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid evaluator configuration for %s: %w", dim, err)
	}

	prompt, err := promptTemplate(dim)
	if err != nil {
		return nil, err
	}

	return &LLMEvaluator{
		dimension: dim,
		name:      string(dim) + "_agent",
		client:    client,
		config:    config,
		prompt:    prompt,
	}, nil
}

// Dimension returns the evaluation axis this evaluator covers.
func (e *LLMEvaluator) Dimension() domain.Dimension { return e.dimension }

// Name returns the evaluator's agent name used in scores and metrics.
func (e *LLMEvaluator) Name() string { return e.name }

// Evaluate renders the dimension prompt and requests a judgment from
// the model. The raw response is returned unparsed; validation happens
// downstream in the guardrail.
func (e *LLMEvaluator) Evaluate(ctx context.Context, inv domain.TriagedInvention) (domain.RawSignal, error) {
	var buf bytes.Buffer
	if err := e.prompt.Execute(&buf, inv); err != nil {
		return domain.RawSignal{}, fmt.Errorf("rendering prompt for %s: %w", e.dimension, err)
	}

	response, tokensIn, tokensOut, err := e.client.Complete(ctx, buf.String(), map[string]any{
		"system":      systemPrompt,
		"temperature": e.config.Temperature,
		"max_tokens":  e.config.MaxTokens,
	})
	if err != nil {
		return domain.RawSignal{}, err
	}

	return domain.RawSignal{
		Output:       response,
		InputTokens:  tokensIn,
		OutputTokens: tokensOut,
	}, nil
}
