package ports

import (
	"context"
	"time"
)

// LLMClient defines the interface for interacting with language model
// providers. Implementations handle provider-specific details like
// authentication, request formatting, and response parsing.
type LLMClient interface {
	// Complete sends a completion request and returns the generated
	// text together with the input and output token counts reported
	// by the provider.
	//
	// The options map allows provider flexibility without changing the
	// interface. Common options:
	//   - "temperature": float64 (0.0-1.0)
	//   - "max_tokens": int
	//   - "model": string
	Complete(ctx context.Context, prompt string, options map[string]any) (response string, tokensIn, tokensOut int, err error)

	// EstimateTokens calculates an approximate token count for a text.
	// Used for cost estimation when exact counts are unavailable.
	EstimateTokens(text string) (int, error)

	// GetModel returns the model identifier used by this client.
	GetModel() string
}

// MetricsCollector defines the interface for exporting operational
// metrics. Implementations integrate with observability platforms such
// as Prometheus. Collection is a pure side channel: a nil or no-op
// collector changes no pipeline behavior.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)
}
