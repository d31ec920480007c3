package llm

import "sync"

// BaseProvider provides common, thread-safe model bookkeeping for
// provider implementations.
type BaseProvider struct {
	mu    sync.RWMutex
	model string
}

// GetModel returns the model currently configured for the provider.
// It is safe for concurrent use.
func (b *BaseProvider) GetModel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

// SetModel updates the model name for the provider.
// It is safe for concurrent use.
func (b *BaseProvider) SetModel(model string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = model
}

// DefaultMaxTokens bounds response length when the caller does not
// specify max_tokens. Evaluator responses are small JSON payloads, so
// the default is deliberately modest.
const DefaultMaxTokens = 1024

// RequestOptions is the standardized set of per-request parameters
// shared across providers. Pointer fields distinguish unset values
// from explicit zeros, letting providers fall back to their defaults.
type RequestOptions struct {
	// Model is the identifier of the model to use for this request.
	Model string
	// System provides instructions guiding the model's behavior.
	System string
	// Temperature controls output randomness; nil uses the provider default.
	Temperature *float64
	// MaxTokens bounds the generated response length.
	MaxTokens int
	// TopP enables nucleus sampling; nil uses the provider default.
	TopP *float64
	// Extra holds provider-specific options outside the standard set.
	Extra map[string]any
}

// ParseRequestOptions normalizes the loosely typed opts map into
// RequestOptions, applying the provider's configured model as the
// default. Keys the common layer does not understand are preserved in
// Extra for provider-specific handling.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		Model: defaultModel,
		Extra: make(map[string]any),
	}

	for key, value := range opts {
		switch key {
		case "model":
			if s, ok := value.(string); ok && s != "" {
				options.Model = s
			}
		case "system":
			if s, ok := value.(string); ok {
				options.System = s
			}
		case "temperature":
			if f, ok := toFloat64(value); ok {
				options.Temperature = &f
			}
		case "max_tokens":
			if n, ok := toInt(value); ok && n > 0 {
				options.MaxTokens = n
			}
		case "top_p":
			if f, ok := toFloat64(value); ok {
				options.TopP = &f
			}
		default:
			options.Extra[key] = value
		}
	}

	return options
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// ClampFloat64 restricts a value to the inclusive range [min, max].
func ClampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
