package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		config   ClientConfig
		wantErr  string
	}{
		{
			name:     "missing API key",
			provider: "openai",
			config:   ClientConfig{Model: "gpt-4o-mini"},
			wantErr:  "API key is required",
		},
		{
			name:     "missing model",
			provider: "openai",
			config:   ClientConfig{APIKey: "sk-test"},
			wantErr:  "model is required",
		},
		{
			name:     "unknown provider",
			provider: "skynet",
			config:   ClientConfig{APIKey: "sk-test", Model: "t-800"},
			wantErr:  "unknown provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.provider, tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewClientKnownProviders(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic", "google"} {
		t.Run(provider, func(t *testing.T) {
			_, ok := providerFactories[provider]
			assert.True(t, ok, "provider %s not registered", provider)
		})
	}
}

func TestRegisterProviderFactory(t *testing.T) {
	mock := NewMockCoreLLM()
	RegisterProviderFactory("test-provider", func(ClientConfig) (CoreLLM, error) {
		return mock, nil
	})
	defer delete(providerFactories, "test-provider")

	client, err := NewClient("test-provider", ClientConfig{APIKey: "k", Model: "m"})
	require.NoError(t, err)

	response, tokensIn, tokensOut, err := client.Complete(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, mock.Response, response)
	assert.Equal(t, 10, tokensIn)
	assert.Equal(t, 20, tokensOut)
	assert.Equal(t, "test-model", client.GetModel())
}

// orderTagLLM appends its tag on the way in so middleware ordering is
// observable.
type orderTagLLM struct {
	next CoreLLM
	tag  string
	log  *[]string
}

func (o *orderTagLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	*o.log = append(*o.log, o.tag)
	return o.next.DoRequest(ctx, prompt, opts)
}

func (o *orderTagLLM) GetModel() string  { return o.next.GetModel() }
func (o *orderTagLLM) SetModel(m string) { o.next.SetModel(m) }

func TestNewClientMiddlewareOrder(t *testing.T) {
	RegisterProviderFactory("ordered", func(ClientConfig) (CoreLLM, error) {
		return NewMockCoreLLM(), nil
	})
	defer delete(providerFactories, "ordered")

	var log []string
	tag := func(name string) Middleware {
		return func(next CoreLLM) CoreLLM {
			return &orderTagLLM{next: next, tag: name, log: &log}
		}
	}

	client, err := NewClient("ordered", ClientConfig{
		APIKey:     "k",
		Model:      "m",
		Middleware: []Middleware{tag("outer"), tag("inner")},
	})
	require.NoError(t, err)

	_, _, _, err = client.Complete(context.Background(), "prompt", nil)
	require.NoError(t, err)

	// The first middleware in the list is the outermost wrapper.
	assert.Equal(t, []string{"outer", "inner"}, log)
}

func TestClientEstimateTokens(t *testing.T) {
	RegisterProviderFactory("est", func(ClientConfig) (CoreLLM, error) {
		return NewMockCoreLLM(), nil
	})
	defer delete(providerFactories, "est")

	client, err := NewClient("est", ClientConfig{APIKey: "k", Model: "m"})
	require.NoError(t, err)

	// Default estimator: roughly 4 characters per token, rounded up.
	n, err := client.EstimateTokens("12345678")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	custom, err := NewClient("est", ClientConfig{
		APIKey:         "k",
		Model:          "m",
		TokenEstimator: NewWordBasedTokenEstimator(1.0),
	})
	require.NoError(t, err)

	n, err = custom.EstimateTokens("three word prompt")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
