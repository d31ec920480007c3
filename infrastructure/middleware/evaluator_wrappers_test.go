package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

// recordingEvaluator is a minimal SignalEvaluator for wrapper tests.
type recordingEvaluator struct {
	dim   domain.Dimension
	err   error
	calls int
}

func (r *recordingEvaluator) Dimension() domain.Dimension { return r.dim }

func (r *recordingEvaluator) Name() string { return string(r.dim) + "_agent" }

func (r *recordingEvaluator) Evaluate(context.Context, domain.TriagedInvention) (domain.RawSignal, error) {
	r.calls++
	if r.err != nil {
		return domain.RawSignal{}, r.err
	}
	return domain.RawSignal{Output: "ok", InputTokens: 5, OutputTokens: 7}, nil
}

func fixtureInvention() domain.TriagedInvention {
	return domain.TriagedInvention{IdeaID: "idea-1", CoreConcept: "concept", AnalysisDepth: domain.DepthFast}
}

func TestTracedEvaluatorPassthrough(t *testing.T) {
	inner := &recordingEvaluator{dim: domain.DimTiming}
	traced := TraceEvaluator(inner, "test-service")

	assert.Equal(t, domain.DimTiming, traced.Dimension())
	assert.Equal(t, "timing_agent", traced.Name())

	signal, err := traced.Evaluate(context.Background(), fixtureInvention())
	require.NoError(t, err)
	assert.Equal(t, "ok", signal.Output)
	assert.Equal(t, 5, signal.InputTokens)
	assert.Equal(t, 1, inner.calls)
}

func TestTracedEvaluatorPropagatesError(t *testing.T) {
	inner := &recordingEvaluator{dim: domain.DimWhiteSpace, err: errors.New("provider down")}
	traced := TraceEvaluator(inner, "test-service")

	_, err := traced.Evaluate(context.Background(), fixtureInvention())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestTraceAllWrapsEveryEvaluator(t *testing.T) {
	inner := make([]ports.SignalEvaluator, 0, 6)
	for _, dim := range domain.AllDimensions() {
		inner = append(inner, &recordingEvaluator{dim: dim})
	}

	wrapped := TraceAll(inner, "test-service")

	require.Len(t, wrapped, 6)
	for i, ev := range wrapped {
		assert.IsType(t, &TracedEvaluator{}, ev)
		assert.Equal(t, inner[i].Dimension(), ev.Dimension())
	}
}

func TestRateLimitedEvaluatorPassthrough(t *testing.T) {
	inner := &recordingEvaluator{dim: domain.DimMarketGravity}
	limited := RateLimitEvaluator(inner, rate.NewLimiter(rate.Inf, 1))

	assert.Equal(t, domain.DimMarketGravity, limited.Dimension())
	assert.Equal(t, "market_gravity_agent", limited.Name())

	signal, err := limited.Evaluate(context.Background(), fixtureInvention())
	require.NoError(t, err)
	assert.Equal(t, "ok", signal.Output)
}

func TestRateLimitedEvaluatorCancelledContext(t *testing.T) {
	inner := &recordingEvaluator{dim: domain.DimTiming}
	limiter := rate.NewLimiter(1, 1)
	limited := RateLimitEvaluator(inner, limiter)

	// Drain the burst token, then cancel while waiting for the next.
	_, err := limited.Evaluate(context.Background(), fixtureInvention())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = limited.Evaluate(ctx, fixtureInvention())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, 1, inner.calls)
}

func TestRateLimitAllSharesOneLimiter(t *testing.T) {
	inner := make([]ports.SignalEvaluator, 0, 6)
	for _, dim := range domain.AllDimensions() {
		inner = append(inner, &recordingEvaluator{dim: dim})
	}

	wrapped := RateLimitAll(inner, 1, 1)
	require.Len(t, wrapped, 6)

	first, ok := wrapped[0].(*RateLimitedEvaluator)
	require.True(t, ok)
	for _, ev := range wrapped[1:] {
		limited, ok := ev.(*RateLimitedEvaluator)
		require.True(t, ok)
		assert.Same(t, first.limiter, limited.limiter)
	}
}
