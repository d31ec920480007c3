package middleware

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

var _ ports.SignalEvaluator = (*RateLimitedEvaluator)(nil)

// RateLimitedEvaluator gates evaluations behind a shared token bucket.
// All six evaluators fire at once per run, so a shared limiter keeps
// the aggregate request rate within provider quotas.
type RateLimitedEvaluator struct {
	next    ports.SignalEvaluator
	limiter *rate.Limiter
}

// RateLimitEvaluator wraps the evaluator with the given limiter.
func RateLimitEvaluator(next ports.SignalEvaluator, limiter *rate.Limiter) *RateLimitedEvaluator {
	return &RateLimitedEvaluator{next: next, limiter: limiter}
}

// RateLimitAll wraps every evaluator with one shared limiter allowing
// requestsPerSecond sustained throughput with the given burst.
func RateLimitAll(evaluators []ports.SignalEvaluator, requestsPerSecond float64, burst int) []ports.SignalEvaluator {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	wrapped := make([]ports.SignalEvaluator, len(evaluators))
	for i, ev := range evaluators {
		wrapped[i] = RateLimitEvaluator(ev, limiter)
	}
	return wrapped
}

// Dimension returns the wrapped evaluator's dimension.
func (r *RateLimitedEvaluator) Dimension() domain.Dimension { return r.next.Dimension() }

// Name returns the wrapped evaluator's name.
func (r *RateLimitedEvaluator) Name() string { return r.next.Name() }

// Evaluate blocks until the limiter grants a token, then delegates.
func (r *RateLimitedEvaluator) Evaluate(ctx context.Context, inv domain.TriagedInvention) (domain.RawSignal, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.RawSignal{}, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Evaluate(ctx, inv)
}
