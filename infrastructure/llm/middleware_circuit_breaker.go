package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a
// request without calling the provider.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState is the current state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed passes requests through normally.
	CircuitClosed CircuitState = iota

	// CircuitOpen rejects requests until the cooldown expires.
	CircuitOpen

	// CircuitHalfOpen lets a single request probe for recovery.
	CircuitHalfOpen
)

// circuitBreakerLLM opens after consecutive provider failures so a
// struggling backend gets room to recover instead of a stampede of
// evaluator retries.
type circuitBreakerLLM struct {
	next CoreLLM

	mu          sync.Mutex
	state       CircuitState
	failures    int
	maxFailures int
	cooldown    time.Duration
	lastFailure time.Time
}

// CircuitBreakerMiddleware creates middleware that opens the circuit
// after maxFailures consecutive errors and keeps it open for the
// cooldown before probing with a single request.
func CircuitBreakerMiddleware(maxFailures int, cooldown time.Duration) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &circuitBreakerLLM{
			next:        next,
			maxFailures: maxFailures,
			cooldown:    cooldown,
		}
	}
}

// DoRequest fails fast with ErrCircuitOpen while the circuit is open,
// otherwise forwards the request and tracks the outcome.
func (c *circuitBreakerLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	if err := c.before(); err != nil {
		return "", 0, 0, err
	}

	response, tokensIn, tokensOut, err := c.next.DoRequest(ctx, prompt, opts)
	c.after(err)
	if err != nil {
		return "", 0, 0, err
	}
	return response, tokensIn, tokensOut, nil
}

func (c *circuitBreakerLLM) before() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CircuitOpen {
		if time.Since(c.lastFailure) < c.cooldown {
			return ErrCircuitOpen
		}
		c.state = CircuitHalfOpen
	}
	return nil
}

func (c *circuitBreakerLLM) after(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.failures++
		c.lastFailure = time.Now()
		if c.state == CircuitHalfOpen || c.failures >= c.maxFailures {
			c.state = CircuitOpen
		}
		return
	}
	c.failures = 0
	c.state = CircuitClosed
}

// State returns the current circuit state.
func (c *circuitBreakerLLM) State() CircuitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// GetModel returns the model name from the wrapped implementation.
func (c *circuitBreakerLLM) GetModel() string { return c.next.GetModel() }

// SetModel updates the model name in the wrapped implementation.
func (c *circuitBreakerLLM) SetModel(m string) { c.next.SetModel(m) }
