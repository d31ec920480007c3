// Package ports defines the interfaces between the domain/application
// layers and the infrastructure layer. These interfaces enable
// dependency inversion and make the pipeline testable with
// deterministic doubles.
package ports

import (
	"context"

	"github.com/ishu121992/agentic-eval/internal/domain"
)

// SignalEvaluator is the opaque scoring oracle behind one evaluation
// dimension. Implementations may be LLM-backed, heuristic, or static;
// the pipeline treats them interchangeably and never inspects their
// reasoning.
//
// Evaluators must be safe for concurrent use: the signal collection
// stage invokes all six concurrently. An evaluator's failure or
// slowness must not corrupt sibling results; the collection stage
// isolates each invocation.
type SignalEvaluator interface {
	// Dimension returns the evaluation axis this evaluator scores.
	Dimension() domain.Dimension

	// Name returns a unique evaluator identifier used for metrics,
	// logging, and evidence attribution.
	Name() string

	// Evaluate produces the raw, unvalidated output for the given
	// triaged invention. The output text is expected to encode a
	// dimension score as JSON, optionally wrapped in formatting noise
	// the validation guardrail strips.
	//
	// Timeouts and retries are a policy choice of the implementation;
	// the core treats a returned error identically to unparseable
	// output and substitutes a fallback score downstream.
	Evaluate(ctx context.Context, inv domain.TriagedInvention) (domain.RawSignal, error)
}
