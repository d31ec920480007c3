package evaluators

import (
	"context"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

var _ ports.SignalEvaluator = (*StaticEvaluator)(nil)

// StaticEvaluator returns a fixed raw output for its dimension.
// It exists for tests and wiring checks where the pipeline's behavior
// matters but the evaluator's judgment does not.
type StaticEvaluator struct {
	dimension domain.Dimension
	name      string

	// Output is returned verbatim from Evaluate.
	Output string

	// Err, when set, is returned instead of the output.
	Err error

	// InputTokens and OutputTokens are the reported token proxies.
	InputTokens  int
	OutputTokens int
}

// NewStaticEvaluator builds an evaluator that always returns output.
func NewStaticEvaluator(dim domain.Dimension, output string) *StaticEvaluator {
	return &StaticEvaluator{
		dimension:    dim,
		name:         string(dim) + "_agent",
		Output:       output,
		InputTokens:  10,
		OutputTokens: 20,
	}
}

// Dimension returns the evaluation axis this evaluator covers.
func (e *StaticEvaluator) Dimension() domain.Dimension { return e.dimension }

// Name returns the evaluator's agent name.
func (e *StaticEvaluator) Name() string { return e.name }

// Evaluate returns the configured output or error.
func (e *StaticEvaluator) Evaluate(context.Context, domain.TriagedInvention) (domain.RawSignal, error) {
	if e.Err != nil {
		return domain.RawSignal{}, e.Err
	}
	return domain.RawSignal{
		Output:       e.Output,
		InputTokens:  e.InputTokens,
		OutputTokens: e.OutputTokens,
	}, nil
}
