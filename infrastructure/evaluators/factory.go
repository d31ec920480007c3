package evaluators

import (
	"fmt"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

// NewLLMSet builds one LLM-backed evaluator per dimension, all sharing
// the same client and configuration.
func NewLLMSet(client ports.LLMClient, config LLMConfig) ([]ports.SignalEvaluator, error) {
	dims := domain.AllDimensions()
	set := make([]ports.SignalEvaluator, 0, len(dims))
	for _, dim := range dims {
		ev, err := NewLLMEvaluator(dim, client, config)
		if err != nil {
			return nil, fmt.Errorf("building evaluator for %s: %w", dim, err)
		}
		set = append(set, ev)
	}
	return set, nil
}

// NewHeuristicSet builds one deterministic evaluator per dimension for
// offline operation.
func NewHeuristicSet() []ports.SignalEvaluator {
	dims := domain.AllDimensions()
	set := make([]ports.SignalEvaluator, 0, len(dims))
	for _, dim := range dims {
		set = append(set, NewHeuristicEvaluator(dim))
	}
	return set
}
