package application

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/guardrail"
	"github.com/ishu121992/agentic-eval/internal/metrics"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

// CollectSignals runs every evaluator concurrently against the triaged
// invention and gathers their raw outputs. Each dimension's slot is
// filled exactly once regardless of goroutine completion order, and an
// evaluator failure or timeout lands in its slot as an error rather
// than aborting the batch. The returned map is complete when the call
// returns; downstream validation decides what failures mean.
func CollectSignals(
	ctx context.Context,
	inv domain.TriagedInvention,
	evaluators map[domain.Dimension]ports.SignalEvaluator,
	rec *metrics.Recorder,
) map[domain.Dimension]guardrail.Input {
	var (
		mu      sync.Mutex
		results = make(map[domain.Dimension]guardrail.Input, len(evaluators))
	)

	g, gctx := errgroup.WithContext(ctx)
	for dim, ev := range evaluators {
		g.Go(func() error {
			rec.Begin(ev.Name())
			signal, err := ev.Evaluate(gctx, inv)
			rec.End(ev.Name(), signal.InputTokens, signal.OutputTokens)

			if err != nil {
				err = fmt.Errorf("evaluator %s failed: %w", ev.Name(), err)
			}

			mu.Lock()
			results[dim] = guardrail.Input{Agent: ev.Name(), Output: signal.Output, Err: err}
			mu.Unlock()
			return nil
		})
	}

	// Goroutines never return errors; failures stay in their slots.
	_ = g.Wait()
	return results
}
