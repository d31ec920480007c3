package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

var _ ports.SignalEvaluator = (*TracedEvaluator)(nil)

// TracedEvaluator wraps a SignalEvaluator so each evaluation is
// recorded as an OpenTelemetry span with the dimension, idea, and
// token counts as attributes.
type TracedEvaluator struct {
	next   ports.SignalEvaluator
	tracer trace.Tracer
}

// TraceEvaluator wraps the evaluator with tracing under the given
// service name.
func TraceEvaluator(next ports.SignalEvaluator, serviceName string) *TracedEvaluator {
	return &TracedEvaluator{
		next:   next,
		tracer: otel.Tracer(serviceName),
	}
}

// TraceAll wraps every evaluator in the slice with tracing.
func TraceAll(evaluators []ports.SignalEvaluator, serviceName string) []ports.SignalEvaluator {
	wrapped := make([]ports.SignalEvaluator, len(evaluators))
	for i, ev := range evaluators {
		wrapped[i] = TraceEvaluator(ev, serviceName)
	}
	return wrapped
}

// Dimension returns the wrapped evaluator's dimension.
func (t *TracedEvaluator) Dimension() domain.Dimension { return t.next.Dimension() }

// Name returns the wrapped evaluator's name.
func (t *TracedEvaluator) Name() string { return t.next.Name() }

// Evaluate runs the wrapped evaluator inside a span named
// "evaluator.evaluate".
func (t *TracedEvaluator) Evaluate(ctx context.Context, inv domain.TriagedInvention) (domain.RawSignal, error) {
	ctx, span := t.tracer.Start(ctx, "evaluator.evaluate",
		trace.WithAttributes(
			attribute.String("evaluator.agent", t.next.Name()),
			attribute.String("evaluator.dimension", string(t.next.Dimension())),
			attribute.String("invention.idea_id", inv.IdeaID),
		),
	)
	defer span.End()

	signal, err := t.next.Evaluate(ctx, inv)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return signal, err
	}

	span.SetAttributes(
		attribute.Int("evaluator.tokens.input", signal.InputTokens),
		attribute.Int("evaluator.tokens.output", signal.OutputTokens),
	)
	span.SetStatus(codes.Ok, "")
	return signal, nil
}
