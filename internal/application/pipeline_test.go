package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

const stubOutput = `{"aggregate_score": 4.0, "sources": ["analysis"], "notes": "solid signal", "confidence": 0.8}`

func stubEvaluators(output string) []ports.SignalEvaluator {
	set := make([]ports.SignalEvaluator, 0, 6)
	for _, dim := range domain.AllDimensions() {
		set = append(set, &stubEvaluator{dim: dim, output: output})
	}
	return set
}

func newTestPipeline(t *testing.T, evaluators []ports.SignalEvaluator) *Pipeline {
	t.Helper()
	p, err := NewPipeline(Config{Evaluators: evaluators})
	require.NoError(t, err)
	return p
}

func TestNewPipelineRejectsBadEvaluatorSets(t *testing.T) {
	tests := []struct {
		name       string
		evaluators []ports.SignalEvaluator
		wantErr    string
	}{
		{
			name:       "empty set",
			evaluators: nil,
			wantErr:    "no evaluator registered",
		},
		{
			name:       "nil evaluator",
			evaluators: []ports.SignalEvaluator{nil},
			wantErr:    "nil evaluator",
		},
		{
			name: "duplicate dimension",
			evaluators: append(stubEvaluators(stubOutput),
				&stubEvaluator{dim: domain.DimTiming, output: stubOutput}),
			wantErr: "duplicate evaluator",
		},
		{
			name:       "missing dimension",
			evaluators: stubEvaluators(stubOutput)[:5],
			wantErr:    "no evaluator registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPipeline(Config{Evaluators: tt.evaluators})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewPipelineRejectsInvalidWeights(t *testing.T) {
	_, err := NewPipeline(Config{
		Evaluators: stubEvaluators(stubOutput),
		Weights:    domain.WeightTable{domain.DimTiming: 1.0},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid weight table")
}

func TestEvaluateHappyPath(t *testing.T) {
	p := newTestPipeline(t, stubEvaluators(stubOutput))

	result, err := p.Evaluate(context.Background(), validRecord())
	require.NoError(t, err)

	assert.Equal(t, "idea-1", result.IdeaID)
	assert.InDelta(t, 80.0, result.PatentRelevanceScore, 1e-9)
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
	assert.Empty(t, result.Flags)
	require.Len(t, result.Scores, 6)
	require.Len(t, result.NormalizedScores, 6)
	for _, dim := range domain.AllDimensions() {
		assert.InDelta(t, 80.0, result.NormalizedScores[dim], 1e-9)
		assert.InDelta(t, 4.0, result.DimensionScores[dim], 1e-9)
	}

	// All dimensions at 80 read as strengths, with the market-facing
	// dimensions also surfacing as opportunities.
	assert.Len(t, result.SWOT.Strengths, 6)
	assert.Len(t, result.SWOT.Opportunities, 2)
	assert.Empty(t, result.SWOT.Weaknesses)
	assert.Empty(t, result.SWOT.Threats)

	assert.Equal(t, 6, result.UsageSummary.AgentsExecuted)
	assert.Equal(t, 90, result.UsageSummary.TotalTokens)
	assert.False(t, result.Timestamp.IsZero())
}

func TestEvaluateTriageFailureIsFatal(t *testing.T) {
	p := newTestPipeline(t, stubEvaluators(stubOutput))

	rec := validRecord()
	rec.Description = "nope"

	result, err := p.Evaluate(context.Background(), rec)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrDescriptionTooShort)
}

func TestEvaluateAbsorbsEvaluatorFailure(t *testing.T) {
	set := stubEvaluators(stubOutput)
	for i, ev := range set {
		if ev.Dimension() == domain.DimTiming {
			set[i] = &stubEvaluator{dim: domain.DimTiming, err: errors.New("provider unavailable")}
		}
	}
	p := newTestPipeline(t, set)

	result, err := p.Evaluate(context.Background(), validRecord())
	require.NoError(t, err)

	// Timing falls back to neutral; the composite shifts by its weight.
	assert.InDelta(t, 77.0, result.PatentRelevanceScore, 1e-9)
	assert.True(t, result.Scores[domain.DimTiming].IsFallback())
	require.Len(t, result.Flags, 1)
	assert.Contains(t, result.Flags[0], "timing_agent")
	assert.Equal(t, domain.ConfidenceMedium, result.Confidence)
}

func TestEvaluateAllFallbacks(t *testing.T) {
	p := newTestPipeline(t, stubEvaluators("not json"))

	result, err := p.Evaluate(context.Background(), validRecord())
	require.NoError(t, err)

	assert.InDelta(t, 50.0, result.PatentRelevanceScore, 1e-9)
	for _, dim := range domain.AllDimensions() {
		assert.True(t, result.Scores[dim].IsFallback())
	}
	// Six validation flags plus the review tier drops to low.
	assert.Equal(t, domain.ConfidenceLow, result.Confidence)
	assert.GreaterOrEqual(t, len(result.Flags), 6)
}

func TestEvaluateReportsProgress(t *testing.T) {
	p := newTestPipeline(t, stubEvaluators(stubOutput))

	var messages []string
	_, err := p.Evaluate(context.Background(), validRecord(),
		WithProgress(func(msg string) { messages = append(messages, msg) }))
	require.NoError(t, err)

	require.Len(t, messages, 7)
	assert.Equal(t, "Triaging and normalizing input", messages[0])
	assert.Equal(t, "Gathering signals from evaluators", messages[1])
	assert.Equal(t, "Validating evaluator outputs", messages[2])
	assert.Equal(t, "Calculating patent relevance score", messages[3])
	assert.Equal(t, "Reviewing result quality", messages[4])
	assert.Equal(t, "Generating SWOT analysis", messages[5])
	assert.Equal(t, "Evaluation complete: PRS 80.0/100", messages[6])
}

func TestEvaluateWithExternalRecorder(t *testing.T) {
	p := newTestPipeline(t, stubEvaluators(stubOutput))
	rec := p.NewRecorder()

	result, err := p.Evaluate(context.Background(), validRecord(), WithRecorder(rec))
	require.NoError(t, err)

	// The caller's recorder saw the run.
	assert.Len(t, rec.Snapshot(), 6)
	assert.Equal(t, rec.Summary().TotalTokens, result.UsageSummary.TotalTokens)
}

func TestPipelineDisableMetrics(t *testing.T) {
	p, err := NewPipeline(Config{
		Evaluators:     stubEvaluators(stubOutput),
		DisableMetrics: true,
	})
	require.NoError(t, err)

	result, err := p.Evaluate(context.Background(), validRecord())
	require.NoError(t, err)

	assert.Equal(t, domain.UsageSummary{}, result.UsageSummary)
	assert.Empty(t, p.NewRecorder().Snapshot())
	// Scoring is unaffected by metrics being off.
	assert.InDelta(t, 80.0, result.PatentRelevanceScore, 1e-9)
}

func TestPipelineConcurrentEvaluations(t *testing.T) {
	p := newTestPipeline(t, stubEvaluators(stubOutput))

	results := make([]*domain.CompositeResult, 4)
	errs := make([]error, 4)
	done := make(chan int, 4)
	for i := range results {
		go func() {
			results[i], errs[i] = p.Evaluate(context.Background(), validRecord())
			done <- i
		}()
	}
	for range results {
		<-done
	}

	for i := range results {
		require.NoError(t, errs[i])
		assert.InDelta(t, 80.0, results[i].PatentRelevanceScore, 1e-9)
	}
}
