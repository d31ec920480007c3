package guardrail

import (
	"fmt"

	"github.com/ishu121992/agentic-eval/internal/domain"
)

// Input is one dimension's raw material for batch validation: the
// evaluator's identity, its textual output, and any invocation error.
// A timed-out or failed evaluator carries Err and is treated exactly
// like unparseable output.
type Input struct {
	Agent  string
	Output string
	Err    error
}

// ValidateBatch validates the raw outputs of all six dimensions for one
// run. Every structural failure is recovered by substituting the
// deterministic fallback score, so the returned map always contains
// exactly one validated score per dimension. Each anomaly, whether a
// substitution, low per-dimension confidence, low average confidence,
// or a high score paired with low confidence, appends one quality flag
// in canonical dimension order followed by the cross-cutting checks.
//
// ValidateBatch never fails: fallback substitution always yields a
// structurally valid score.
func (v *Validator) ValidateBatch(inputs map[domain.Dimension]Input) (map[domain.Dimension]domain.DimensionScore, []string) {
	scores := make(map[domain.Dimension]domain.DimensionScore, len(domain.AllDimensions()))
	var flags []string

	for _, dim := range domain.AllDimensions() {
		input, ok := inputs[dim]
		if !ok {
			input = Input{Agent: string(dim)}
			input.Err = fmt.Errorf("no output produced for dimension %s", dim)
		}

		var result Result
		switch {
		case input.Err != nil:
			result = failed(input.Agent, ReasonEvaluatorError, input.Err.Error())
		default:
			result = v.Validate(input.Output, input.Agent)
		}

		if result.Failure != nil {
			scores[dim] = domain.FallbackScore(input.Agent)
			flags = append(flags, fmt.Sprintf(
				"VALIDATION_ERROR in %s (%s): %s; fallback substituted with confidence %.2f",
				input.Agent, dim, result.Failure.Detail, domain.FallbackConfidence))
			continue
		}

		scores[dim] = result.Score
		if result.LowConfidence {
			flags = append(flags, fmt.Sprintf(
				"%s: confidence %.2f below minimum %.2f",
				dim, result.Score.Confidence, v.config.MinConfidence))
		}
	}

	flags = append(flags, v.crossCuttingFlags(scores)...)
	return scores, flags
}

// crossCuttingFlags evaluates batch-wide anomalies over the validated
// score map: systemically low confidence and overconfident high scores.
func (v *Validator) crossCuttingFlags(scores map[domain.Dimension]domain.DimensionScore) []string {
	var flags []string

	var sum float64
	for _, score := range scores {
		sum += score.Confidence
	}
	if len(scores) > 0 {
		avg := sum / float64(len(scores))
		if avg < v.config.AvgConfidenceFloor {
			flags = append(flags, fmt.Sprintf(
				"average confidence %.2f across dimensions is very low (< %.2f)",
				avg, v.config.AvgConfidenceFloor))
		}
	}

	for _, dim := range domain.AllDimensions() {
		score, ok := scores[dim]
		if !ok {
			continue
		}
		if score.NormalizedScore >= v.config.HighScoreFloor && score.Confidence < v.config.LowConfidenceCeiling {
			flags = append(flags, fmt.Sprintf(
				"%s: high score %.1f with low confidence %.2f",
				dim, score.NormalizedScore, score.Confidence))
		}
	}

	return flags
}
