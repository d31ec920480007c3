package domain

// Score bounds for a single dimension.
const (
	// MinRawScore and MaxRawScore bound an evaluator's raw score.
	MinRawScore = 0.0
	MaxRawScore = 5.0

	// NormalizationFactor maps a raw score [0,5] onto [0,100].
	NormalizationFactor = 100.0 / MaxRawScore

	// MinNotesLen is the minimum justification length for a score.
	MinNotesLen = 5
)

// Fallback score constants used when an evaluator's output fails
// structural validation. The sentinel source makes every substitution
// discoverable in the final result.
const (
	FallbackRawScore   = 2.5
	FallbackConfidence = 0.3
	FallbackSource     = "fallback_default"
	FallbackNotes      = "validation failed; substituted deterministic fallback score"
)

// DimensionScore is one evaluator's validated contribution to the
// composite score. Instances are produced by the validation guardrail,
// either from an evaluator's raw output or as a fallback substitution.
type DimensionScore struct {
	// Agent names the evaluator that produced this score.
	Agent string `json:"agent"`

	// RawScore is the evaluator's score on the [0,5] scale.
	RawScore float64 `json:"raw_score"`

	// NormalizedScore is RawScore mapped onto [0,100].
	// Invariant: NormalizedScore == RawScore * 20.
	NormalizedScore float64 `json:"normalized_score"`

	// Sources lists at least one non-blank evidence source.
	Sources []string `json:"sources"`

	// Notes is the evaluator's justification (min 5 characters).
	Notes string `json:"notes"`

	// Confidence is the evaluator's self-reported confidence in [0,1].
	Confidence float64 `json:"confidence"`
}

// IsFallback reports whether this score was synthesized by the
// guardrail rather than produced by an evaluator.
func (s DimensionScore) IsFallback() bool {
	for _, src := range s.Sources {
		if src == FallbackSource {
			return true
		}
	}
	return false
}

// FallbackScore returns the deterministic low-confidence score the
// guardrail substitutes when an evaluator's output cannot be validated.
func FallbackScore(agent string) DimensionScore {
	return DimensionScore{
		Agent:           agent,
		RawScore:        FallbackRawScore,
		NormalizedScore: FallbackRawScore * NormalizationFactor,
		Sources:         []string{FallbackSource},
		Notes:           FallbackNotes,
		Confidence:      FallbackConfidence,
	}
}

// RawSignal is the unvalidated output of a single evaluator invocation:
// a text blob expected to contain a JSON-encoded score, plus the token
// counts consumed producing it. Token counts are zero for evaluators
// that do not call a priced backend.
type RawSignal struct {
	// Output is the evaluator's raw textual output, possibly wrapped in
	// formatting noise the guardrail must strip.
	Output string

	// InputTokens is the token-proxy count consumed by the request.
	InputTokens int

	// OutputTokens is the token-proxy count of the response.
	OutputTokens int
}
