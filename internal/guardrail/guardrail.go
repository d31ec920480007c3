// Package guardrail validates raw evaluator output before downstream
// processing. It is the first line of defense against malformed or
// out-of-policy results: structural problems yield a typed failure the
// validation stage maps onto a deterministic fallback score, while
// policy anomalies (such as low confidence) yield quality flags and
// never block a run.
package guardrail

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ishu121992/agentic-eval/internal/domain"
)

// Reason classifies why an evaluator's output failed structural
// validation. Each malformation produces a distinct reason so the
// audit trail names the exact defect.
type Reason string

const (
	// ReasonInvalidJSON marks output with no parseable JSON object.
	ReasonInvalidJSON Reason = "invalid_json"

	// ReasonMissingScore marks output without an aggregate_score field.
	ReasonMissingScore Reason = "missing_score"

	// ReasonScoreOutOfRange marks a raw score outside [0,5].
	ReasonScoreOutOfRange Reason = "score_out_of_range"

	// ReasonNoSources marks an empty or all-blank evidence list.
	ReasonNoSources Reason = "no_sources"

	// ReasonNotesTooShort marks a justification below the minimum length.
	ReasonNotesTooShort Reason = "notes_too_short"

	// ReasonConfidenceOutOfRange marks a confidence outside [0,1].
	ReasonConfidenceOutOfRange Reason = "confidence_out_of_range"

	// ReasonEvaluatorError marks an evaluator invocation that itself
	// failed or produced no output. Treated identically to unparseable
	// output.
	ReasonEvaluatorError Reason = "evaluator_error"
)

// Failure is the typed result of a structural validation failure.
// It is a value, not an error: failed validation is expected, frequent
// control flow that the validation stage recovers from locally.
type Failure struct {
	// Agent names the evaluator whose output failed.
	Agent string

	// Reason classifies the defect.
	Reason Reason

	// Detail describes the defect for the audit trail.
	Detail string
}

// String formats the failure for flags and logs.
func (f Failure) String() string {
	return fmt.Sprintf("%s: %s (%s)", f.Agent, f.Detail, f.Reason)
}

// Config holds the guardrail's policy thresholds.
type Config struct {
	// MinConfidence is the soft minimum confidence. Scores below it
	// remain structurally valid but are flagged as low-confidence.
	MinConfidence float64 `yaml:"min_confidence" validate:"min=0,max=1"`

	// AvgConfidenceFloor triggers a batch anomaly flag when the average
	// confidence across all dimensions falls below it.
	AvgConfidenceFloor float64 `yaml:"avg_confidence_floor" validate:"min=0,max=1"`

	// HighScoreFloor and LowConfidenceCeiling together define the
	// overconfidence anomaly: normalized score >= HighScoreFloor while
	// confidence < LowConfidenceCeiling.
	HighScoreFloor       float64 `yaml:"high_score_floor" validate:"min=0,max=100"`
	LowConfidenceCeiling float64 `yaml:"low_confidence_ceiling" validate:"min=0,max=1"`
}

// DefaultConfig returns the standard guardrail policy.
func DefaultConfig() Config {
	return Config{
		MinConfidence:        0.3,
		AvgConfidenceFloor:   0.3,
		HighScoreFloor:       80.0,
		LowConfidenceCeiling: 0.5,
	}
}

// Validator sanitizes and validates evaluator output.
// It is stateless after construction and safe for concurrent use.
type Validator struct {
	config Config
}

// New creates a Validator with the given policy configuration.
func New(config Config) (*Validator, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("guardrail configuration invalid: %w", err)
	}
	return &Validator{config: config}, nil
}

// Result is the outcome of validating one evaluator's output: either a
// validated score, or a typed failure. LowConfidence is a policy flag
// set when the score is valid but its confidence is below the soft
// minimum; it never accompanies a failure.
type Result struct {
	Score         domain.DimensionScore
	Failure       *Failure
	LowConfidence bool
}

// rawPayload is the JSON shape evaluators are expected to emit.
// Pointer fields distinguish absent values from zero values.
type rawPayload struct {
	AggregateScore *float64 `json:"aggregate_score"`
	Sources        []string `json:"sources"`
	Notes          string   `json:"notes"`
	Confidence     *float64 `json:"confidence"`
}

// Validate sanitizes and validates a single evaluator's raw output.
// The output may be wrapped in markdown fences or surrounding prose;
// sanitization strips the wrapping before parsing.
func (v *Validator) Validate(rawOutput, agent string) Result {
	jsonStr := ExtractJSON(rawOutput)
	if jsonStr == "" {
		return failed(agent, ReasonInvalidJSON, "no JSON object found in output")
	}

	var payload rawPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return failed(agent, ReasonInvalidJSON, fmt.Sprintf("malformed JSON: %v", err))
	}

	if payload.AggregateScore == nil {
		return failed(agent, ReasonMissingScore, "aggregate_score field missing")
	}
	score := *payload.AggregateScore
	if score < domain.MinRawScore || score > domain.MaxRawScore {
		return failed(agent, ReasonScoreOutOfRange,
			fmt.Sprintf("score %.2f outside [%.0f,%.0f]", score, domain.MinRawScore, domain.MaxRawScore))
	}

	sources := make([]string, 0, len(payload.Sources))
	for _, s := range payload.Sources {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sources = append(sources, trimmed)
		}
	}
	if len(sources) == 0 {
		return failed(agent, ReasonNoSources, "no non-blank evidence sources provided")
	}

	notes := strings.TrimSpace(payload.Notes)
	if len(notes) < domain.MinNotesLen {
		return failed(agent, ReasonNotesTooShort,
			fmt.Sprintf("notes length %d below minimum %d", len(notes), domain.MinNotesLen))
	}

	// Absent confidence defaults to 0.5, matching the evaluator contract.
	confidence := 0.5
	if payload.Confidence != nil {
		confidence = *payload.Confidence
	}
	if confidence < 0 || confidence > 1 {
		return failed(agent, ReasonConfidenceOutOfRange,
			fmt.Sprintf("confidence %.2f outside [0,1]", confidence))
	}

	return Result{
		Score: domain.DimensionScore{
			Agent:           agent,
			RawScore:        score,
			NormalizedScore: score * domain.NormalizationFactor,
			Sources:         sources,
			Notes:           notes,
			Confidence:      confidence,
		},
		LowConfidence: confidence < v.config.MinConfidence,
	}
}

func failed(agent string, reason Reason, detail string) Result {
	return Result{Failure: &Failure{Agent: agent, Reason: reason, Detail: detail}}
}

// ExtractJSON pulls a JSON object out of a response that may contain
// markdown code fences or text surrounding the object. Returns an
// empty string when no balanced object is found.
func ExtractJSON(response string) string {
	response = strings.TrimSpace(response)

	if idx := strings.Index(response, "```json"); idx != -1 {
		rest := response[idx+7:]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	if idx := strings.Index(response, "```"); idx != -1 {
		rest := response[idx+3:]
		// Skip a language identifier on the fence line.
		if nl := strings.Index(rest, "\n"); nl != -1 {
			if candidate := strings.TrimSpace(rest[:nl]); candidate == "" || !strings.HasPrefix(candidate, "{") {
				rest = rest[nl+1:]
			}
		}
		if end := strings.Index(rest, "```"); end != -1 {
			candidate := strings.TrimSpace(rest[:end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	// Scan for the matching closing brace, honoring strings and escapes.
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return response[start : i+1]
				}
			}
		}
	}
	return ""
}
