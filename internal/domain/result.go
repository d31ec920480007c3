package domain

import "time"

// ConfidenceTier is the qualitative confidence level assigned to a
// completed evaluation by the quality review stage.
type ConfidenceTier string

const (
	ConfidenceLow    ConfidenceTier = "low"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceHigh   ConfidenceTier = "high"
)

// SWOT holds the four fixed categories of qualitative statements
// produced by the rule-based synthesis stage. Categories may be empty;
// no statement appears without a threshold crossing backing it.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// UsageSummary aggregates cost, timing and throughput metadata for one
// pipeline run, extracted from the metrics recorder at completion.
type UsageSummary struct {
	// TotalTokens is the combined input and output token-proxy count.
	TotalTokens int `json:"total_tokens"`

	// EstimatedCost is the derived cost estimate in dollars.
	EstimatedCost float64 `json:"estimated_cost"`

	// DurationSeconds is wall-clock time from pipeline start to
	// completion. Evaluators run concurrently, so this is not the sum
	// of per-evaluator durations.
	DurationSeconds float64 `json:"duration_seconds"`

	// AgentsExecuted counts evaluators that reported completion.
	AgentsExecuted int `json:"agents_executed"`
}

// CompositeResult is the terminal, immutable artifact of one pipeline
// run. Every recovered failure during the run is discoverable here,
// either in Flags or through fallback-marked evidence sources.
type CompositeResult struct {
	// IdeaID identifies the evaluated invention.
	IdeaID string `json:"idea_id"`

	// PatentRelevanceScore is the weighted composite score in [0,100].
	PatentRelevanceScore float64 `json:"patent_relevance_score"`

	// Confidence is the tier assigned by the quality review stage.
	Confidence ConfidenceTier `json:"confidence"`

	// Scores maps each dimension to its validated DimensionScore.
	Scores map[Dimension]DimensionScore `json:"scores"`

	// DimensionScores maps each dimension to its raw [0,5] score.
	DimensionScores map[Dimension]float64 `json:"dimension_scores"`

	// NormalizedScores maps each dimension to its [0,100] score.
	NormalizedScores map[Dimension]float64 `json:"normalized_scores"`

	// SWOT is the rule-based qualitative synthesis.
	SWOT SWOT `json:"swot"`

	// Flags is the ordered audit trail of quality anomalies.
	// Order of discovery is preserved; entries are never deduplicated.
	Flags []string `json:"flags"`

	// UsageSummary reports cost and timing for the run.
	UsageSummary UsageSummary `json:"usage_summary"`

	// Timestamp records when the result was assembled.
	Timestamp time.Time `json:"timestamp"`
}
