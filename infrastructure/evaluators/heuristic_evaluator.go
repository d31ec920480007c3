package evaluators

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

var _ ports.SignalEvaluator = (*HeuristicEvaluator)(nil)

// Heuristic scoring parameters. Scores start at the neutral midpoint
// and move with the evidence found in the triaged input.
const (
	heuristicBaseScore     = 2.5
	heuristicKeywordBonus  = 0.35
	heuristicDomainBonus   = 0.25
	heuristicFullDepthBump = 0.25

	heuristicBaseConfidence     = 0.45
	heuristicEvidenceConfidence = 0.05
	heuristicMaxConfidence      = 0.85
)

// dimensionSignals maps each dimension to the keyword stems that count
// as supporting evidence for it.
var dimensionSignals = map[domain.Dimension][]string{
	domain.DimTechMomentum: {
		"learning", "neural", "quantum", "autonomous", "model",
		"algorithm", "sensor", "battery", "genomic", "photonic",
	},
	domain.DimMarketGravity: {
		"cost", "efficiency", "consumer", "enterprise", "platform",
		"scale", "energy", "health", "payment", "logistics",
	},
	domain.DimWhiteSpace: {
		"novel", "first", "unique", "alternative", "hybrid",
		"combined", "integrated",
	},
	domain.DimStrategicLeverage: {
		"protocol", "interface", "standard", "core", "infrastructure",
		"pipeline", "architecture",
	},
	domain.DimTiming: {
		"emerging", "recent", "next-generation", "adoption", "growing",
		"real-time",
	},
	domain.DimRegulatoryAlignment: {
		"compliance", "safety", "privacy", "certified", "regulation",
		"medical", "automotive", "financial",
	},
}

// HeuristicEvaluator produces deterministic dimension scores from the
// triaged input without any external calls. It backs offline runs and
// deployments without an LLM provider, and emits the same JSON
// contract the guardrail validates.
type HeuristicEvaluator struct {
	dimension domain.Dimension
	name      string
}

// NewHeuristicEvaluator builds a deterministic evaluator for the
// given dimension.
func NewHeuristicEvaluator(dim domain.Dimension) *HeuristicEvaluator {
	return &HeuristicEvaluator{
		dimension: dim,
		name:      string(dim) + "_agent",
	}
}

// Dimension returns the evaluation axis this evaluator covers.
func (e *HeuristicEvaluator) Dimension() domain.Dimension { return e.dimension }

// Name returns the evaluator's agent name used in scores and metrics.
func (e *HeuristicEvaluator) Name() string { return e.name }

// Evaluate derives a score from keyword and domain evidence. The same
// input always yields the same output.
func (e *HeuristicEvaluator) Evaluate(_ context.Context, inv domain.TriagedInvention) (domain.RawSignal, error) {
	matched := e.matchedSignals(inv)

	score := heuristicBaseScore + float64(len(matched))*heuristicKeywordBonus
	score += float64(len(inv.ApplicationDomains)) * heuristicDomainBonus
	if inv.AnalysisDepth == domain.DepthFull {
		score += heuristicFullDepthBump
	}
	if score > domain.MaxRawScore {
		score = domain.MaxRawScore
	}

	confidence := heuristicBaseConfidence + float64(len(matched))*heuristicEvidenceConfidence
	if confidence > heuristicMaxConfidence {
		confidence = heuristicMaxConfidence
	}

	sources := make([]string, 0, len(matched)+1)
	for _, m := range matched {
		sources = append(sources, "keyword:"+m)
	}
	if len(sources) == 0 {
		sources = append(sources, "heuristic_baseline")
	}

	notes := fmt.Sprintf("Deterministic %s assessment: %d keyword signals and %d application domains.",
		e.dimension.Display(), len(matched), len(inv.ApplicationDomains))

	payload, err := json.Marshal(map[string]any{
		"aggregate_score": score,
		"sources":         sources,
		"notes":           notes,
		"confidence":      confidence,
	})
	if err != nil {
		return domain.RawSignal{}, fmt.Errorf("encoding heuristic payload: %w", err)
	}

	// Token counts are proxies so usage summaries stay meaningful
	// without a provider in the loop.
	promptProxy := len(inv.CoreConcept)/4 + len(inv.TechnicalKeywords)*2
	return domain.RawSignal{
		Output:       string(payload),
		InputTokens:  promptProxy,
		OutputTokens: (len(payload) + 3) / 4,
	}, nil
}

func (e *HeuristicEvaluator) matchedSignals(inv domain.TriagedInvention) []string {
	signals := dimensionSignals[e.dimension]

	haystack := strings.ToLower(inv.CoreConcept)
	for _, kw := range inv.TechnicalKeywords {
		haystack += " " + strings.ToLower(kw)
	}
	for _, d := range inv.ApplicationDomains {
		haystack += " " + strings.ToLower(d)
	}

	var matched []string
	for _, signal := range signals {
		if strings.Contains(haystack, signal) {
			matched = append(matched, signal)
		}
	}
	return matched
}
