package domain

import "fmt"

// Quality review thresholds.
const (
	// HighTierMinConfidence is the minimum average confidence for the
	// high tier. The high tier additionally requires zero flags.
	HighTierMinConfidence = 0.75

	// LowTierMaxConfidence is the average confidence below which the
	// run drops to the low tier regardless of flags.
	LowTierMaxConfidence = 0.5

	// LowTierFlagLimit is the flag count above which the run drops to
	// the low tier regardless of confidence.
	LowTierFlagLimit = 2

	// overconfidenceScoreFloor is the composite score at or above which
	// a low average confidence earns an extra review flag.
	overconfidenceScoreFloor = 70.0
)

// Review assigns a confidence tier to a completed scoring run and may
// append final summary flags. It is deterministic and makes no external
// calls.
//
// Tier rules:
//   - high: average confidence >= 0.75 and no flags present
//   - low: average confidence < 0.5, or more than two flags present
//   - medium: otherwise
//
// The returned flag list is the input list plus any appended summary
// flags; the input slice is not mutated.
func Review(composite float64, scores map[Dimension]DimensionScore, flags []string) (ConfidenceTier, []string) {
	avg := averageConfidence(scores)

	reviewed := make([]string, len(flags), len(flags)+1)
	copy(reviewed, flags)

	if composite >= overconfidenceScoreFloor && avg < LowTierMaxConfidence {
		reviewed = append(reviewed, fmt.Sprintf(
			"overall confidence low (%.2f) despite high score (%.1f)", avg, composite))
	}

	switch {
	case avg < LowTierMaxConfidence || len(reviewed) > LowTierFlagLimit:
		return ConfidenceLow, reviewed
	case avg >= HighTierMinConfidence && len(reviewed) == 0:
		return ConfidenceHigh, reviewed
	default:
		return ConfidenceMedium, reviewed
	}
}

func averageConfidence(scores map[Dimension]DimensionScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, score := range scores {
		sum += score.Confidence
	}
	return sum / float64(len(scores))
}
