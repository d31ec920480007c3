package domain

import "fmt"

// SWOT synthesis thresholds. Each statement in the output corresponds
// to exactly one threshold crossing; nothing is fabricated.
const (
	StrengthMinScore    = 70.0
	WeaknessMaxScore    = 40.0
	OpportunityMinScore = 65.0
	ThreatMaxScore      = 40.0
)

// GenerateSWOT maps normalized dimension scores onto the four SWOT
// categories using deterministic threshold rules:
//
//   - strengths: any dimension >= 70
//   - weaknesses: any dimension <= 40
//   - opportunities: market gravity or timing >= 65
//   - threats: regulatory alignment or white space <= 40
//
// Dimensions are visited in canonical order so repeated invocations
// produce identical statement ordering.
func GenerateSWOT(normalized map[Dimension]float64) SWOT {
	var swot SWOT

	for _, dim := range AllDimensions() {
		score, ok := normalized[dim]
		if !ok {
			continue
		}
		if score >= StrengthMinScore {
			swot.Strengths = append(swot.Strengths,
				fmt.Sprintf("%s: %.1f/100", dim.Display(), score))
		}
		if score <= WeaknessMaxScore {
			swot.Weaknesses = append(swot.Weaknesses,
				fmt.Sprintf("%s: %.1f/100", dim.Display(), score))
		}
	}

	if score, ok := normalized[DimMarketGravity]; ok && score >= OpportunityMinScore {
		swot.Opportunities = append(swot.Opportunities,
			fmt.Sprintf("Strong market potential (%.1f/100)", score))
	}
	if score, ok := normalized[DimTiming]; ok && score >= OpportunityMinScore {
		swot.Opportunities = append(swot.Opportunities,
			fmt.Sprintf("Favorable timing (%.1f/100)", score))
	}

	if score, ok := normalized[DimRegulatoryAlignment]; ok && score <= ThreatMaxScore {
		swot.Threats = append(swot.Threats,
			fmt.Sprintf("Regulatory friction (%.1f/100)", score))
	}
	if score, ok := normalized[DimWhiteSpace]; ok && score <= ThreatMaxScore {
		swot.Threats = append(swot.Threats,
			fmt.Sprintf("Crowded market (%.1f/100)", score))
	}

	return swot
}
