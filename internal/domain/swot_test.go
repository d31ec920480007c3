package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uniformNormalized(score float64) map[Dimension]float64 {
	normalized := make(map[Dimension]float64)
	for _, dim := range AllDimensions() {
		normalized[dim] = score
	}
	return normalized
}

func TestGenerateSWOT(t *testing.T) {
	tests := []struct {
		name              string
		normalized        map[Dimension]float64
		wantStrengths     int
		wantWeaknesses    int
		wantOpportunities int
		wantThreats       int
	}{
		{
			name:              "uniform high scores",
			normalized:        uniformNormalized(85),
			wantStrengths:     6,
			wantOpportunities: 2,
		},
		{
			name:           "uniform low scores",
			normalized:     uniformNormalized(35),
			wantWeaknesses: 6,
			wantThreats:    2,
		},
		{
			name:       "mid-band produces nothing",
			normalized: uniformNormalized(55),
		},
		{
			name: "mixed profile",
			normalized: map[Dimension]float64{
				DimTechMomentum:        90,
				DimMarketGravity:       68,
				DimWhiteSpace:          30,
				DimStrategicLeverage:   50,
				DimTiming:              66,
				DimRegulatoryAlignment: 40,
			},
			wantStrengths:     1, // tech momentum
			wantWeaknesses:    2, // white space, regulatory alignment
			wantOpportunities: 2, // market gravity, timing
			wantThreats:       2, // regulatory friction, crowded market
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			swot := GenerateSWOT(tt.normalized)
			assert.Len(t, swot.Strengths, tt.wantStrengths)
			assert.Len(t, swot.Weaknesses, tt.wantWeaknesses)
			assert.Len(t, swot.Opportunities, tt.wantOpportunities)
			assert.Len(t, swot.Threats, tt.wantThreats)
		})
	}
}

func TestGenerateSWOTStatementText(t *testing.T) {
	swot := GenerateSWOT(map[Dimension]float64{
		DimTechMomentum:        80,
		DimMarketGravity:       70,
		DimWhiteSpace:          20,
		DimStrategicLeverage:   50,
		DimTiming:              50,
		DimRegulatoryAlignment: 50,
	})

	assert.Contains(t, swot.Strengths, "Tech Momentum: 80.0/100")
	assert.Contains(t, swot.Opportunities, "Strong market potential (70.0/100)")
	assert.Contains(t, swot.Threats, "Crowded market (20.0/100)")
}

func TestGenerateSWOTDeterministicOrder(t *testing.T) {
	normalized := uniformNormalized(30)
	first := GenerateSWOT(normalized)
	for range 5 {
		assert.Equal(t, first, GenerateSWOT(normalized))
	}
}
