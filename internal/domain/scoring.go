package domain

import (
	"fmt"
	"math"
)

// weightSumTolerance absorbs IEEE 754 rounding when checking that a
// weight table sums to 1.0.
const weightSumTolerance = 1e-9

// WeightTable maps each dimension to its share of the composite score.
// A valid table covers all six dimensions and sums to 1.0.
type WeightTable map[Dimension]float64

// DefaultWeights returns the canonical scoring weight table.
func DefaultWeights() WeightTable {
	return WeightTable{
		DimTechMomentum:        0.20,
		DimMarketGravity:       0.25,
		DimWhiteSpace:          0.20,
		DimStrategicLeverage:   0.15,
		DimTiming:              0.10,
		DimRegulatoryAlignment: 0.10,
	}
}

// Validate checks that the table covers every dimension exactly once
// and that the weights sum to 1.0.
func (w WeightTable) Validate() error {
	var sum float64
	for _, dim := range AllDimensions() {
		weight, ok := w[dim]
		if !ok {
			return fmt.Errorf("weight table missing dimension %s", dim)
		}
		if weight < 0 {
			return fmt.Errorf("weight for %s is negative: %f", dim, weight)
		}
		sum += weight
	}
	if len(w) != len(AllDimensions()) {
		return fmt.Errorf("weight table has %d entries, want %d", len(w), len(AllDimensions()))
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights sum to %f, want 1.0", sum)
	}
	return nil
}

// CompositeScore computes the weighted composite score over a complete
// set of validated dimension scores. The result is clamped to [0,100].
// The function is pure and has no failure modes given a score map that
// covers every dimension, which the validation stage guarantees via
// fallback substitution.
func CompositeScore(scores map[Dimension]DimensionScore, weights WeightTable) float64 {
	var composite float64
	for dim, weight := range weights {
		composite += scores[dim].NormalizedScore * weight
	}
	return clamp(composite, 0, 100)
}

// NormalizedScores extracts the dimension-to-normalized-score mapping
// from a validated score map.
func NormalizedScores(scores map[Dimension]DimensionScore) map[Dimension]float64 {
	normalized := make(map[Dimension]float64, len(scores))
	for dim, score := range scores {
		normalized[dim] = score.NormalizedScore
	}
	return normalized
}

// RawScores extracts the dimension-to-raw-score mapping from a
// validated score map.
func RawScores(scores map[Dimension]DimensionScore) map[Dimension]float64 {
	raw := make(map[Dimension]float64, len(scores))
	for dim, score := range scores {
		raw[dim] = score.RawScore
	}
	return raw
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
