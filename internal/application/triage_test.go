package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishu121992/agentic-eval/internal/domain"
)

func validRecord() domain.InventionRecord {
	return domain.InventionRecord{
		IdeaID: "idea-1",
		Title:  "Adaptive battery controller",
		Description: "A battery controller that adapts charging curves using onboard sensors. " +
			"The controller predicts degradation from temperature and cycle history, extending " +
			"usable battery life in electric vehicles and grid storage installations.",
		ApplicationDomains: []string{"automotive", "energy storage"},
	}
}

func TestTriageRejectsInvalidRecord(t *testing.T) {
	rec := validRecord()
	rec.Description = "too short"

	_, err := Triage(rec, DefaultTriageConfig())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDescriptionTooShort)
	assert.Contains(t, err.Error(), "triage")
}

func TestTriageDepth(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.InventionRecord)
		want   domain.AnalysisDepth
	}{
		{
			name:   "long description with domains is full",
			mutate: func(*domain.InventionRecord) {},
			want:   domain.DepthFull,
		},
		{
			name: "short description is fast",
			mutate: func(r *domain.InventionRecord) {
				r.Description = "A compact widget that folds itself for storage."
			},
			want: domain.DepthFast,
		},
		{
			name: "no application domains is fast",
			mutate: func(r *domain.InventionRecord) {
				r.ApplicationDomains = nil
			},
			want: domain.DepthFast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			inv, err := Triage(rec, DefaultTriageConfig())
			require.NoError(t, err)
			assert.Equal(t, tt.want, inv.AnalysisDepth)
		})
	}
}

func TestTriageKeywordExtraction(t *testing.T) {
	inv, err := Triage(validRecord(), DefaultTriageConfig())
	require.NoError(t, err)

	require.NotEmpty(t, inv.TechnicalKeywords)
	assert.LessOrEqual(t, len(inv.TechnicalKeywords), DefaultMaxKeywords)

	// "battery" appears three times and should rank first.
	assert.Equal(t, "battery", inv.TechnicalKeywords[0])

	for _, kw := range inv.TechnicalKeywords {
		assert.GreaterOrEqual(t, len(kw), minKeywordLen)
		assert.Equal(t, strings.ToLower(kw), kw)
		assert.NotContains(t, stopwords, kw)
	}
}

func TestTriageIsDeterministic(t *testing.T) {
	first, err := Triage(validRecord(), DefaultTriageConfig())
	require.NoError(t, err)

	for range 5 {
		again, err := Triage(validRecord(), DefaultTriageConfig())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTriageCoreConcept(t *testing.T) {
	inv, err := Triage(validRecord(), DefaultTriageConfig())
	require.NoError(t, err)

	// First two sentences, bounded in length.
	assert.True(t, strings.HasPrefix(inv.CoreConcept, "A battery controller"))
	assert.LessOrEqual(t, len(inv.CoreConcept), coreConceptMaxLen)
}

func TestTriageNormalizesDomains(t *testing.T) {
	rec := validRecord()
	rec.ApplicationDomains = []string{" automotive ", "Automotive", "", "energy"}

	inv, err := Triage(rec, DefaultTriageConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"automotive", "energy"}, inv.ApplicationDomains)
}

func TestTriageKeywordLimit(t *testing.T) {
	cfg := TriageConfig{FastDepthThreshold: 10, MaxKeywords: 3}

	inv, err := Triage(validRecord(), cfg)
	require.NoError(t, err)

	assert.Len(t, inv.TechnicalKeywords, 3)
}
