// Package domain contains pure, dependency-free domain models and the
// deterministic stages of the patent relevance scoring pipeline.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Dimension identifies one of the six fixed evaluation axes that make up
// the patent relevance score.
type Dimension string

// The fixed dimension set. Every pipeline run produces exactly one
// DimensionScore per dimension, regardless of evaluator arrival order.
const (
	DimTechMomentum        Dimension = "tech_momentum"
	DimMarketGravity       Dimension = "market_gravity"
	DimWhiteSpace          Dimension = "white_space"
	DimStrategicLeverage   Dimension = "strategic_leverage"
	DimTiming              Dimension = "timing"
	DimRegulatoryAlignment Dimension = "regulatory_alignment"
)

// AllDimensions returns the six dimensions in their canonical order.
// The returned slice is a fresh copy and safe to modify.
func AllDimensions() []Dimension {
	return []Dimension{
		DimTechMomentum,
		DimMarketGravity,
		DimWhiteSpace,
		DimStrategicLeverage,
		DimTiming,
		DimRegulatoryAlignment,
	}
}

// Display returns a human-readable form of the dimension name,
// e.g. "tech_momentum" becomes "Tech Momentum".
func (d Dimension) Display() string {
	words := strings.Split(string(d), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Minimum informativeness lengths for invention input fields.
const (
	MinTitleLen       = 5
	MinDescriptionLen = 20
)

// Validation errors for InventionRecord.
var (
	// ErrEmptyIdeaID indicates a missing invention identifier.
	ErrEmptyIdeaID = errors.New("idea_id cannot be empty")

	// ErrTitleTooShort indicates the title fails the minimum length check.
	ErrTitleTooShort = fmt.Errorf("title must be at least %d characters", MinTitleLen)

	// ErrDescriptionTooShort indicates the description fails the minimum
	// length check.
	ErrDescriptionTooShort = fmt.Errorf("description must be at least %d characters", MinDescriptionLen)
)

// Attachment is an opaque blob supplied alongside an invention.
// The core never interprets attachment contents.
type Attachment struct {
	// Name is the caller-supplied attachment name.
	Name string `json:"name"`

	// Data holds the raw attachment bytes.
	Data []byte `json:"data,omitempty"`
}

// InventionRecord is the caller-supplied description of an invention to
// be evaluated. It is the input to the Triage stage and the only place
// where a malformed payload is fatal to a run.
type InventionRecord struct {
	// IdeaID uniquely identifies the invention.
	IdeaID string `json:"idea_id"`

	// Title is a short name for the invention (min 5 characters).
	Title string `json:"title"`

	// Description is the detailed free-text description (min 20 characters).
	Description string `json:"description"`

	// TechnicalDomain is the primary technical domain, if known.
	TechnicalDomain string `json:"technical_domain,omitempty"`

	// ApplicationDomains lists the intended application areas.
	ApplicationDomains []string `json:"application_domains,omitempty"`

	// Attachments carries opaque supplementary material.
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Validate checks the shape invariants of the record.
// Whitespace-only titles and descriptions are treated as empty.
func (r InventionRecord) Validate() error {
	if strings.TrimSpace(r.IdeaID) == "" {
		return ErrEmptyIdeaID
	}
	if len(strings.TrimSpace(r.Title)) < MinTitleLen {
		return ErrTitleTooShort
	}
	if len(strings.TrimSpace(r.Description)) < MinDescriptionLen {
		return ErrDescriptionTooShort
	}
	return nil
}

// AnalysisDepth describes how deeply an invention is analyzed.
// The depth is informational metadata carried into the final result;
// it does not change which evaluators run.
type AnalysisDepth string

const (
	// DepthFast marks a shallow analysis for thin inputs.
	DepthFast AnalysisDepth = "fast"

	// DepthFull marks a complete analysis.
	DepthFull AnalysisDepth = "full"
)

// TriagedInvention is the canonical internal record produced once per
// evaluation by the Triage stage. It is immutable afterwards.
type TriagedInvention struct {
	// IdeaID carries the invention identifier forward.
	IdeaID string `json:"idea_id"`

	// CoreConcept is a short summary extracted from the description.
	CoreConcept string `json:"core_concept"`

	// TechnicalKeywords holds the extracted salient keywords.
	TechnicalKeywords []string `json:"technical_keywords"`

	// ApplicationDomains lists the application areas, normalized.
	ApplicationDomains []string `json:"application_domains"`

	// AnalysisDepth records the chosen evaluation depth.
	AnalysisDepth AnalysisDepth `json:"analysis_depth"`
}
