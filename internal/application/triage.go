// Package application wires the pipeline stages together: triage,
// concurrent signal collection, validation, deterministic scoring,
// review, and SWOT synthesis, instrumented by a per-run metrics
// recorder.
package application

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ishu121992/agentic-eval/internal/domain"
)

// Triage defaults.
const (
	// DefaultFastDepthThreshold is the description length below which
	// analysis depth drops to "fast".
	DefaultFastDepthThreshold = 200

	// DefaultMaxKeywords caps the extracted keyword list.
	DefaultMaxKeywords = 10

	// minKeywordLen filters out short, low-signal tokens.
	minKeywordLen = 4

	// coreConceptSentences bounds the extracted concept summary.
	coreConceptSentences = 2
	coreConceptMaxLen    = 240
)

// stopwords are excluded from keyword extraction. The list is small on
// purpose: length and frequency filtering do most of the work.
var stopwords = map[string]struct{}{
	"that": {}, "this": {}, "with": {}, "from": {}, "have": {}, "been": {},
	"will": {}, "which": {}, "their": {}, "them": {}, "then": {}, "than": {},
	"into": {}, "over": {}, "such": {}, "other": {}, "each": {}, "when": {},
	"where": {}, "while": {}, "using": {}, "used": {}, "uses": {}, "also": {},
	"based": {}, "more": {}, "most": {}, "some": {}, "these": {}, "those": {},
	"system": {}, "method": {}, "device": {}, "apparatus": {},
}

// TriageConfig controls triage behavior.
type TriageConfig struct {
	// FastDepthThreshold is the description length (characters) below
	// which analysis depth is "fast".
	FastDepthThreshold int `yaml:"fast_depth_threshold"`

	// MaxKeywords caps the extracted keyword list.
	MaxKeywords int `yaml:"max_keywords"`
}

// DefaultTriageConfig returns the standard triage configuration.
func DefaultTriageConfig() TriageConfig {
	return TriageConfig{
		FastDepthThreshold: DefaultFastDepthThreshold,
		MaxKeywords:        DefaultMaxKeywords,
	}
}

// Triage normalizes a raw invention record into the canonical internal
// form: extracted keywords, a concept summary, normalized application
// domains, and the chosen analysis depth. It is deterministic, and a
// malformed record is the pipeline's only fatal error.
//
// Depth is "fast" when the description is shorter than the threshold or
// no application domains were given, "full" otherwise. Depth does not
// change which evaluators run; it is informational metadata.
func Triage(rec domain.InventionRecord, cfg TriageConfig) (domain.TriagedInvention, error) {
	if err := rec.Validate(); err != nil {
		return domain.TriagedInvention{}, fmt.Errorf("triage: invalid invention record: %w", err)
	}
	if cfg.FastDepthThreshold <= 0 {
		cfg.FastDepthThreshold = DefaultFastDepthThreshold
	}
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = DefaultMaxKeywords
	}

	description := strings.TrimSpace(rec.Description)
	domains := normalizeDomains(rec.ApplicationDomains)

	depth := domain.DepthFull
	if len(description) < cfg.FastDepthThreshold || len(domains) == 0 {
		depth = domain.DepthFast
	}

	return domain.TriagedInvention{
		IdeaID:             rec.IdeaID,
		CoreConcept:        extractCoreConcept(description),
		TechnicalKeywords:  extractKeywords(rec.Title+" "+description, cfg.MaxKeywords),
		ApplicationDomains: domains,
		AnalysisDepth:      depth,
	}, nil
}

// extractKeywords ranks tokens by frequency with an alphabetical
// tie-break, which keeps the output stable across runs.
func extractKeywords(text string, limit int) []string {
	counts := make(map[string]int)
	for _, token := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		token = strings.Trim(token, "-")
		if len(token) < minKeywordLen {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		if !strings.ContainsFunc(token, unicode.IsLetter) {
			continue
		}
		counts[token]++
	}

	keywords := make([]string, 0, len(counts))
	for token := range counts {
		keywords = append(keywords, token)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

// extractCoreConcept takes the leading sentences of the description as
// the concept summary.
func extractCoreConcept(description string) string {
	collapsed := strings.Join(strings.Fields(description), " ")

	var (
		taken int
		end   int
	)
	for i, r := range collapsed {
		if r == '.' || r == '!' || r == '?' {
			taken++
			end = i + 1
			if taken == coreConceptSentences {
				break
			}
		}
	}
	if taken == 0 {
		end = len(collapsed)
	}

	concept := strings.TrimSpace(collapsed[:end])
	if len(concept) > coreConceptMaxLen {
		concept = strings.TrimSpace(concept[:coreConceptMaxLen])
	}
	return concept
}

func normalizeDomains(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	domains := make([]string, 0, len(raw))
	for _, d := range raw {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(d)]; dup {
			continue
		}
		seen[strings.ToLower(d)] = struct{}{}
		domains = append(domains, d)
	}
	return domains
}
