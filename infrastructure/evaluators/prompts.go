// Package evaluators provides the six dimension evaluators that score
// an invention for patent relevance. LLM-backed evaluators render a
// per-dimension prompt and delegate judgment to a language model;
// heuristic evaluators produce deterministic scores from the triaged
// input for offline and test use. Both emit the same JSON contract the
// guardrail validates.
package evaluators

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/ishu121992/agentic-eval/internal/domain"
)

// systemPrompt frames every evaluator request. The JSON contract it
// states is what the guardrail validates downstream.
const systemPrompt = `You are a patent analyst scoring one dimension of an invention's patent relevance.
Respond with a single JSON object and nothing else:
{"aggregate_score": <number 0-5>, "sources": [<evidence strings>], "notes": "<justification, at least one sentence>", "confidence": <number 0-1>}`

// promptBodies holds the per-dimension assessment instructions.
// Each template receives a TriagedInvention.
var promptBodies = map[domain.Dimension]string{
	domain.DimTechMomentum: `Assess the TECHNOLOGY MOMENTUM of this invention: how actively is its underlying
technology area advancing? Consider research activity, recent breakthroughs, and
the maturity curve of the techniques involved.`,

	domain.DimMarketGravity: `Assess the MARKET GRAVITY of this invention: how strong is the commercial pull
for solutions in this space? Consider market size, demand signals, and the
willingness of buyers in the listed application domains to pay.`,

	domain.DimWhiteSpace: `Assess the WHITE SPACE around this invention: how crowded is the prior art and
competitive landscape? A high score means sparse prior art and room for broad
claims; a low score means a dense, well-patented field.`,

	domain.DimStrategicLeverage: `Assess the STRATEGIC LEVERAGE of this invention: how much negotiating and
blocking power would a patent on it confer? Consider whether it covers a choke
point other players would need to license or design around.`,

	domain.DimTiming: `Assess the TIMING of this invention: is now the right moment to file? Consider
enabling technologies that recently matured, adoption curves, and whether filing
today would be too early or too late relative to the market.`,

	domain.DimRegulatoryAlignment: `Assess the REGULATORY ALIGNMENT of this invention: do current and upcoming
regulations help or hinder its adoption? Consider compliance burdens, mandated
standards, and regulatory tailwinds in the listed application domains.`,
}

// inventionBlock renders the triaged invention facts appended to every
// dimension prompt.
const inventionBlock = `

Invention:
  Core concept: {{.CoreConcept}}
  Technical keywords: {{join .TechnicalKeywords ", "}}
  Application domains: {{join .ApplicationDomains ", "}}
  Analysis depth: {{.AnalysisDepth}}`

// promptTemplate compiles the full prompt for one dimension.
func promptTemplate(dim domain.Dimension) (*template.Template, error) {
	body, ok := promptBodies[dim]
	if !ok {
		return nil, fmt.Errorf("no prompt defined for dimension %s", dim)
	}

	funcs := template.FuncMap{
		"join": strings.Join,
	}
	return template.New(string(dim)).Funcs(funcs).Parse(body + inventionBlock)
}
