package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/guardrail"
	"github.com/ishu121992/agentic-eval/internal/metrics"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

// Config assembles a Pipeline. Evaluators must cover each dimension
// exactly once; the remaining fields default sensibly when zero.
type Config struct {
	Evaluators []ports.SignalEvaluator
	Guardrail  guardrail.Config
	Weights    domain.WeightTable
	Triage     TriageConfig
	Pricing    metrics.Pricing
	Logger     *slog.Logger
	Collector  ports.MetricsCollector

	// DisableMetrics puts per-run recorders in no-op mode. Scoring,
	// validation and synthesis are unaffected.
	DisableMetrics bool
}

// Pipeline orchestrates one evaluation flow: triage, concurrent signal
// collection, validation with fallback substitution, deterministic
// composite scoring, quality review, and SWOT synthesis. A Pipeline is
// immutable after construction and safe for concurrent runs.
type Pipeline struct {
	evaluators     map[domain.Dimension]ports.SignalEvaluator
	validator      *guardrail.Validator
	weights        domain.WeightTable
	triageCfg      TriageConfig
	pricing        metrics.Pricing
	logger         *slog.Logger
	collector      ports.MetricsCollector
	disableMetrics bool
}

// NewPipeline validates the configuration and builds a Pipeline.
func NewPipeline(cfg Config) (*Pipeline, error) {
	evaluators := make(map[domain.Dimension]ports.SignalEvaluator, len(cfg.Evaluators))
	for _, ev := range cfg.Evaluators {
		if ev == nil {
			return nil, fmt.Errorf("nil evaluator in configuration")
		}
		dim := ev.Dimension()
		if _, dup := evaluators[dim]; dup {
			return nil, fmt.Errorf("duplicate evaluator for dimension %s", dim)
		}
		evaluators[dim] = ev
	}
	for _, dim := range domain.AllDimensions() {
		if _, ok := evaluators[dim]; !ok {
			return nil, fmt.Errorf("no evaluator registered for dimension %s", dim)
		}
	}

	guardCfg := cfg.Guardrail
	if guardCfg == (guardrail.Config{}) {
		guardCfg = guardrail.DefaultConfig()
	}
	validator, err := guardrail.New(guardCfg)
	if err != nil {
		return nil, err
	}

	weights := cfg.Weights
	if weights == nil {
		weights = domain.DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weight table: %w", err)
	}

	triageCfg := cfg.Triage
	if triageCfg == (TriageConfig{}) {
		triageCfg = DefaultTriageConfig()
	}

	pricing := cfg.Pricing
	if pricing == (metrics.Pricing{}) {
		pricing = metrics.DefaultPricing()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		evaluators:     evaluators,
		validator:      validator,
		weights:        weights,
		triageCfg:      triageCfg,
		pricing:        pricing,
		logger:         logger,
		collector:      cfg.Collector,
		disableMetrics: cfg.DisableMetrics,
	}, nil
}

// NewRecorder builds a per-run metrics recorder carrying the
// pipeline's logger, pricing and collector. Callers who want to watch
// a run in flight create one here and pass it via WithRecorder.
func (p *Pipeline) NewRecorder() *metrics.Recorder {
	opts := []metrics.Option{
		metrics.WithLogger(p.logger),
		metrics.WithPricing(p.pricing),
	}
	if p.collector != nil {
		opts = append(opts, metrics.WithCollector(p.collector))
	}
	if p.disableMetrics {
		opts = append(opts, metrics.Disabled())
	}
	return metrics.NewRecorder(opts...)
}

type runOptions struct {
	recorder *metrics.Recorder
	progress func(string)
}

// RunOption customizes a single Evaluate call.
type RunOption func(*runOptions)

// WithRecorder supplies an externally owned metrics recorder, letting
// callers observe per-agent state while the run is in flight.
func WithRecorder(rec *metrics.Recorder) RunOption {
	return func(o *runOptions) { o.recorder = rec }
}

// WithProgress registers a callback invoked with a human-readable
// message as each pipeline stage begins.
func WithProgress(fn func(string)) RunOption {
	return func(o *runOptions) { o.progress = fn }
}

// Evaluate runs the full pipeline for one invention record. Only a
// triage failure is fatal; every downstream problem is absorbed into
// fallback scores and quality flags so a submitted run always produces
// a composite result.
func (p *Pipeline) Evaluate(ctx context.Context, rec domain.InventionRecord, opts ...RunOption) (*domain.CompositeResult, error) {
	var options runOptions
	for _, opt := range opts {
		opt(&options)
	}

	recorder := options.recorder
	if recorder == nil {
		recorder = p.NewRecorder()
	}

	progress := options.progress
	if progress == nil {
		progress = func(string) {}
	}

	logger := p.logger.With("idea_id", rec.IdeaID)

	progress("Triaging and normalizing input")
	inv, err := Triage(rec, p.triageCfg)
	if err != nil {
		logger.Error("triage rejected record", "error", err)
		return nil, err
	}
	logger.Info("triage complete",
		"depth", inv.AnalysisDepth,
		"keywords", len(inv.TechnicalKeywords),
		"domains", len(inv.ApplicationDomains))

	progress("Gathering signals from evaluators")
	raw := CollectSignals(ctx, inv, p.evaluators, recorder)

	progress("Validating evaluator outputs")
	scores, flags := p.validator.ValidateBatch(raw)
	recorder.RecordQuality(flags...)
	for _, dim := range domain.AllDimensions() {
		s := scores[dim]
		recorder.RecordScore(dim, s.NormalizedScore, s.Confidence, len(s.Sources))
	}

	progress("Calculating patent relevance score")
	composite := domain.CompositeScore(scores, p.weights)

	progress("Reviewing result quality")
	tier, finalFlags := domain.Review(composite, scores, flags)
	recorder.RecordQuality(finalFlags[len(flags):]...)

	progress("Generating SWOT analysis")
	normalized := domain.NormalizedScores(scores)
	swot := domain.GenerateSWOT(normalized)

	result := &domain.CompositeResult{
		IdeaID:               rec.IdeaID,
		PatentRelevanceScore: composite,
		Confidence:           tier,
		Scores:               scores,
		DimensionScores:      domain.RawScores(scores),
		NormalizedScores:     normalized,
		SWOT:                 swot,
		Flags:                finalFlags,
		UsageSummary:         recorder.Summary(),
		Timestamp:            time.Now().UTC(),
	}

	logger.Info("evaluation complete",
		"patent_relevance_score", result.PatentRelevanceScore,
		"confidence", result.Confidence,
		"flags", len(result.Flags))
	progress(fmt.Sprintf("Evaluation complete: PRS %.1f/100", result.PatentRelevanceScore))

	return result, nil
}
