// Package metrics provides the per-run metrics recorder: a stateful
// accumulator of evaluator timing, token counts, cost estimates, and
// quality flags. The recorder is a pure side channel; disabling it
// changes no other component's behavior.
package metrics

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

// Pricing is the per-unit cost table used to derive cost estimates.
// Input and output units are priced separately.
type Pricing struct {
	// InputPer1K is the dollar cost per 1000 input tokens.
	InputPer1K float64 `yaml:"input_per_1k"`

	// OutputPer1K is the dollar cost per 1000 output tokens.
	OutputPer1K float64 `yaml:"output_per_1k"`
}

// DefaultPricing returns the standard pricing table.
func DefaultPricing() Pricing {
	return Pricing{InputPer1K: 0.015, OutputPer1K: 0.06}
}

// AgentState describes an evaluator invocation's lifecycle phase.
type AgentState string

const (
	StateRunning   AgentState = "running"
	StateCompleted AgentState = "completed"
)

// AgentMetrics captures one evaluator invocation. Records are owned by
// the Recorder and never mutated after the evaluator completes.
type AgentMetrics struct {
	// Agent names the evaluator.
	Agent string `json:"agent"`

	// StartTime and EndTime bound the invocation.
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`

	// Duration is EndTime - StartTime, zero while running.
	Duration time.Duration `json:"duration"`

	// InputTokens and OutputTokens are the token-proxy counts.
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// CostEstimate is derived from the pricing table.
	CostEstimate float64 `json:"cost_estimate"`

	// State is the invocation's lifecycle phase.
	State AgentState `json:"state"`
}

// Recorder accumulates metrics for exactly one pipeline run. Construct
// one per run and discard it after extracting the usage summary;
// scoping the recorder to a run keeps concurrent runs isolated.
//
// Begin, End, RecordQuality and Snapshot are safe for concurrent use:
// the signal collection stage calls them from six goroutines at once.
type Recorder struct {
	mu        sync.Mutex
	enabled   bool
	logger    *slog.Logger
	collector ports.MetricsCollector
	pricing   Pricing
	start     time.Time
	agents    map[string]*AgentMetrics
	flags     []string
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used for lifecycle events and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

// WithCollector forwards recorded values to an external metrics
// collector, e.g. Prometheus.
func WithCollector(collector ports.MetricsCollector) Option {
	return func(r *Recorder) { r.collector = collector }
}

// WithPricing overrides the default pricing table.
func WithPricing(pricing Pricing) Option {
	return func(r *Recorder) { r.pricing = pricing }
}

// Disabled puts the recorder in no-op mode. All methods become inert
// and Summary reports zeros; no other component behavior changes.
func Disabled() Option {
	return func(r *Recorder) { r.enabled = false }
}

// NewRecorder creates a recorder for one pipeline run. Wall-clock
// duration in the usage summary is measured from this call.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		enabled: true,
		logger:  slog.Default(),
		pricing: DefaultPricing(),
		start:   time.Now(),
		agents:  make(map[string]*AgentMetrics),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Begin marks the start of an evaluator invocation. A duplicate Begin
// for an agent still running logs a warning and is otherwise a no-op.
func (r *Recorder) Begin(agent string) {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.agents[agent]; ok && existing.State == StateRunning {
		r.logger.Warn("duplicate begin for running agent", "agent", agent)
		return
	}
	r.agents[agent] = &AgentMetrics{
		Agent:     agent,
		StartTime: time.Now(),
		State:     StateRunning,
	}
	r.logger.Debug("agent started", "agent", agent)
}

// End marks the completion of an evaluator invocation, computing its
// duration and cost estimate. End without a matching Begin logs a
// warning and is otherwise a no-op.
func (r *Recorder) End(agent string, inputTokens, outputTokens int) {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.agents[agent]
	if !ok || m.State != StateRunning {
		r.logger.Warn("end without matching begin", "agent", agent)
		return
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.InputTokens = inputTokens
	m.OutputTokens = outputTokens
	m.CostEstimate = (float64(inputTokens)*r.pricing.InputPer1K +
		float64(outputTokens)*r.pricing.OutputPer1K) / 1000
	m.State = StateCompleted

	r.logger.Debug("agent completed",
		"agent", agent,
		"duration", m.Duration,
		"tokens", inputTokens+outputTokens,
		"cost", m.CostEstimate)

	if r.collector != nil {
		labels := map[string]string{"agent": agent}
		r.collector.RecordLatency("evaluator", m.Duration, labels)
		r.collector.RecordCounter("evaluator_tokens_used", float64(inputTokens+outputTokens), labels)
	}
}

// RecordScore logs a generated dimension score. This is a pure side
// effect: no recorder state changes and no control flow depends on it.
func (r *Recorder) RecordScore(dim domain.Dimension, normalized, confidence float64, sourceCount int) {
	if !r.enabled {
		return
	}
	r.logger.Info("dimension scored",
		"dimension", dim,
		"normalized", normalized,
		"confidence", confidence,
		"sources", sourceCount)

	if r.collector != nil {
		r.collector.RecordGauge("dimension_normalized_score", normalized,
			map[string]string{"dimension": string(dim)})
	}
}

// RecordQuality appends flags to the run's flag list, preserving
// discovery order for the audit trail.
func (r *Recorder) RecordQuality(flags ...string) {
	if !r.enabled || len(flags) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags = append(r.flags, flags...)
}

// Flags returns a copy of the accumulated quality flags.
func (r *Recorder) Flags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.flags))
	copy(out, r.flags)
	return out
}

// Snapshot returns a point-in-time copy of per-agent metrics, keyed by
// agent name. Used by the HTTP status endpoint to report in-flight
// progress.
func (r *Recorder) Snapshot() map[string]AgentMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]AgentMetrics, len(r.agents))
	for name, m := range r.agents {
		out[name] = *m
	}
	return out
}

// Summary returns the run's aggregate usage: total tokens, estimated
// cost, wall-clock duration since recorder creation, and the count of
// evaluators that reported completion.
func (r *Recorder) Summary() domain.UsageSummary {
	if !r.enabled {
		return domain.UsageSummary{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var summary domain.UsageSummary
	for _, m := range r.agents {
		if m.State != StateCompleted {
			continue
		}
		summary.TotalTokens += m.InputTokens + m.OutputTokens
		summary.EstimatedCost += m.CostEstimate
		summary.AgentsExecuted++
	}
	summary.DurationSeconds = time.Since(r.start).Seconds()
	return summary
}
