// Package middleware provides cross-cutting wrappers for the scoring
// pipeline: Prometheus metrics export, OpenTelemetry tracing, and rate
// limiting around signal evaluators.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ishu121992/agentic-eval/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It exposes evaluator latency, token consumption, request
// counts, and dimension score gauges for the /metrics endpoint.
type PrometheusMetrics struct {
	evaluatorLatency *prometheus.HistogramVec
	tokensUsed       *prometheus.CounterVec
	operationCounter *prometheus.CounterVec
	scoreGauges      *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and
// registers all metrics in the default Prometheus registry. Call it
// once per process.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		evaluatorLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evaluator_duration_seconds",
				Help:    "Execution time of signal evaluators and LLM requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "agent"},
		),
		tokensUsed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evaluator_tokens_total",
				Help: "Total tokens consumed across evaluator LLM interactions.",
			},
			[]string{"agent", "token_type"},
		),
		operationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evaluation_operations_total",
				Help: "Total operations performed by the scoring pipeline.",
			},
			[]string{"operation", "status"},
		),
		scoreGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dimension_normalized_score",
				Help: "Latest normalized score produced per dimension.",
			},
			[]string{"dimension"},
		),
	}
}

// RecordLatency records execution latency in the evaluator histogram.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	agent := labels["agent"]
	if agent == "" {
		agent = labels["model"]
	}
	if agent == "" {
		agent = "unknown"
	}
	pm.evaluatorLatency.WithLabelValues(operation, agent).Observe(duration.Seconds())
}

// RecordCounter increments the matching Prometheus counter.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case "evaluator_tokens_used", "llm_tokens_total":
		agent := labels["agent"]
		if agent == "" {
			agent = labels["model"]
		}
		tokenType := labels["token_type"]
		if tokenType == "" {
			tokenType = "total"
		}
		pm.tokensUsed.WithLabelValues(agent, tokenType).Add(value)
	default:
		status := labels["status"]
		if status == "" {
			status = "success"
		}
		pm.operationCounter.WithLabelValues(metric, status).Add(value)
	}
}

// RecordGauge sets the matching Prometheus gauge value.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	switch metric {
	case "dimension_normalized_score":
		pm.scoreGauges.WithLabelValues(labels["dimension"]).Set(value)
	default:
		pm.scoreGauges.WithLabelValues(metric).Set(value)
	}
}

// Compile-time verification that PrometheusMetrics implements
// MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
