package middleware

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// The default Prometheus registry is process-global, so all assertions
// share one collector instance.
var testMetrics = NewPrometheusMetrics()

func TestPrometheusMetricsCounters(t *testing.T) {
	testMetrics.RecordCounter("evaluator_tokens_used", 150,
		map[string]string{"agent": "timing_agent", "token_type": "input"})
	testMetrics.RecordCounter("evaluator_tokens_used", 50,
		map[string]string{"agent": "timing_agent", "token_type": "input"})

	got := testutil.ToFloat64(testMetrics.tokensUsed.WithLabelValues("timing_agent", "input"))
	assert.Equal(t, 200.0, got)
}

func TestPrometheusMetricsTokenTypeDefaults(t *testing.T) {
	testMetrics.RecordCounter("llm_tokens_total", 30,
		map[string]string{"model": "gpt-4o-mini"})

	got := testutil.ToFloat64(testMetrics.tokensUsed.WithLabelValues("gpt-4o-mini", "total"))
	assert.Equal(t, 30.0, got)
}

func TestPrometheusMetricsOperationCounter(t *testing.T) {
	testMetrics.RecordCounter("evaluation_runs", 1,
		map[string]string{"status": "error"})

	got := testutil.ToFloat64(testMetrics.operationCounter.WithLabelValues("evaluation_runs", "error"))
	assert.Equal(t, 1.0, got)
}

func TestPrometheusMetricsGauge(t *testing.T) {
	testMetrics.RecordGauge("dimension_normalized_score", 72.5,
		map[string]string{"dimension": "white_space"})
	testMetrics.RecordGauge("dimension_normalized_score", 64.0,
		map[string]string{"dimension": "white_space"})

	got := testutil.ToFloat64(testMetrics.scoreGauges.WithLabelValues("white_space"))
	assert.Equal(t, 64.0, got)
}

func TestPrometheusMetricsLatency(t *testing.T) {
	testMetrics.RecordLatency("evaluator", 125*time.Millisecond,
		map[string]string{"agent": "timing_agent"})
	testMetrics.RecordLatency("llm_request", 50*time.Millisecond,
		map[string]string{"model": "gpt-4o-mini"})
	testMetrics.RecordLatency("mystery", time.Millisecond, nil)

	count := testutil.CollectAndCount(testMetrics.evaluatorLatency)
	assert.GreaterOrEqual(t, count, 3)
}
