package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishu121992/agentic-eval/infrastructure/evaluators"
	"github.com/ishu121992/agentic-eval/internal/application"
	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/ports"
)

const staticOutput = `{"aggregate_score": 4.0, "sources": ["analysis"], "notes": "solid signal", "confidence": 0.8}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	set := make([]ports.SignalEvaluator, 0, 6)
	for _, dim := range domain.AllDimensions() {
		set = append(set, evaluators.NewStaticEvaluator(dim, staticOutput))
	}
	pipeline, err := application.NewPipeline(application.Config{Evaluators: set})
	require.NoError(t, err)

	return New(pipeline, nil)
}

func validPayload() map[string]any {
	return map[string]any{
		"idea_id": "idea-1",
		"title":   "Adaptive battery controller",
		"description": "A battery controller that adapts charging curves using onboard sensors. " +
			"The controller predicts degradation from temperature and cycle history, extending " +
			"usable battery life in electric vehicles and grid storage installations.",
		"application_domains": []string{"automotive", "energy storage"},
	}
}

func postEvaluate(t *testing.T, s *Server, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(s, "/api/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(s, "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
}

func TestEvaluateRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "invalid request body")
}

func TestEvaluateRejectsInvalidRecord(t *testing.T) {
	s := newTestServer(t)

	payload := validPayload()
	payload["description"] = "too short"

	w := postEvaluate(t, s, payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["error"])
}

func TestEvaluateLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := postEvaluate(t, s, validPayload())
	require.Equal(t, http.StatusAccepted, w.Code)

	accepted := decodeBody(t, w)
	sessionID, _ := accepted["session_id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, "started", accepted["status"])

	// Wait for the background run to finish.
	require.Eventually(t, func() bool {
		status := decodeBody(t, get(s, "/api/status/"+sessionID))
		return status["status"] == string(StatusCompleted)
	}, 5*time.Second, 10*time.Millisecond)

	status := decodeBody(t, get(s, "/api/status/"+sessionID))
	assert.Equal(t, "idea-1", status["idea_id"])
	progress, _ := status["progress"].([]any)
	require.NotEmpty(t, progress)
	assert.Equal(t, "Triaging and normalizing input", progress[0])
	agents, _ := status["agents"].(map[string]any)
	assert.Len(t, agents, 6)

	res := get(s, "/api/result/"+sessionID)
	require.Equal(t, http.StatusOK, res.Code)

	var result domain.CompositeResult
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &result))
	assert.Equal(t, "idea-1", result.IdeaID)
	assert.InDelta(t, 80.0, result.PatentRelevanceScore, 1e-9)
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
	assert.Len(t, result.NormalizedScores, 6)
}

func TestStatusUnknownSession(t *testing.T) {
	s := newTestServer(t)

	w := get(s, "/api/status/nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResultUnknownSession(t *testing.T) {
	s := newTestServer(t)

	w := get(s, "/api/result/nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResultWhileRunning(t *testing.T) {
	s := newTestServer(t)

	// Seed a session that never completes.
	sess := &session{id: "stuck", ideaID: "idea-1", status: StatusRunning, recorder: s.pipeline.NewRecorder()}
	s.store.put(sess)

	w := get(s, "/api/result/stuck")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "still in progress")
}

func TestResultFailedSession(t *testing.T) {
	s := newTestServer(t)

	sess := &session{id: "broken", ideaID: "idea-1", status: StatusRunning, recorder: s.pipeline.NewRecorder()}
	s.store.put(sess)
	sess.fail(assert.AnError)

	w := get(s, "/api/result/broken")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, string(StatusFailed), body["status"])
	assert.NotEmpty(t, body["error"])
}
