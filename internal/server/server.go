// Package server exposes the evaluation pipeline over HTTP. Submission
// is asynchronous: a POST starts a background run and returns a session
// identifier the caller polls for status and, once complete, the
// composite result.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ishu121992/agentic-eval/internal/application"
	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/metrics"
)

// Server routes evaluation requests to the pipeline and tracks the
// resulting sessions in memory.
type Server struct {
	pipeline *application.Pipeline
	logger   *slog.Logger
	store    *sessionStore
	engine   *gin.Engine
}

// New builds the HTTP server around a configured pipeline.
func New(pipeline *application.Pipeline, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		pipeline: pipeline,
		logger:   logger,
		store:    newSessionStore(),
		engine:   engine,
	}

	api := engine.Group("/api")
	api.POST("/evaluate", s.handleEvaluate)
	api.GET("/status/:id", s.handleStatus)
	api.GET("/result/:id", s.handleResult)
	api.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Handler returns the underlying HTTP handler for use with http.Server
// and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// handleEvaluate validates the submitted invention record, starts a
// background evaluation, and answers immediately with the session id.
func (s *Server) handleEvaluate(c *gin.Context) {
	var rec domain.InventionRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := rec.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := &session{
		id:       uuid.NewString(),
		ideaID:   rec.IdeaID,
		status:   StatusRunning,
		recorder: s.pipeline.NewRecorder(),
	}
	s.store.put(sess)

	go s.run(sess, rec)

	c.JSON(http.StatusAccepted, gin.H{
		"session_id": sess.id,
		"status":     "started",
	})
}

// run executes the pipeline for one session. Detached from the request
// context on purpose: a disconnecting client must not cancel the run.
func (s *Server) run(sess *session, rec domain.InventionRecord) {
	result, err := s.pipeline.Evaluate(context.Background(), rec,
		application.WithRecorder(sess.recorder),
		application.WithProgress(sess.appendProgress),
	)
	if err != nil {
		s.logger.Error("evaluation failed", "session_id", sess.id, "idea_id", rec.IdeaID, "error", err)
		sess.fail(err)
		return
	}
	sess.complete(result)
}

type agentStatus struct {
	State           metrics.AgentState `json:"state"`
	DurationSeconds float64            `json:"duration_seconds"`
	InputTokens     int                `json:"input_tokens"`
	OutputTokens    int                `json:"output_tokens"`
}

func (s *Server) handleStatus(c *gin.Context) {
	sess, ok := s.store.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	status, progress, _, err := sess.view()

	agents := make(map[string]agentStatus)
	for name, m := range sess.recorder.Snapshot() {
		agents[name] = agentStatus{
			State:           m.State,
			DurationSeconds: m.Duration.Seconds(),
			InputTokens:     m.InputTokens,
			OutputTokens:    m.OutputTokens,
		}
	}

	resp := gin.H{
		"session_id": sess.id,
		"idea_id":    sess.ideaID,
		"status":     status,
		"progress":   progress,
		"agents":     agents,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleResult(c *gin.Context) {
	sess, ok := s.store.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	status, _, result, err := sess.view()
	switch status {
	case StatusCompleted:
		c.JSON(http.StatusOK, result)
	case StatusFailed:
		c.JSON(http.StatusBadRequest, gin.H{
			"session_id": sess.id,
			"status":     status,
			"error":      err.Error(),
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"session_id": sess.id,
			"status":     status,
			"error":      "evaluation still in progress",
		})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
