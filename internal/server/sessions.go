package server

import (
	"sync"

	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/metrics"
)

// SessionStatus is the lifecycle phase of one submitted evaluation.
type SessionStatus string

const (
	StatusRunning   SessionStatus = "running"
	StatusCompleted SessionStatus = "completed"
	StatusFailed    SessionStatus = "failed"
)

// session tracks one asynchronous evaluation run. The recorder is
// shared with the pipeline so the status endpoint can observe agents
// while the run is in flight.
type session struct {
	mu       sync.Mutex
	id       string
	ideaID   string
	status   SessionStatus
	progress []string
	recorder *metrics.Recorder
	result   *domain.CompositeResult
	err      error
}

func (s *session) appendProgress(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, msg)
}

func (s *session) complete(result *domain.CompositeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusCompleted
	s.result = result
}

func (s *session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusFailed
	s.err = err
}

// view is a consistent copy of the session's mutable state.
func (s *session) view() (SessionStatus, []string, *domain.CompositeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	progress := make([]string, len(s.progress))
	copy(progress, s.progress)
	return s.status, progress, s.result, s.err
}

// sessionStore is an in-memory registry of evaluation sessions.
// Sessions are retained for the life of the process.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (st *sessionStore) put(s *session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.id] = s
}

func (st *sessionStore) get(id string) (*session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}
