package cv

import (
	"sync"

	"jobdeck-api/internal/config"
)

// SessionManager hands out one orchestrator per CV. It is an injected
// dependency of the API layer, constructed once at startup, so session
// state never leaks into package-level variables.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Orchestrator

	cfg       *config.Config
	optimizer Optimizer
	store     CvStore
	sink      HistorySink
}

func NewSessionManager(cfg *config.Config, optimizer Optimizer, store CvStore, sink HistorySink) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*Orchestrator),
		cfg:       cfg,
		optimizer: optimizer,
		store:     store,
		sink:      sink,
	}
}

// Session returns the orchestrator for cvID, creating it on first use.
func (m *SessionManager) Session(cvID string) *Orchestrator {
	m.mu.RLock()
	if session, ok := m.sessions[cvID]; ok {
		m.mu.RUnlock()
		return session
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[cvID]; ok {
		return session
	}
	session := NewOrchestrator(cvID, m.cfg.CV.HistoryLimit, m.optimizer, m.store, m.sink)
	m.sessions[cvID] = session
	return session
}

// Drop removes the session for cvID, releasing its state.
func (m *SessionManager) Drop(cvID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, cvID)
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
