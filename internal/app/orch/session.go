package orch

import (
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/dkeye/Huddle/internal/domain"
)

// session serializes the bookkeeping of one connection against its teardown.
// Engine calls happen outside mu; only the short record phase holds it.
type session struct {
	mu          sync.Mutex
	id          domain.SessionID
	state       domain.SessionState
	connectedAt time.Time
}

// record runs fn unless the session was torn down meanwhile.
func (s *session) record(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.StateDisconnected {
		return false
	}
	fn()
	return true
}

// advance moves the state forward. Producing and Consuming may alternate.
func (s *session) advance(to domain.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.StateDisconnected {
		return
	}
	if to > s.state || to == domain.StateProducing || to == domain.StateConsuming {
		s.state = to
	}
}

func (s *session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.StateDisconnected
}

type SessionInfo struct {
	ID          domain.SessionID `json:"id"`
	State       string           `json:"state"`
	ConnectedAt time.Time        `json:"connected_at"`
}

type Sessions struct {
	mu   sync.RWMutex
	byID map[domain.SessionID]*session
}

func NewSessions() *Sessions {
	return &Sessions{byID: make(map[domain.SessionID]*session)}
}

func (t *Sessions) open(sid domain.SessionID) *session {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.byID[sid]; ok {
		return s
	}
	s := &session{id: sid, state: domain.StateConnected, connectedAt: time.Now()}
	t.byID[sid] = s
	return s
}

func (t *Sessions) get(sid domain.SessionID) (*session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.byID[sid]
	return s, ok
}

func (t *Sessions) remove(sid domain.SessionID) (*session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.byID[sid]
	delete(t.byID, sid)
	return s, ok
}

func (t *Sessions) IDs() []domain.SessionID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return lo.Keys(t.byID)
}

func (t *Sessions) State(sid domain.SessionID) domain.SessionState {
	s, ok := t.get(sid)
	if !ok {
		return domain.StateDisconnected
	}
	return s.State()
}

func (t *Sessions) Snapshot() []SessionInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return lo.MapToSlice(t.byID, func(id domain.SessionID, s *session) SessionInfo {
		return SessionInfo{ID: id, State: s.State().String(), ConnectedAt: s.connectedAt}
	})
}
