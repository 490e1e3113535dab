package dialogue

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Sessions keeps one conversation State per session id and serializes the
// turns of each conversation. Different sessions converse concurrently.
type Sessions struct {
	orch *Orchestrator

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu    sync.Mutex
	state *State
}

func NewSessions(orch *Orchestrator) *Sessions {
	return &Sessions{
		orch:     orch,
		sessions: make(map[string]*session),
	}
}

// Converse runs one turn for the given session, creating it on first
// contact. An empty id starts a fresh session; the id actually used is
// returned so the caller can hand it back to the client.
func (s *Sessions) Converse(ctx context.Context, sessionID, text string) (string, *Response) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sess := s.lookup(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sessionID, s.orch.ProcessMessage(ctx, sess.state, text)
}

// End discards a session. Unknown ids are a no-op.
func (s *Sessions) End(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Count reports the number of live sessions.
func (s *Sessions) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Sessions) lookup(sessionID string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}
	sess = &session{state: NewState(sessionID)}
	s.sessions[sessionID] = sess
	return sess
}
