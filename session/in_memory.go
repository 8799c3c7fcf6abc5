package session

import (
	"sync"

	"github.com/postwright/postwright/core"
)

// InMemoryStore is a volatile SessionStore implementation keeping sessions in
// a process-local map keyed by the (app, user, session) triple. It is safe
// for concurrent access. GetOrCreate is an atomic insert-if-absent: two
// concurrent callers racing on the same key always receive the same Session
// object. Returned pointers are live; repeated calls observe prior state
// mutations.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[core.SessionKey]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[core.SessionKey]*core.Session)}
}

// GetOrCreate returns the existing session for key or lazily creates one.
func (s *InMemoryStore) GetOrCreate(key core.SessionKey) (*core.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check under the write lock; another caller may have won the race.
	if sess, ok := s.sessions[key]; ok {
		return sess, nil
	}
	return s.createLocked(key), nil
}

// AppendEvent adds an event to an existing or newly created session.
func (s *InMemoryStore) AppendEvent(key core.SessionKey, ev core.Event) error {
	sess, err := s.GetOrCreate(key)
	if err != nil {
		return err
	}
	sess.AddEvent(ev)
	return nil
}

// ApplyDelta merges a key/value delta into the session state.
func (s *InMemoryStore) ApplyDelta(key core.SessionKey, delta map[string]any) error {
	sess, err := s.GetOrCreate(key)
	if err != nil {
		return err
	}
	sess.ApplyStateDelta(delta)
	return nil
}

// Len reports the number of registered sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// createLocked allocates and registers a new session; caller must already
// hold the write lock.
func (s *InMemoryStore) createLocked(key core.SessionKey) *core.Session {
	sess := core.NewSession(key)
	s.sessions[key] = sess
	return sess
}
