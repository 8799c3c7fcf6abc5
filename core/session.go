package core

import (
	"sync"
	"time"
)

// SessionKey identifies a conversational session. Sessions are scoped by the
// owning application, the end user and a caller-supplied (or generated)
// session identifier; two keys are equal only when all three parts match.
type SessionKey struct {
	App  string `json:"app"`
	User string `json:"user"`
	ID   string `json:"id"`
}

// NewSessionKey builds a SessionKey from its three parts.
func NewSessionKey(app, user, id string) SessionKey {
	return SessionKey{App: app, User: user, ID: id}
}

// Session represents a conversational container tracking mutable key/value
// state plus an ordered event history. It is safe for concurrent access.
//
// Contract:
//   - State mutations update the Updated timestamp
//   - GetEvents returns a defensive copy to avoid external mutation
//   - ConversationHistory filters events to user/assistant/tool roles and
//     excludes partial streaming fragments
//
// Sessions live for the process lifetime only; there is no persistence.
type Session struct {
	Key     SessionKey     `json:"key"`
	State   map[string]any `json:"state"`
	Events  []Event        `json:"events"`
	Created time.Time      `json:"created"`
	Updated time.Time      `json:"updated"`
	mu      sync.RWMutex
}

// NewSession creates an empty session for the given key.
func NewSession(key SessionKey) *Session {
	now := time.Now()
	return &Session{Key: key, State: map[string]any{}, Events: []Event{}, Created: now, Updated: now}
}

// GetState returns the value and existence flag for a state key.
func (s *Session) GetState(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.State[key]
	return v, ok
}

// SetState sets a key/value pair in session state updating the Updated timestamp.
func (s *Session) SetState(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State[key] = value
	s.Updated = time.Now()
}

// ApplyStateDelta merges the provided key/value pairs into State.
func (s *Session) ApplyStateDelta(delta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range delta {
		s.State[k] = v
	}
	s.Updated = time.Now()
}

// AddEvent appends an event to the history updating the Updated timestamp.
func (s *Session) AddEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, ev)
	s.Updated = time.Now()
}

// GetEvents returns a defensive copy of the full event slice.
func (s *Session) GetEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	return events
}

// ConversationHistory returns filtered events suitable for providing
// conversational context to models (excludes partials and non-conversational roles).
func (s *Session) ConversationHistory() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	allowed := map[string]bool{"user": true, "assistant": true, "tool": true}
	res := make([]Event, 0, len(s.Events))
	for _, ev := range s.Events {
		if ev.Content == nil || !allowed[ev.Content.Role] {
			continue
		}
		if ev.IsPartial() {
			continue
		}
		res = append(res, ev)
	}
	return res
}

// SessionStore resolves sessions and maintains their evolving state / event
// history. GetOrCreate is total over its input domain apart from backing
// store failures: a miss constructs and registers an empty session.
// Implementations must serialize concurrent creation attempts for the same
// key so that at most one Session object ever exists per key, and must
// return the same live *Session on repeated calls.
type SessionStore interface {
	GetOrCreate(key SessionKey) (*Session, error)
	AppendEvent(key SessionKey, event Event) error
	ApplyDelta(key SessionKey, delta map[string]any) error
}
