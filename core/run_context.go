package core

import (
	"context"
	"fmt"
	"maps"

	"github.com/postwright/postwright/logging"
)

// AgentInfo carries identifying details about an agent used in contexts & events.
// Name is the external identifier; Type categorizes the implementation
// (e.g. "orchestrator", "worker").
type AgentInfo struct{ Name, Type string }

// RunContext carries execution state & helpers for an agent run.
// It encapsulates the mutable, per-invocation execution scope passed to an
// Agent's Run method. It aggregates:
//   - The ambient cancellation Context
//   - Identifiers (session Key, InvocationID, Agent info)
//   - Input user Content
//   - The event emission / resumption coordination channels
//   - Backing stores (session, artifact) for persistence concerns
//   - A working Session reference and pending StateDelta / artifact deltas
//
// State mutations performed via SetState accumulate in StateDelta until
// EmitEvent attaches them to the next emitted event. Artifact saves stage a
// name -> version delta the same way.
type RunContext struct {
	Context       context.Context
	Key           SessionKey
	InvocationID  string
	Agent         AgentInfo
	UserContent   Content
	Emit          chan<- Event
	Resume        <-chan struct{}
	Sessions      SessionStore
	Artifacts     ArtifactStore
	Limiter       *ModelLimiter
	Session       *Session
	StateDelta    map[string]any
	ArtifactDelta map[string]int

	*loggerAdapter
}

// NewRunContext constructs a RunContext with empty state and artifact deltas.
func NewRunContext(
	ctx context.Context,
	key SessionKey,
	invocationID string,
	agent AgentInfo,
	userContent Content,
	maxModelCalls int,
	emit chan<- Event,
	resume <-chan struct{},
	sess *Session,
	sessions SessionStore,
	artifacts ArtifactStore,
	logger logging.Logger,
) *RunContext {
	return &RunContext{
		Context:       ctx,
		Key:           key,
		InvocationID:  invocationID,
		Agent:         agent,
		UserContent:   userContent,
		Emit:          emit,
		Resume:        resume,
		Session:       sess,
		Sessions:      sessions,
		Artifacts:     artifacts,
		Limiter:       NewModelLimiter(maxModelCalls),
		StateDelta:    map[string]any{},
		ArtifactDelta: map[string]int{},
		loggerAdapter: newLoggerAdapter(logger),
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// GetState returns a staged (delta) value if present, else the persisted session value.
func (rc *RunContext) GetState(k string) (any, bool) {
	if v, ok := rc.StateDelta[k]; ok {
		return v, true
	}

	if rc.Session != nil {
		return rc.Session.GetState(k)
	}

	return nil, false
}

// SetState stages a state mutation in the in-memory delta buffer.
func (rc *RunContext) SetState(k string, v any) { rc.StateDelta[k] = v }

// ApplyStateDelta merges all pairs from d into the staged StateDelta.
func (rc *RunContext) ApplyStateDelta(d map[string]any) {
	maps.Copy(rc.StateDelta, d)
}

// SaveArtifact stores bytes in the ArtifactStore and stages the assigned
// version for attachment to the next emitted event. It returns the version.
func (rc *RunContext) SaveArtifact(name string, data []byte) (int, error) {
	if rc.Artifacts == nil {
		return 0, fmt.Errorf("artifact store not configured")
	}

	version, err := rc.Artifacts.Save(rc.Key, name, data)
	if err != nil {
		return 0, err
	}

	rc.ArtifactDelta[name] = version

	return version, nil
}

// GetArtifact retrieves the latest version of a previously saved artifact.
func (rc *RunContext) GetArtifact(name string) ([]byte, error) {
	if rc.Artifacts == nil {
		return nil, fmt.Errorf("artifact store not configured")
	}

	return rc.Artifacts.Get(rc.Key, name)
}

// RefreshSession reloads the session reference from the SessionStore.
func (rc *RunContext) RefreshSession() error {
	if rc.Sessions == nil {
		return fmt.Errorf("session store not configured")
	}

	s, err := rc.Sessions.GetOrCreate(rc.Key)
	if err != nil {
		return err
	}

	rc.Session = s

	return nil
}

// SessionHistory returns all historical events for the session.
func (rc *RunContext) SessionHistory() []Event {
	if rc.Session == nil {
		return []Event{}
	}

	return rc.Session.GetEvents()
}

// EmitEvent merges pending StateDelta / ArtifactDelta into the event and
// emits it, then clears the buffers.
func (rc *RunContext) EmitEvent(ev Event) error {
	if len(rc.StateDelta) > 0 {
		if ev.Actions.StateDelta == nil {
			ev.Actions.StateDelta = map[string]any{}
		}
		maps.Copy(ev.Actions.StateDelta, rc.StateDelta)
	}

	if len(rc.ArtifactDelta) > 0 {
		if ev.Actions.ArtifactDelta == nil {
			ev.Actions.ArtifactDelta = map[string]int{}
		}
		maps.Copy(ev.Actions.ArtifactDelta, rc.ArtifactDelta)
	}

	select {
	case <-rc.Context.Done():
		return rc.Context.Err()
	case rc.Emit <- ev:
	}

	rc.StateDelta = map[string]any{}
	rc.ArtifactDelta = map[string]int{}

	return nil
}

// WaitForResume blocks until the runner signals that the last non-partial
// event has been persisted, or until context cancellation.
func (rc *RunContext) WaitForResume() error {
	if rc.Resume == nil {
		return nil
	}

	select {
	case <-rc.Resume:
		return nil
	case <-rc.Context.Done():
		return rc.Context.Err()
	}
}
