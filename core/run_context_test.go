package core

import (
	"context"
	"fmt"
	"testing"
)

// Minimal in-package store fakes. The real implementations live in the
// session and artifact packages which depend on core.

type fakeSessionStore struct {
	sessions map[SessionKey]*Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[SessionKey]*Session{}}
}

func (s *fakeSessionStore) GetOrCreate(key SessionKey) (*Session, error) {
	if sess, ok := s.sessions[key]; ok {
		return sess, nil
	}
	sess := NewSession(key)
	s.sessions[key] = sess
	return sess, nil
}

func (s *fakeSessionStore) AppendEvent(key SessionKey, ev Event) error {
	sess, err := s.GetOrCreate(key)
	if err != nil {
		return err
	}
	sess.AddEvent(ev)
	return nil
}

func (s *fakeSessionStore) ApplyDelta(key SessionKey, delta map[string]any) error {
	sess, err := s.GetOrCreate(key)
	if err != nil {
		return err
	}
	sess.ApplyStateDelta(delta)
	return nil
}

type fakeArtifactStore struct {
	blobs map[string][][]byte
}

func newFakeArtifactStore() *fakeArtifactStore {
	return &fakeArtifactStore{blobs: map[string][][]byte{}}
}

func (a *fakeArtifactStore) artifactKey(key SessionKey, name string) string {
	return key.App + "/" + key.User + "/" + key.ID + "/" + name
}

func (a *fakeArtifactStore) Save(key SessionKey, name string, data []byte) (int, error) {
	k := a.artifactKey(key, name)
	a.blobs[k] = append(a.blobs[k], data)
	return len(a.blobs[k]), nil
}

func (a *fakeArtifactStore) Get(key SessionKey, name string) ([]byte, error) {
	k := a.artifactKey(key, name)
	versions := a.blobs[k]
	if len(versions) == 0 {
		return nil, fmt.Errorf("artifact %q not found", name)
	}
	return versions[len(versions)-1], nil
}

func (a *fakeArtifactStore) GetVersion(key SessionKey, name string, version int) ([]byte, error) {
	k := a.artifactKey(key, name)
	versions := a.blobs[k]
	if version < 1 || version > len(versions) {
		return nil, fmt.Errorf("artifact %q version %d not found", name, version)
	}
	return versions[version-1], nil
}

func (a *fakeArtifactStore) List(key SessionKey) ([]string, error) {
	prefix := key.App + "/" + key.User + "/" + key.ID + "/"
	var names []string
	for k := range a.blobs {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			names = append(names, k[len(prefix):])
		}
	}
	return names, nil
}

func (a *fakeArtifactStore) Delete(key SessionKey, name string) error {
	delete(a.blobs, a.artifactKey(key, name))
	return nil
}

func newTestRunContext(t *testing.T, emit chan Event, resume chan struct{}) *RunContext {
	t.Helper()
	key := NewSessionKey("app", "user", "sess")
	store := newFakeSessionStore()
	sess, _ := store.GetOrCreate(key)
	return NewRunContext(
		context.Background(),
		key,
		"inv-1",
		AgentInfo{Name: "agent", Type: "model"},
		NewUserContent("hello"),
		0,
		emit,
		resume,
		sess,
		store,
		newFakeArtifactStore(),
		nil,
	)
}

func TestRunContext_StateStaging(t *testing.T) {
	rc := newTestRunContext(t, make(chan Event, 1), nil)

	rc.SetState("topic", "marathon")

	// Staged value visible through GetState but not yet in the session.
	if v, ok := rc.GetState("topic"); !ok || v != "marathon" {
		t.Fatalf("Staged state not visible: %v %v", v, ok)
	}
	if _, ok := rc.Session.GetState("topic"); ok {
		t.Fatal("Staged state should not reach the session before emission")
	}

	// Session values show through when no delta entry shadows them.
	rc.Session.SetState("persisted", 1)
	if v, ok := rc.GetState("persisted"); !ok || v != 1 {
		t.Fatalf("Session fallback failed: %v %v", v, ok)
	}
}

func TestRunContext_EmitEventMergesAndClearsDeltas(t *testing.T) {
	emit := make(chan Event, 1)
	rc := newTestRunContext(t, emit, nil)

	rc.SetState("topic", "marathon")
	if _, err := rc.SaveArtifact("img.png", []byte("data")); err != nil {
		t.Fatalf("SaveArtifact failed: %v", err)
	}

	if err := rc.EmitEvent(NewMessageEvent("agent", "done")); err != nil {
		t.Fatalf("EmitEvent failed: %v", err)
	}

	ev := <-emit
	if ev.Actions.StateDelta["topic"] != "marathon" {
		t.Fatalf("State delta not attached: %+v", ev.Actions)
	}
	if ev.Actions.ArtifactDelta["img.png"] != 1 {
		t.Fatalf("Artifact delta not attached: %+v", ev.Actions)
	}

	if len(rc.StateDelta) != 0 || len(rc.ArtifactDelta) != 0 {
		t.Fatal("Deltas should be cleared after emission")
	}
}

func TestRunContext_EmitEventCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rc := newTestRunContext(t, make(chan Event), nil)
	rc.Context = ctx

	if err := rc.EmitEvent(NewMessageEvent("agent", "late")); err == nil {
		t.Fatal("EmitEvent should fail when context is cancelled")
	}
}

func TestRunContext_SaveAndGetArtifactVersions(t *testing.T) {
	rc := newTestRunContext(t, make(chan Event, 1), nil)

	v1, err := rc.SaveArtifact("img.png", []byte("one"))
	if err != nil || v1 != 1 {
		t.Fatalf("First save: version=%d err=%v", v1, err)
	}
	v2, err := rc.SaveArtifact("img.png", []byte("two"))
	if err != nil || v2 != 2 {
		t.Fatalf("Second save: version=%d err=%v", v2, err)
	}

	data, err := rc.GetArtifact("img.png")
	if err != nil || string(data) != "two" {
		t.Fatalf("GetArtifact should return latest: %s %v", data, err)
	}
}

func TestRunContext_WaitForResume(t *testing.T) {
	resume := make(chan struct{}, 1)
	rc := newTestRunContext(t, make(chan Event, 1), resume)

	resume <- struct{}{}
	if err := rc.WaitForResume(); err != nil {
		t.Fatalf("WaitForResume with pending token failed: %v", err)
	}

	// Nil resume channel means no persistence barrier.
	rc2 := newTestRunContext(t, make(chan Event, 1), nil)
	if err := rc2.WaitForResume(); err != nil {
		t.Fatalf("WaitForResume without channel should be a no-op: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rc.Context = ctx
	if err := rc.WaitForResume(); err == nil {
		t.Fatal("WaitForResume should fail on cancelled context")
	}
}

func TestRunContext_RefreshSession(t *testing.T) {
	rc := newTestRunContext(t, make(chan Event, 1), nil)

	rc.Session = nil
	if err := rc.RefreshSession(); err != nil {
		t.Fatalf("RefreshSession failed: %v", err)
	}
	if rc.Session == nil || rc.Session.Key != rc.Key {
		t.Fatal("RefreshSession should reload the keyed session")
	}
}
