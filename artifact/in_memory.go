package artifact

import (
	"sync"

	"github.com/postwright/postwright/core"
)

// InMemoryStore is an in-process ArtifactStore keeping all artifact versions
// in a nested map guarded by an RWMutex. Saving under an existing name
// appends a new version; versions are numbered from 1. Data is copied on
// save / retrieval to avoid accidental external mutation of internal buffers.
//
// Layout: session key -> artifact name -> ordered version list
//
// The store does not enforce retention limits or eviction; artifacts live for
// the process lifetime only.
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[core.SessionKey]map[string][][]byte
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[core.SessionKey]map[string][][]byte)}
}

// Save appends a new version of the named artifact and returns its version
// number. The input slice is copied before storage.
func (a *InMemoryStore) Save(key core.SessionKey, name string, data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.artifacts[key]; !exists {
		a.artifacts[key] = make(map[string][][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	a.artifacts[key][name] = append(a.artifacts[key][name], cp)
	return len(a.artifacts[key][name]), nil
}

// Get returns a copy of the latest version of the named artifact or ErrNotFound.
func (a *InMemoryStore) Get(key core.SessionKey, name string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	versions, err := a.versionsLocked(key, name)
	if err != nil {
		return nil, err
	}
	return copyBytes(versions[len(versions)-1]), nil
}

// GetVersion returns a copy of a specific version (1-based) or ErrNotFound.
func (a *InMemoryStore) GetVersion(key core.SessionKey, name string, version int) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	versions, err := a.versionsLocked(key, name)
	if err != nil {
		return nil, err
	}
	if version < 1 || version > len(versions) {
		return nil, ErrNotFound
	}
	return copyBytes(versions[version-1]), nil
}

// List returns the artifact names stored for the session. The slice is
// a snapshot and safe for caller mutation.
func (a *InMemoryStore) List(key core.SessionKey) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.artifacts[key]
	if !ok {
		return []string{}, nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names, nil
}

// Versions reports how many versions exist for the named artifact (0 if none).
func (a *InMemoryStore) Versions(key core.SessionKey, name string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.artifacts[key]
	if !ok {
		return 0
	}
	return len(m[name])
}

// Delete removes all versions of the named artifact or returns ErrNotFound.
func (a *InMemoryStore) Delete(key core.SessionKey, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.artifacts[key]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[name]; !ok {
		return ErrNotFound
	}
	delete(m, name)
	return nil
}

// versionsLocked returns the version list for (key, name); caller must hold
// at least the read lock.
func (a *InMemoryStore) versionsLocked(key core.SessionKey, name string) ([][]byte, error) {
	m, ok := a.artifacts[key]
	if !ok {
		return nil, ErrNotFound
	}
	versions, ok := m[name]
	if !ok || len(versions) == 0 {
		return nil, ErrNotFound
	}
	return versions, nil
}

func copyBytes(b []byte) []byte {
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
