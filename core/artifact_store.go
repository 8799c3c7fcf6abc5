package core

// ArtifactStore defines the interface for named, versioned binary outputs
// produced during a run (e.g. generated images). Artifacts are scoped by
// session key; saving under an existing name creates a new version rather
// than replacing the old bytes. Versions start at 1 and increase by one per
// overwrite. Implementations must be safe for concurrent use.
type ArtifactStore interface {
	// Save stores data under name and returns the version assigned to it.
	Save(key SessionKey, name string, data []byte) (int, error)
	// Get returns the latest version of the named artifact.
	Get(key SessionKey, name string) ([]byte, error)
	// GetVersion returns a specific version of the named artifact.
	GetVersion(key SessionKey, name string, version int) ([]byte, error)
	// List returns the artifact names stored for the session.
	List(key SessionKey) ([]string, error)
	// Delete removes all versions of the named artifact.
	Delete(key SessionKey, name string) error
}
