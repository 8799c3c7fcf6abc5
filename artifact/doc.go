// Package artifact provides ArtifactStore implementations for named,
// versioned binary outputs produced during a run (generated images). Only an
// in-memory variant exists; artifacts are ephemeral.
package artifact
