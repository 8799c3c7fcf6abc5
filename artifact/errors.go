package artifact

import "fmt"

var (
	// ErrNotFound is returned when no version of the requested artifact
	// exists in the underlying store.
	ErrNotFound = fmt.Errorf("artifact not found")
)
