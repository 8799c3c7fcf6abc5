package task

import (
	"fmt"
	"time"
)

// StallError reports that the event stream produced nothing for longer than
// the configured timeout and the invocation was cancelled.
type StallError struct {
	InvocationID string
	Timeout      time.Duration
}

func (e *StallError) Error() string {
	return fmt.Sprintf("no event received within %s, invocation %s cancelled", e.Timeout, e.InvocationID)
}
