package core

import (
	"fmt"
	"sync"
)

// ModelLimiter caps how many model turns a single dispatch may consume. The
// agent loop charges one unit per generation request; once the budget is
// spent further requests fail, which surfaces as an error event and ends the
// invocation instead of letting a delegation cycle spin forever.
type ModelLimiter struct {
	budget int
	used   int
	mu     sync.Mutex
}

// NewModelLimiter creates a limiter with the given budget. A budget of 0
// disables the cap.
func NewModelLimiter(budget int) *ModelLimiter {
	return &ModelLimiter{budget: budget}
}

// Increment charges one model turn against the budget. It fails once the
// budget is exceeded.
func (ml *ModelLimiter) Increment() error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	ml.used++
	if ml.budget > 0 && ml.used > ml.budget {
		return fmt.Errorf("exceeded max model calls: %d", ml.budget)
	}

	return nil
}

// Count reports how many model turns have been charged so far.
func (ml *ModelLimiter) Count() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	return ml.used
}

// Remaining reports the unspent budget, or -1 when the cap is disabled.
func (ml *ModelLimiter) Remaining() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if ml.budget == 0 {
		return -1
	}

	return ml.budget - ml.used
}
