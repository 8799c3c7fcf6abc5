package core

import "context"

// Runner defines the minimal orchestration contract for executing a root
// agent within a conversational session. The task dispatcher treats the
// runner as a black box that accepts a user message and yields an ordered
// stream of events.
//
// Semantics & Guarantees:
//   - Event Ordering: Events emitted within a single invocation are delivered
//     in the order produced by the underlying agent pipeline.
//   - Channel Lifecycle: The returned events channel is closed after the
//     invocation completes (success, error, or cancellation). The error
//     channel carries at most one terminal error then closes (buffered size 1).
//   - Cancellation: Context cancellation or explicit Cancel(invocationID)
//     stops further event emission and triggers cleanup.
type Runner interface {
	// Run initiates an asynchronous agent execution bound to the session key
	// using the provided userContent as the starting input. It returns:
	//   invocationID - stable identifier for cancellation / tracking
	//   eventsCh     - ordered stream of events (closed on completion)
	//   errorsCh     - terminal error channel (size 1, closed after send/none)
	// The immediate error return covers startup failures (e.g. session load).
	Run(ctx context.Context, key SessionKey, userContent Content) (string, <-chan Event, <-chan error, error)

	// Cancel requests cooperative termination of an in-flight invocation.
	// Cancelling an unknown or already finished invocation returns an error
	// describing the condition.
	Cancel(invocationID string) error
}

// Agent is the primary processing unit. Agents receive input through a
// RunContext, process it, and emit events to communicate results and state
// changes back to the runner.
//
// Implementations must:
//   - Respect context cancellation for graceful shutdown
//   - Emit events through the provided RunContext
//   - Handle the resume mechanism after non-partial events
type Agent interface {
	Name() string
	Description() string
	Run(runCtx *RunContext) error
	SubAgents() []Agent
	FindAgent(name string) Agent
}
