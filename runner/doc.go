// Package runner implements the orchestration layer between callers and
// agents.
//
// The Runner resolves the session for a (app, user, session) key, appends the
// incoming user message, launches the root agent and forwards its event
// stream to the caller while applying event side effects (state deltas,
// history persistence) in order. Each non-partial event is persisted before
// the agent is resumed, so agents always observe their own prior output in
// session history.
package runner
