// Package core defines the shared type system of postwright: events and
// their polymorphic content parts, triple-keyed conversational sessions,
// store contracts (sessions, artifacts), the Runner / Agent interfaces and
// the per-invocation RunContext / ToolContext execution scopes.
//
// Everything that crosses a component boundary is an explicit type here;
// no untyped maps travel between the dispatcher, the runner and the agents.
package core
