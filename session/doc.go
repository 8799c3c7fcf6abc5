// Package session provides SessionStore implementations. Only an in-memory
// variant exists; session state is ephemeral and scoped to the process
// lifetime.
package session
