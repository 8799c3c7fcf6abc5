// Package model defines the provider-neutral interface for language model
// backends plus the normalized request / response structures the agent loop
// produces and consumes. Concrete adapters live in the openai and anthropic
// subpackages; a MockModel is provided for deterministic tests.
package model
