// Package agent contains the agent implementations built on the core
// contracts: BaseAgent for identity and hierarchy management, ModelAgent for
// LLM-backed conversational agents with function calling and delegation, and
// SequentialAgent for ordered multi-step pipelines.
package agent
