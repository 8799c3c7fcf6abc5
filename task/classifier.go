package task

import (
	"encoding/json"

	"github.com/postwright/postwright/core"
)

// Placeholder is returned as the message when a run produced no text at all.
const Placeholder = "(No response)"

// ToolCall records one tool invocation requested by the model.
type ToolCall struct {
	CallID string         `json:"call_id"`
	Name   string         `json:"name"`
	Args   map[string]any `json:"args"`
}

// ToolResponse records the outcome of one tool invocation.
type ToolResponse struct {
	ResponseID string `json:"response_id"`
	Name       string `json:"name"`
	Result     any    `json:"result"`
}

// Data is the structured payload of a task result: the artifact version map,
// the ordered raw event audit log and the ordered tool call / response lists.
type Data struct {
	ImageArtifacts map[string]int    `json:"image_artifacts"`
	RawEvents      []json.RawMessage `json:"raw_events"`
	ToolCalls      []ToolCall        `json:"tool_calls"`
	ToolResponses  []ToolResponse    `json:"tool_responses"`
}

// NewData returns an empty but fully initialized payload so JSON encoding
// yields empty collections instead of nulls.
func NewData() Data {
	return Data{
		ImageArtifacts: map[string]int{},
		RawEvents:      []json.RawMessage{},
		ToolCalls:      []ToolCall{},
		ToolResponses:  []ToolResponse{},
	}
}

// Accumulator carries the classification state across one event stream.
type Accumulator struct {
	Message string
	Data    Data
}

// NewAccumulator returns the initial fold state: placeholder message and
// empty collections.
func NewAccumulator() Accumulator {
	return Accumulator{Message: Placeholder, Data: NewData()}
}

// Classify folds one event into the accumulator. The rules apply
// independently, so a single event can contribute to several buckets:
//
//  1. Every non-empty text part overwrites the message (last write wins).
//  2. Requested tool invocations append to the tool call list in order.
//  3. Tool invocation results append to the tool response list in order.
//  4. Artifact delta entries overwrite the artifact map per name.
//
// A serialized copy of the raw event is always appended to the audit log.
// Classify is a pure fold step: it holds no state beyond the accumulator.
func Classify(acc Accumulator, ev core.Event) Accumulator {
	if raw, err := json.Marshal(ev); err == nil {
		acc.Data.RawEvents = append(acc.Data.RawEvents, raw)
	}

	if ev.Content != nil {
		for _, p := range ev.Content.Parts {
			if tp, ok := p.(core.TextPart); ok && tp.Text != "" {
				acc.Message = tp.Text
			}
		}
	}

	for _, call := range ev.GetFunctionCalls() {
		acc.Data.ToolCalls = append(acc.Data.ToolCalls, ToolCall{
			CallID: call.ID,
			Name:   call.Name,
			Args:   decodeArgs(call.Arguments),
		})
	}

	for _, resp := range ev.GetFunctionResponses() {
		result := resp.Response
		if result == nil && resp.Error != "" {
			result = resp.Error
		}
		acc.Data.ToolResponses = append(acc.Data.ToolResponses, ToolResponse{
			ResponseID: resp.ID,
			Name:       resp.Name,
			Result:     result,
		})
	}

	for name, version := range ev.Actions.ArtifactDelta {
		acc.Data.ImageArtifacts[name] = version
	}

	return acc
}

// decodeArgs turns the serialized argument string into a map; undecodable
// input is preserved under a raw key rather than dropped.
func decodeArgs(args string) map[string]any {
	if args == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(args), &m); err != nil {
		return map[string]any{"raw": args}
	}
	return m
}
