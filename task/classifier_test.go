package task

import (
	"testing"

	"github.com/postwright/postwright/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRulesApplyIndependently(t *testing.T) {
	// One event carrying text, a call, a response and an artifact delta.
	ev := core.NewEvent("inv-1", "image_generator")
	ev.Content = &core.Content{
		Role: "assistant",
		Parts: []core.Part{
			core.TextPart{Text: "Generating your image now"},
			core.FunctionCallPart{FunctionCall: core.FunctionCall{
				ID: "fc-1", Name: "create_image", Arguments: `{"prompt":"city"}`,
			}},
			core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
				ID: "fc-0", Name: "create_image", Response: "ok",
			}},
		},
	}
	ev.Actions.ArtifactDelta = map[string]int{"linkedin_post_image.png": 3}

	acc := Classify(NewAccumulator(), ev)

	assert.Equal(t, "Generating your image now", acc.Message)
	require.Len(t, acc.Data.ToolCalls, 1)
	assert.Equal(t, map[string]any{"prompt": "city"}, acc.Data.ToolCalls[0].Args)
	require.Len(t, acc.Data.ToolResponses, 1)
	assert.Equal(t, "fc-0", acc.Data.ToolResponses[0].ResponseID)
	assert.Equal(t, 3, acc.Data.ImageArtifacts["linkedin_post_image.png"])
	assert.Len(t, acc.Data.RawEvents, 1)
}

func TestClassifyEmptyTextDoesNotOverwrite(t *testing.T) {
	acc := Classify(NewAccumulator(), core.NewMessageEvent("root", "first"))
	ev := core.NewEvent("inv-1", "root")
	ev.Content = &core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: ""}}}
	acc = Classify(acc, ev)

	assert.Equal(t, "first", acc.Message)
	assert.Len(t, acc.Data.RawEvents, 2)
}

func TestClassifyLastTextPartWithinEventWins(t *testing.T) {
	ev := core.NewEvent("inv-1", "root")
	ev.Content = &core.Content{Role: "assistant", Parts: []core.Part{
		core.TextPart{Text: "one"},
		core.TextPart{Text: "two"},
	}}

	acc := Classify(NewAccumulator(), ev)
	assert.Equal(t, "two", acc.Message)
}

func TestClassifyResponseErrorFallback(t *testing.T) {
	ev := core.NewFunctionResponseEvent("root", "fc-1", "create_image", nil, assert.AnError)

	acc := Classify(NewAccumulator(), ev)
	require.Len(t, acc.Data.ToolResponses, 1)
	assert.Equal(t, assert.AnError.Error(), acc.Data.ToolResponses[0].Result)
}

func TestDecodeArgs(t *testing.T) {
	assert.Equal(t, map[string]any{}, decodeArgs(""))
	assert.Equal(t, map[string]any{"a": 1.0}, decodeArgs(`{"a":1}`))
	assert.Equal(t, map[string]any{"raw": "not json"}, decodeArgs("not json"))
}
