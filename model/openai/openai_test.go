package openai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwright/postwright/core"
)

func TestFinalChunkOrdersToolCallsByStreamIndex(t *testing.T) {
	buffers := map[int64]*callBuffer{
		2: {id: "fc-3", name: "create_image", args: `{"prompt":"c"}`},
		0: {id: "fc-1", name: "transfer_to_agent", args: `{"agent":"a"}`},
		1: {id: "fc-2", name: "create_image", args: `{"prompt":"b"}`},
	}

	// Repeat to shake out map iteration randomness.
	for i := 0; i < 25; i++ {
		var text strings.Builder
		resp := finalChunk("tool_calls", &text, buffers)

		var ids []string
		for _, p := range resp.Content.Parts {
			fc, ok := p.(core.FunctionCallPart)
			require.True(t, ok)
			ids = append(ids, fc.FunctionCall.ID)
		}
		assert.Equal(t, []string{"fc-1", "fc-2", "fc-3"}, ids)
	}
}

func TestFinalChunkTextBeforeCalls(t *testing.T) {
	var text strings.Builder
	text.WriteString("Working on it.")
	buffers := map[int64]*callBuffer{
		0: {id: "fc-1", name: "create_image", args: `{}`},
	}

	resp := finalChunk("tool_calls", &text, buffers)
	require.Len(t, resp.Content.Parts, 2)

	tp, ok := resp.Content.Parts[0].(core.TextPart)
	require.True(t, ok)
	assert.Equal(t, "Working on it.", tp.Text)

	_, ok = resp.Content.Parts[1].(core.FunctionCallPart)
	assert.True(t, ok)
	assert.False(t, resp.Partial)
}
