package anthropic

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwright/postwright/core"
	"github.com/postwright/postwright/model"
)

// roundTripperFunc lets a test stand in for the Messages API endpoint.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newStubModel(t *testing.T, body string) *Model {
	t.Helper()
	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithHTTPClient(&http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(bytes.NewBufferString(body)),
			}, nil
		})}),
	)
	return NewModelFromClient(&client)
}

func drain(t *testing.T, respCh <-chan model.Response, errCh <-chan error) []model.Response {
	t.Helper()
	var out []model.Response
	timeout := time.After(5 * time.Second)
	for {
		select {
		case resp, ok := <-respCh:
			if !ok {
				if err, open := <-errCh; open && err != nil {
					t.Fatalf("generation failed: %v", err)
				}
				return out
			}
			out = append(out, resp)
		case <-timeout:
			t.Fatal("timed out waiting for responses")
		}
	}
}

func TestGenerateTextAndUsage(t *testing.T) {
	m := newStubModel(t, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-sonnet-20241022",
		"content": [{"type": "text", "text": "Here is your behind story."}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 42, "output_tokens": 17}
	}`)

	respCh, errCh := m.Generate(context.Background(), model.Request{
		Instructions: "You write LinkedIn stories.",
		Contents:     []core.Content{core.NewUserContent("my first marathon")},
	})

	out := drain(t, respCh, errCh)
	require.Len(t, out, 1)

	resp := out[0]
	assert.False(t, resp.Partial)
	assert.Equal(t, "end_turn", resp.FinishReason)

	require.Len(t, resp.Content.Parts, 1)
	text, ok := resp.Content.Parts[0].(core.TextPart)
	require.True(t, ok)
	assert.Equal(t, "Here is your behind story.", text.Text)

	require.NotNil(t, resp.Usage)
	assert.Equal(t, 42, resp.Usage.PromptTokens)
	assert.Equal(t, 17, resp.Usage.CompletionTokens)
	assert.Equal(t, 59, resp.Usage.TotalTokens)
}

func TestGenerateToolUse(t *testing.T) {
	m := newStubModel(t, `{
		"id": "msg_2",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-sonnet-20241022",
		"content": [{"type": "tool_use", "id": "toolu_1", "name": "create_image", "input": {"prompt": "sunrise run"}}],
		"stop_reason": "tool_use",
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`)

	respCh, errCh := m.Generate(context.Background(), model.Request{
		Contents: []core.Content{core.NewUserContent("make an image")},
	})

	out := drain(t, respCh, errCh)
	require.Len(t, out, 1)

	calls := 0
	for _, p := range out[0].Content.Parts {
		if fc, ok := p.(core.FunctionCallPart); ok {
			calls++
			assert.Equal(t, "toolu_1", fc.FunctionCall.ID)
			assert.Equal(t, "create_image", fc.FunctionCall.Name)
			assert.JSONEq(t, `{"prompt": "sunrise run"}`, fc.FunctionCall.Arguments)
		}
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, "tool_use", out[0].FinishReason)
}
