package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/postwright/postwright/artifact"
	"github.com/postwright/postwright/core"
	"github.com/postwright/postwright/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToolContext(t *testing.T) *core.ToolContext {
	t.Helper()

	key := core.NewSessionKey("postwright", "user-1", "sess-1")
	sessions := session.NewInMemoryStore()
	sess, err := sessions.GetOrCreate(key)
	require.NoError(t, err)

	emit := make(chan core.Event, 16)
	resume := make(chan struct{}, 16)
	rc := core.NewRunContext(
		context.Background(),
		key,
		"inv-1",
		core.AgentInfo{Name: "worker", Type: "worker"},
		core.NewUserContent("hello"),
		0,
		emit,
		resume,
		sess,
		sessions,
		artifact.NewInMemoryStore(),
		nil,
	)
	return core.NewToolContext(rc, "fc-1")
}

func TestFunctionTool_Success(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}
	sum := NewFunctionTool("calculate_sum", "Add numbers", params, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args["a"].(float64) + args["b"].(float64), nil
	})

	result, err := sum.Call(testToolContext(t), map[string]any{"a": 2.0, "b": 3.0})
	assert.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
		},
		"required": []any{"a"},
	}
	tl := NewFunctionTool("needs_a", "Test", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return 0, nil
	})

	_, err := tl.Call(testToolContext(t), map[string]any{})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, toolErr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	failing := NewFunctionTool("fail", "Fails", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, errors.New("boom")
	})

	_, err := failing.Call(testToolContext(t), map[string]any{})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Equal(t, "boom", toolErr.Message)
}

func TestFunctionTool_ToolErrorPassthrough(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	custom := NewToolError("quota", "limit exhausted", "QUOTA_EXCEEDED")
	tl := NewFunctionTool("quota", "Quota check", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, custom
	})

	_, err := tl.Call(testToolContext(t), map[string]any{})
	require.Error(t, err)
	assert.Same(t, custom, err.(*ToolError))
}

func TestFunctionTool_FromStruct(t *testing.T) {
	type echoArgs struct {
		Text string `json:"text" description:"Text to echo"`
	}
	echo := NewFunctionToolFromStruct("echo", "Echo text back", echoArgs{}, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args["text"], nil
	})

	props, ok := echo.Parameters()["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "text")

	result, err := echo.Call(testToolContext(t), map[string]any{"text": "hi"})
	assert.NoError(t, err)
	assert.Equal(t, "hi", result)
}

func TestTransferToAgentTool(t *testing.T) {
	transfer := NewTransferToAgentTool()
	tc := testToolContext(t)

	result, err := transfer.Call(tc, map[string]any{"agent": "post_writer"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"transferred": true, "agent": "post_writer"}, result)
	require.NotNil(t, tc.Actions().TransferToAgent)
	assert.Equal(t, "post_writer", *tc.Actions().TransferToAgent)
}

func TestTransferToAgentToolRejectsBadArgs(t *testing.T) {
	transfer := NewTransferToAgentTool()

	_, err := transfer.Call(testToolContext(t), map[string]any{})
	assert.Error(t, err)

	_, err = transfer.Call(testToolContext(t), map[string]any{"agent": ""})
	assert.Error(t, err)
}
