package linkedin

import (
	"context"
	"testing"
	"time"

	"github.com/postwright/postwright/agent"
	"github.com/postwright/postwright/core"
	"github.com/postwright/postwright/model"
	"github.com/postwright/postwright/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct{ data []byte }

func (g *fakeGenerator) GenerateImage(_ context.Context, _ string) ([]byte, error) {
	return g.data, nil
}

func finalText(events []core.Event) string {
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if ev.IsPartial() || ev.Content == nil || ev.Content.Role != "assistant" {
			continue
		}
		for _, p := range ev.Content.Parts {
			if tp, ok := p.(core.TextPart); ok {
				return tp.Text
			}
		}
	}
	return ""
}

func collect(t *testing.T, events <-chan core.Event, errs <-chan error) ([]core.Event, error) {
	t.Helper()
	var out []core.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out, <-errs
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}
}

func TestNewPipelineHierarchy(t *testing.T) {
	llm := model.NewMockModel("mock", "test")

	root, err := NewPipeline(llm, func(o *PipelineOptions) {
		o.ImageGenerator = &fakeGenerator{data: []byte("png")}
	})
	require.NoError(t, err)

	assert.Equal(t, RootAgentName, root.Name())

	base, ok := root.(*agent.ModelAgent)
	require.True(t, ok)
	require.Len(t, base.SubAgents(), 4)

	for _, name := range []string{StoryAgentName, HashtagAgentName, PostAgentName, ImageAgentName} {
		child := base.FindAgent(name)
		require.NotNil(t, child, name)
		assert.Same(t, root, child.(interface{ Parent() core.Agent }).Parent())
	}

	img := base.FindAgent(ImageAgentName).(*agent.ModelAgent)
	assert.True(t, img.HasTool("create_image"))
}

func TestNewPipelineWithoutImageAgent(t *testing.T) {
	llm := model.NewMockModel("mock", "test")

	root, err := NewPipeline(llm)
	require.NoError(t, err)

	base := root.(*agent.ModelAgent)
	assert.Len(t, base.SubAgents(), 3)
	assert.Nil(t, base.FindAgent(ImageAgentName))
}

func TestDraftPipelineSinglePass(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	llm.AddResponse("Write about my first marathon", "Behind story text.")
	llm.AddResponse("Behind story text.", "#running #perseverance")
	llm.AddResponse("#running #perseverance", "The finished LinkedIn post.")

	root := NewDraftPipeline(llm, func(o *PipelineOptions) {
		o.EnableStreaming = false
	})
	assert.Equal(t, RootAgentName, root.Name())
	assert.Len(t, root.SubAgents(), 3)

	r := runner.New(root)
	key := core.NewSessionKey("postwright", "user-1", core.NewID())

	_, events, errs, err := r.Run(context.Background(), key, core.NewUserContent("Write about my first marathon"))
	require.NoError(t, err)

	all, runErr := collect(t, events, errs)
	require.NoError(t, runErr)
	assert.Equal(t, "The finished LinkedIn post.", finalText(all))

	sess, err := r.SessionStore().GetOrCreate(key)
	require.NoError(t, err)
	assert.Equal(t, "Behind story text.", sess.State[StoryStateKey])
	assert.Equal(t, "#running #perseverance", sess.State[HashtagStateKey])
	assert.Equal(t, "The finished LinkedIn post.", sess.State[PostStateKey])
}

func TestPipelineDelegatesToStoryAgent(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	llm.AddFunctionCall("I ran my first marathon", core.FunctionCall{
		ID:        "call-1",
		Name:      "transfer_to_agent",
		Arguments: `{"agent": "story_agent"}`,
	})
	llm.AddResponse("", "Here is a behind story draft for your marathon post.")

	root, err := NewPipeline(llm, func(o *PipelineOptions) {
		o.EnableStreaming = false
	})
	require.NoError(t, err)

	r := runner.New(root)
	key := core.NewSessionKey("postwright", "user-1", core.NewID())

	invocationID, events, errs, err := r.Run(context.Background(), key, core.NewUserContent("I ran my first marathon"))
	require.NoError(t, err)
	assert.NotEmpty(t, invocationID)

	all, runErr := collect(t, events, errs)
	require.NoError(t, runErr)
	require.NotEmpty(t, all)

	final := all[len(all)-1]
	assert.Equal(t, StoryAgentName, final.Author)
	assert.Contains(t, finalText(all), "behind story")

	sess, err := r.SessionStore().GetOrCreate(key)
	require.NoError(t, err)
	assert.Equal(t, "Here is a behind story draft for your marathon post.", sess.State[StoryStateKey])
}
