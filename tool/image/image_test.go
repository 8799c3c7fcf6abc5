package image

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

type fakeGenerator struct {
	data []byte
	err  error
}

func (g *fakeGenerator) GenerateImage(_ context.Context, _ string) ([]byte, error) {
	return g.data, g.err
}

type fakeUploader struct {
	upload *Upload
	err    error
	calls  int
}

func (u *fakeUploader) UploadImage(_ context.Context, _ string, _ []byte) (*Upload, error) {
	u.calls++
	return u.upload, u.err
}

func newToolContext(t *testing.T) (*core.ToolContext, core.ArtifactStore) {
	t.Helper()

	key := core.NewSessionKey("postwright", "user-1", "sess-1")
	sessions := session.NewInMemoryStore()
	sess, err := sessions.GetOrCreate(key)
	require.NoError(t, err)

	artifacts := artifact.NewInMemoryStore()
	emit := make(chan core.Event, 16)
	resume := make(chan struct{}, 16)
	rc := core.NewRunContext(
		context.Background(),
		key,
		"inv-1",
		core.AgentInfo{Name: "image_generator", Type: "worker"},
		core.NewUserContent("make an image"),
		0,
		emit,
		resume,
		sess,
		sessions,
		artifacts,
		nil,
	)
	return core.NewToolContext(rc, "fc-img"), artifacts
}

func TestCreateImage_Success(t *testing.T) {
	gen := &fakeGenerator{data: []byte("png-bytes")}
	up := &fakeUploader{upload: &Upload{
		URL:      "https://cdn.example.com/li/linkedin_post_image.png",
		PublicID: "li/linkedin_post_image",
		Format:   "png",
	}}
	tl := NewCreateImageTool(gen, func(o *Options) { o.Uploader = up })
	tc, artifacts := newToolContext(t)

	raw, err := tl.Call(tc, map[string]any{"prompt": "  a lighthouse at dusk  "})
	require.NoError(t, err)
	result := raw.(map[string]any)

	assert.Equal(t, "success", result["status"])
	assert.Equal(t, 1, result["artifact_version"])
	assert.Equal(t, "a lighthouse at dusk", result["prompt_used"])

	data := result["data"].(map[string]any)
	assert.Equal(t, "https://cdn.example.com/li/linkedin_post_image.png", data["url"])
	assert.Equal(t, "li/linkedin_post_image", data["public_id"])
	assert.Equal(t, "png", data["format"])
	assert.Equal(t, 1, data["version"])

	stored, err := artifacts.Get(tc.SessionKey(), ArtifactName)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), stored)
}

func TestCreateImage_EmptyPrompt(t *testing.T) {
	tl := NewCreateImageTool(&fakeGenerator{data: []byte("unused")})
	tc, _ := newToolContext(t)

	raw, err := tl.Call(tc, map[string]any{"prompt": "   "})
	require.NoError(t, err)
	result := raw.(map[string]any)
	assert.Equal(t, "error", result["status"])
	assert.Contains(t, result["message"], "Prompt is empty")
}

func TestCreateImage_GenerationFailure(t *testing.T) {
	tl := NewCreateImageTool(&fakeGenerator{err: errors.New("quota exceeded")})
	tc, artifacts := newToolContext(t)

	raw, err := tl.Call(tc, map[string]any{"prompt": "anything"})
	require.NoError(t, err)
	result := raw.(map[string]any)
	assert.Equal(t, "error", result["status"])
	assert.Contains(t, result["message"], "quota exceeded")

	_, err = artifacts.Get(tc.SessionKey(), ArtifactName)
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestCreateImage_EmptyImageData(t *testing.T) {
	tl := NewCreateImageTool(&fakeGenerator{data: nil})
	tc, _ := newToolContext(t)

	raw, err := tl.Call(tc, map[string]any{"prompt": "anything"})
	require.NoError(t, err)
	result := raw.(map[string]any)
	assert.Equal(t, "error", result["status"])
	assert.Contains(t, result["message"], "No image data")
}

func TestCreateImage_UploadFailureKeepsArtifact(t *testing.T) {
	gen := &fakeGenerator{data: []byte("png-bytes")}
	up := &fakeUploader{err: errors.New("network down")}
	tl := NewCreateImageTool(gen, func(o *Options) { o.Uploader = up })
	tc, artifacts := newToolContext(t)

	raw, err := tl.Call(tc, map[string]any{"prompt": "a skyline"})
	require.NoError(t, err)
	result := raw.(map[string]any)

	assert.Equal(t, "success", result["status"])
	assert.NotContains(t, result, "data")
	assert.Contains(t, result["message"], "hosting upload failed")

	stored, err := artifacts.Get(tc.SessionKey(), ArtifactName)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), stored)
}

func TestCreateImage_RepeatGenerationsBumpVersion(t *testing.T) {
	tl := NewCreateImageTool(&fakeGenerator{data: []byte("v")})
	tc, _ := newToolContext(t)

	for want := 1; want <= 3; want++ {
		raw, err := tl.Call(tc, map[string]any{"prompt": "again"})
		require.NoError(t, err)
		assert.Equal(t, want, raw.(map[string]any)["artifact_version"])
	}
}
