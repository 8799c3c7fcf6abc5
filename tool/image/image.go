// Package image provides the create_image tool: it renders an image from a
// text prompt, uploads the bytes to a CDN and stores them as a versioned
// session artifact so downstream consumers can reference both.
package image

import (
	"context"
	"fmt"
	"strings"

	"github.com/postwright/postwright/core"
	"github.com/postwright/postwright/tool"
)

// ArtifactName is the fixed artifact filename under which every generated
// image is stored. Repeat generations overwrite by version.
const ArtifactName = "linkedin_post_image.png"

// Generator renders image bytes from a text prompt.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Upload describes the hosted location of an uploaded image.
type Upload struct {
	URL      string
	PublicID string
	Format   string
}

// Uploader pushes image bytes to a hosting service and returns its location.
type Uploader interface {
	UploadImage(ctx context.Context, name string, data []byte) (*Upload, error)
}

// Options configure the create_image tool.
type Options struct {
	// Uploader is optional; without one the tool still saves the artifact
	// and reports the version.
	Uploader Uploader
}

type createImageTool struct {
	generator Generator
	uploader  Uploader
}

// NewCreateImageTool builds the create_image tool around a Generator.
func NewCreateImageTool(generator Generator, optFns ...func(o *Options)) tool.Tool {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &createImageTool{generator: generator, uploader: opts.Uploader}
}

func (t *createImageTool) Name() string { return "create_image" }

func (t *createImageTool) Description() string {
	return "Generate an image from a text prompt and store it as a session artifact. " +
		"Returns the artifact version and, when hosting is configured, the image URL."
}

func (t *createImageTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "Text prompt describing the image to generate",
			},
		},
		"required": []string{"prompt"},
	}
}

// Call generates, uploads and persists the image. Domain failures (empty
// prompt, generation errors) are reported as status=error payloads rather
// than Go errors so the model can react to them in conversation.
func (t *createImageTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	logger := tc.Logger()

	raw, _ := args["prompt"].(string)
	prompt := strings.TrimSpace(raw)
	if prompt == "" {
		return map[string]any{
			"status":  "error",
			"message": "Prompt is empty. Please provide a valid prompt for image generation.",
		}, nil
	}

	data, err := t.generator.GenerateImage(tc.Context(), prompt)
	if err != nil {
		logger.Error("image.generate.failed", "error", err.Error())
		return map[string]any{
			"status":  "error",
			"message": fmt.Sprintf("An error occurred while generating the image: %v", err),
		}, nil
	}
	if len(data) == 0 {
		return map[string]any{
			"status":  "error",
			"message": "No image data found in the response. Please try again with a different prompt.",
		}, nil
	}

	version, err := tc.SaveArtifact(ArtifactName, data)
	if err != nil {
		return nil, fmt.Errorf("save image artifact: %w", err)
	}

	result := map[string]any{
		"status":           "success",
		"message":          "Image generated successfully.",
		"artifact_version": version,
		"prompt_used":      prompt,
	}

	if t.uploader != nil {
		upload, err := t.uploader.UploadImage(tc.Context(), ArtifactName, data)
		if err != nil {
			// Artifact is already saved; hosting failure degrades the
			// payload instead of failing the call.
			logger.Warn("image.upload.failed", "error", err.Error())
			result["message"] = "Image generated successfully, but hosting upload failed."
		} else {
			result["data"] = map[string]any{
				"url":       upload.URL,
				"public_id": upload.PublicID,
				"format":    upload.Format,
				"version":   version,
			}
		}
	}

	logger.Info("image.create.success", "artifact", ArtifactName, "version", version)
	return result, nil
}
