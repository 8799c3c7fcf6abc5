package image

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
)

// OpenAIGeneratorOptions configure the OpenAI image generator.
type OpenAIGeneratorOptions struct {
	Model openai.ImageModel
	Size  openai.ImageGenerateParamsSize
}

// OpenAIGenerator renders images through the OpenAI Images API.
type OpenAIGenerator struct {
	client *openai.Client
	opts   OpenAIGeneratorOptions
}

// NewOpenAIGenerator creates a generator using the official client.
func NewOpenAIGenerator(optFns ...func(o *OpenAIGeneratorOptions)) *OpenAIGenerator {
	client := openai.NewClient()
	return NewOpenAIGeneratorFromClient(&client, optFns...)
}

// NewOpenAIGeneratorFromClient creates a generator from an existing client.
func NewOpenAIGeneratorFromClient(client *openai.Client, optFns ...func(o *OpenAIGeneratorOptions)) *OpenAIGenerator {
	opts := OpenAIGeneratorOptions{
		Model: openai.ImageModelDallE3,
		Size:  openai.ImageGenerateParamsSize1024x1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &OpenAIGenerator{client: client, opts: opts}
}

// GenerateImage implements Generator. The API returns base64 payloads which
// are decoded into raw image bytes.
func (g *OpenAIGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         fmt.Sprintf("Generate image for the following prompt: %s", prompt),
		Model:          g.opts.Model,
		Size:           g.opts.Size,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		N:              openai.Int(1),
	})
	if err != nil {
		return nil, fmt.Errorf("openai image api error: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("no image data in response")
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return data, nil
}
