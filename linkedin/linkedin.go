// Package linkedin assembles the LinkedIn post generation agent hierarchy.
//
// The root manager agent guides the conversation through topic gathering and
// delegates to specialized sub-agents for the behind story, hashtags, the
// final post and an optional illustration image.
package linkedin

import (
	"fmt"

	"github.com/postwright/postwright/agent"
	"github.com/postwright/postwright/core"
	"github.com/postwright/postwright/model"
	"github.com/postwright/postwright/tool"
	"github.com/postwright/postwright/tool/image"
)

// Agent and state key names used across the pipeline.
const (
	RootAgentName    = "linkedin_post_agent"
	StoryAgentName   = "story_agent"
	HashtagAgentName = "hashtag_agent"
	PostAgentName    = "post_agent"
	ImageAgentName   = "image_agent"

	StoryStateKey   = "behind_story"
	HashtagStateKey = "hashtags"
	PostStateKey    = "post_draft"
)

// PipelineOptions configures the agent hierarchy.
type PipelineOptions struct {
	// ImageGenerator backs the create_image tool. When nil the image agent
	// is omitted from the hierarchy.
	ImageGenerator image.Generator

	// ImageUploader optionally publishes generated images to a hosting
	// service so the post can reference a public URL.
	ImageUploader image.Uploader

	// EnableStreaming controls partial event emission for all agents.
	EnableStreaming bool
}

// NewPipeline builds the LinkedIn post agent hierarchy on top of the given
// language model. The returned agent is the root manager.
func NewPipeline(llm model.Model, optFns ...func(o *PipelineOptions)) (core.Agent, error) {
	opts := PipelineOptions{EnableStreaming: true}
	for _, fn := range optFns {
		fn(&opts)
	}

	story := agent.NewModelAgent(StoryAgentName, llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(storyPrompt)
		o.OutputKey = StoryStateKey
		o.EnableStreaming = opts.EnableStreaming
	})
	story.SetDescription("Generates a compelling first-person behind story for a LinkedIn post.")

	hashtag := agent.NewModelAgent(HashtagAgentName, llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(hashtagPrompt)
		o.OutputKey = HashtagStateKey
		o.EnableStreaming = opts.EnableStreaming
	})
	hashtag.SetDescription("Hashtag Generator specialized in creating relevant and optimized hashtags for LinkedIn posts.")

	post := agent.NewModelAgent(PostAgentName, llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(postPrompt)
		o.OutputKey = PostStateKey
		o.EnableStreaming = opts.EnableStreaming
	})
	post.SetDescription("Post Generator specialized in generating engaging and professional LinkedIn posts.")

	children := []core.Agent{story, hashtag, post}

	if opts.ImageGenerator != nil {
		img := agent.NewModelAgent(ImageAgentName, llm, func(o *agent.ModelAgentOptions) {
			o.Instruction = agent.NewInstructionFromText(imagePrompt)
			o.EnableStreaming = opts.EnableStreaming
			o.Tools = []tool.Tool{image.NewCreateImageTool(opts.ImageGenerator, func(io *image.Options) {
				io.Uploader = opts.ImageUploader
			})}
		})
		img.SetDescription("Image Generator specialized in crafting prompts and creating images that enhance LinkedIn posts.")
		children = append(children, img)
	}

	root := agent.NewModelAgent(RootAgentName, llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(rootPrompt)
		o.EnableStreaming = opts.EnableStreaming
	})
	root.SetDescription("A manager agent that orchestrates the LinkedIn post generation process.")

	if err := root.SetSubAgents(children...); err != nil {
		return nil, fmt.Errorf("assemble pipeline: %w", err)
	}
	return root, nil
}

// NewDraftPipeline builds the single-pass variant: story, hashtag and post
// agents run in order on one shared context with no confirmation loop. One
// user message yields a finished post draft.
func NewDraftPipeline(llm model.Model, optFns ...func(o *PipelineOptions)) core.Agent {
	opts := PipelineOptions{EnableStreaming: true}
	for _, fn := range optFns {
		fn(&opts)
	}

	stage := func(name, prompt, outputKey string) *agent.ModelAgent {
		return agent.NewModelAgent(name, llm, func(o *agent.ModelAgentOptions) {
			o.Instruction = agent.NewInstructionFromText(prompt)
			o.OutputKey = outputKey
			o.EnableStreaming = opts.EnableStreaming
			o.AllowTransfer = false
		})
	}

	return agent.NewSequentialAgent(RootAgentName,
		stage(StoryAgentName, draftStoryPrompt, StoryStateKey),
		stage(HashtagAgentName, draftHashtagPrompt, HashtagStateKey),
		stage(PostAgentName, draftPostPrompt, PostStateKey),
	)
}
