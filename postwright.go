// Package postwright provides a high-level façade over the LinkedIn post
// generation stack: configuration, logging, the model adapter, the agent
// hierarchy, the runner, the task manager and the HTTP server. Most
// applications interact with this package by:
//  1. Loading configuration via config.Load
//  2. Creating an App via New() (optionally overriding stores or the model)
//  3. Calling Serve() to run the HTTP endpoint, or ProcessTask() directly
package postwright

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/postwright/postwright/artifact"
	"github.com/postwright/postwright/config"
	"github.com/postwright/postwright/core"
	"github.com/postwright/postwright/linkedin"
	"github.com/postwright/postwright/logging"
	"github.com/postwright/postwright/model"
	anthropicmodel "github.com/postwright/postwright/model/anthropic"
	openaimodel "github.com/postwright/postwright/model/openai"
	"github.com/postwright/postwright/runner"
	"github.com/postwright/postwright/server"
	"github.com/postwright/postwright/session"
	"github.com/postwright/postwright/task"
	"github.com/postwright/postwright/tool/image"
)

// AppName identifies the application in session keys.
const AppName = "linkedin_post_agent"

// AgentCard describes the agent at /.well-known/agent.json.
const (
	AgentName        = "LinkedIn Post Generator"
	AgentDescription = "Agent for generating LinkedIn posts and images"
)

// Options overrides parts of the default wiring. Any unset service is
// initialized from the configuration with an in-memory implementation.
type Options struct {
	// Model replaces the configured provider's language model. Mainly used
	// by tests to inject a mock.
	Model model.Model

	// ImageGenerator and ImageUploader replace the OpenAI and Cloudinary
	// defaults for the create_image tool.
	ImageGenerator image.Generator
	ImageUploader  image.Uploader

	// SinglePass swaps the conversational manager hierarchy for the
	// sequential draft pipeline: one message in, one finished draft out.
	SinglePass bool

	// Stores default to in-memory implementations.
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore

	// Logger defaults to a JSON slog logger at the configured level.
	Logger logging.Logger
}

// App aggregates the wired components.
type App struct {
	cfg     *config.Config
	logger  logging.Logger
	runner  *runner.Runner
	manager *task.Manager
	server  *server.Server
}

// New wires the full application from configuration.
func New(cfg *config.Config, optFns ...func(o *Options)) (*App, error) {
	opts := Options{
		SessionStore:  session.NewInMemoryStore(),
		ArtifactStore: artifact.NewInMemoryStore(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Format: cfg.LogFormat,
		})
	}

	if opts.Model == nil {
		llm, err := buildModel(cfg)
		if err != nil {
			return nil, err
		}
		opts.Model = llm
	}

	if opts.ImageGenerator == nil {
		client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		opts.ImageGenerator = image.NewOpenAIGeneratorFromClient(&client, func(o *image.OpenAIGeneratorOptions) {
			o.Model = openai.ImageModel(cfg.ImageModel)
		})
	}
	if opts.ImageUploader == nil {
		uploader, err := image.NewCloudinaryUploader(
			cfg.CloudinaryCloudName,
			cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret,
			cfg.CloudinaryFolder,
		)
		if err != nil {
			return nil, fmt.Errorf("cloudinary uploader: %w", err)
		}
		opts.ImageUploader = uploader
	}

	var root core.Agent
	if opts.SinglePass {
		root = linkedin.NewDraftPipeline(opts.Model)
	} else {
		var err error
		root, err = linkedin.NewPipeline(opts.Model, func(o *linkedin.PipelineOptions) {
			o.ImageGenerator = opts.ImageGenerator
			o.ImageUploader = opts.ImageUploader
		})
		if err != nil {
			return nil, err
		}
	}

	r := runner.New(root, func(o *runner.Options) {
		o.SessionStore = opts.SessionStore
		o.ArtifactStore = opts.ArtifactStore
		o.Logger = opts.Logger
	})

	manager := task.NewManager(AppName, r, func(o *task.ManagerOptions) {
		o.Logger = opts.Logger
	})

	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.Host
	srvCfg.Port = cfg.Port
	srvCfg.Debug = !cfg.IsProduction()

	return &App{
		cfg:     cfg,
		logger:  opts.Logger,
		runner:  r,
		manager: manager,
		server:  server.New(srvCfg, manager, opts.Logger),
	}, nil
}

func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.ModelProvider {
	case "openai":
		client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		return openaimodel.NewModelFromClient(&client, func(o *openaimodel.Options) {
			o.Model = cfg.Model
		}), nil
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.Model = anthropic.Model(cfg.Model)
			o.APIKey = cfg.AnthropicAPIKey
		}), nil
	default:
		return nil, fmt.Errorf("unsupported model provider %q", cfg.ModelProvider)
	}
}

// Manager exposes the task manager for direct (non-HTTP) task processing.
func (a *App) Manager() *task.Manager { return a.manager }

// Runner exposes the underlying runner.
func (a *App) Runner() *runner.Runner { return a.runner }

// ProcessTask submits a single conversational turn, bypassing HTTP.
func (a *App) ProcessTask(ctx context.Context, message string, taskContext map[string]any, sessionID string) task.Result {
	return a.manager.ProcessTask(ctx, message, taskContext, sessionID)
}

// Serve starts the HTTP server and blocks until it stops.
func (a *App) Serve() error {
	a.logger.Info("server.start", "host", a.cfg.Host, "port", a.cfg.Port, "agent", AgentName)
	return a.server.Start()
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
