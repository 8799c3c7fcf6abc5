package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/postwright/postwright/artifact"
	"github.com/postwright/postwright/core"
	"github.com/postwright/postwright/logging"
	"github.com/postwright/postwright/session"
)

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	// EventBufferSize sets channel buffering for event delivery.
	EventBufferSize int
	// MaxModelCalls limits the number of model calls per invocation, 0 means unlimited.
	MaxModelCalls int
	// SessionStore resolves and persists sessions.
	SessionStore core.SessionStore
	// ArtifactStore persists generated artifacts.
	ArtifactStore core.ArtifactStore
	// Logger receives structured orchestration logs.
	Logger logging.Logger
}

// Runner coordinates agent execution: it resolves sessions, creates run
// contexts, streams events, applies side effects and persists history.
// Public methods are safe for concurrent use.
type Runner struct {
	agent core.Agent

	eventBufferSize int
	maxModelCalls   int

	sessionStore  core.SessionStore
	artifactStore core.ArtifactStore
	logger        logging.Logger

	activeRuns map[string]context.CancelFunc
	mu         sync.RWMutex
}

var _ core.Runner = (*Runner)(nil)

// New constructs a Runner around a root agent with optional overrides.
func New(agent core.Agent, optFns ...func(o *Options)) *Runner {
	opts := Options{
		EventBufferSize: 100,
		MaxModelCalls:   100,
		SessionStore:    session.NewInMemoryStore(),
		ArtifactStore:   artifact.NewInMemoryStore(),
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		agent:           agent,
		eventBufferSize: opts.EventBufferSize,
		maxModelCalls:   opts.MaxModelCalls,
		sessionStore:    opts.SessionStore,
		artifactStore:   opts.ArtifactStore,
		logger:          opts.Logger,
		activeRuns:      make(map[string]context.CancelFunc),
	}
}

// SessionStore exposes the backing session store (used by the task layer to
// share a single store across components).
func (r *Runner) SessionStore() core.SessionStore { return r.sessionStore }

// ArtifactStore exposes the backing artifact store.
func (r *Runner) ArtifactStore() core.ArtifactStore { return r.artifactStore }

// Run starts an asynchronous invocation for the session identified by key.
// The user content is appended to session history before the agent starts.
// The returned channels are closed when the invocation finishes; at most one
// error is delivered.
func (r *Runner) Run(
	ctx context.Context,
	key core.SessionKey,
	userContent core.Content,
) (string, <-chan core.Event, <-chan error, error) {
	sess, err := r.sessionStore.GetOrCreate(key)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	invocationID := core.NewID()

	eventsCh := make(chan core.Event, r.eventBufferSize)
	errorsCh := make(chan error, 1)
	agentEmit := make(chan core.Event, r.eventBufferSize)
	resumeCh := make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.activeRuns[invocationID] = cancel
	r.mu.Unlock()

	runCtx := core.NewRunContext(
		ctx,
		key,
		invocationID,
		core.AgentInfo{Name: r.agent.Name(), Type: "root"},
		userContent,
		r.maxModelCalls,
		agentEmit,
		resumeCh,
		sess,
		r.sessionStore,
		r.artifactStore,
		r.logger,
	)

	userEvent := core.NewUserContentEvent(invocationID, &userContent)
	if err := r.sessionStore.AppendEvent(key, userEvent); err != nil {
		cancel()
		r.mu.Lock()
		delete(r.activeRuns, invocationID)
		r.mu.Unlock()
		return "", nil, nil, fmt.Errorf("failed to append user event: %w", err)
	}

	r.logger.Info("runner.invocation.start",
		"invocation_id", invocationID,
		"app", key.App,
		"user", key.User,
		"session", key.ID,
		"agent", r.agent.Name(),
	)

	agentErrCh := make(chan error, 1)
	go func() {
		defer close(agentEmit)
		if err := r.agent.Run(runCtx); err != nil {
			agentErrCh <- err
		}
		close(agentErrCh)
	}()

	go func() {
		defer func() {
			close(eventsCh)
			close(errorsCh)
			cancel()
			r.mu.Lock()
			delete(r.activeRuns, invocationID)
			r.mu.Unlock()
		}()

		if !r.processEvents(runCtx, key, agentEmit, resumeCh, eventsCh, errorsCh) {
			return
		}
		// Emission finished cleanly; report agent failure if one occurred.
		if err, ok := <-agentErrCh; ok && err != nil {
			r.logger.Error("runner.invocation.failed", "invocation_id", invocationID, "error", err.Error())
			select {
			case errorsCh <- fmt.Errorf("agent execution failed: %w", err):
			default:
			}
			return
		}
		r.logger.Info("runner.invocation.complete", "invocation_id", invocationID)
	}()

	return invocationID, eventsCh, errorsCh, nil
}

// Cancel cancels a running invocation by ID.
func (r *Runner) Cancel(invocationID string) error {
	r.mu.Lock()
	cancel, exists := r.activeRuns[invocationID]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("invocation %s not found", invocationID)
	}
	cancel()
	return nil
}

// processEvents drains the agent emit channel, applying side effects and
// persisting non-partial events before signaling resume. It returns false
// when delivery was aborted (cancellation or persistence failure).
func (r *Runner) processEvents(
	runCtx *core.RunContext,
	key core.SessionKey,
	agentEmit <-chan core.Event,
	resumeCh chan<- struct{},
	eventsCh chan<- core.Event,
	errorsCh chan<- error,
) bool {
	for {
		select {
		case <-runCtx.Done():
			return false
		case ev, ok := <-agentEmit:
			if !ok {
				return true
			}
			if err := r.applyEventActions(key, ev); err != nil {
				r.deliverError(runCtx, errorsCh, fmt.Errorf("failed to process event actions: %w", err))
				return false
			}
			if !ev.IsPartial() {
				if err := r.sessionStore.AppendEvent(key, ev); err != nil {
					r.deliverError(runCtx, errorsCh, fmt.Errorf("failed to append event to session: %w", err))
					return false
				}
			}
			select {
			case <-runCtx.Done():
				return false
			case eventsCh <- ev:
				r.logger.Debug("runner.event.delivered", "event_id", ev.ID, "session", key.ID)
			}
			if !ev.IsPartial() {
				select {
				case <-runCtx.Done():
					return false
				case resumeCh <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (r *Runner) deliverError(runCtx *core.RunContext, errorsCh chan<- error, err error) {
	select {
	case <-runCtx.Done():
	case errorsCh <- err:
	}
}

// applyEventActions applies state deltas and logs flow control actions.
// Artifact deltas need no action here: artifacts are written by tools at
// save time, the delta on the event is informational.
func (r *Runner) applyEventActions(key core.SessionKey, ev core.Event) error {
	if len(ev.Actions.StateDelta) > 0 {
		if err := r.sessionStore.ApplyDelta(key, ev.Actions.StateDelta); err != nil {
			return fmt.Errorf("failed to apply state delta: %w", err)
		}
	}
	if ev.Actions.TransferToAgent != nil && *ev.Actions.TransferToAgent != "" {
		r.logger.Debug("runner.event.transfer_to_agent", "target", *ev.Actions.TransferToAgent, "session", key.ID)
	}
	if ev.Actions.Escalate != nil && *ev.Actions.Escalate {
		r.logger.Debug("runner.event.escalate", "session", key.ID)
	}
	return nil
}
