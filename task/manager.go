// Package task implements the dispatch layer between the network boundary
// and the runner: the Manager resolves sessions, submits the user message,
// folds the resulting event stream into a structured Result and converts
// every failure into a well-formed error result.
package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/postwright/postwright/core"
	"github.com/postwright/postwright/logging"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultUserID is used when the request context carries no user identifier.
const DefaultUserID = "default_user"

// Result is the outcome of one dispatch.
type Result struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Status    string `json:"status"`
	Data      Data   `json:"data"`
}

// MarshalJSON serializes error results with a literal empty data object: no
// partial data accompanies a failure, and the wire shape stays a bare {}
// rather than the success payload's empty containers.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	if r.Status == StatusError {
		return json.Marshal(struct {
			alias
			Data map[string]any `json:"data"`
		}{alias: alias(r), Data: map[string]any{}})
	}
	return json.Marshal(alias(r))
}

// ManagerOptions configure a Manager.
type ManagerOptions struct {
	// EventTimeout bounds the wait for the next stream event; a stalled
	// run is cancelled and reported as an error result. Zero disables it.
	EventTimeout time.Duration
	// Logger receives structured dispatch logs.
	Logger logging.Logger
}

// Manager dispatches tasks: one call to ProcessTask drives a full agent run
// for a session and aggregates its event stream. Manager is stateless across
// dispatches apart from the shared runner and is safe for concurrent use.
type Manager struct {
	appName      string
	runner       core.Runner
	eventTimeout time.Duration
	logger       logging.Logger
}

// NewManager constructs a Manager for an application name and runner.
func NewManager(appName string, r core.Runner, optFns ...func(o *ManagerOptions)) *Manager {
	opts := ManagerOptions{
		EventTimeout: 2 * time.Minute,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{
		appName:      appName,
		runner:       r,
		eventTimeout: opts.EventTimeout,
		logger:       opts.Logger,
	}
}

// ProcessTask runs one dispatch. The user id is taken from
// taskContext["user_id"] (defaulting to DefaultUserID), the session id is
// used verbatim when supplied or freshly minted otherwise. The event stream
// is consumed to exhaustion through Classify; failures are fail-fast and
// produce an error Result with an empty data payload. ProcessTask never
// returns a Go error: every outcome is a well-formed Result.
func (m *Manager) ProcessTask(
	ctx context.Context,
	message string,
	taskContext map[string]any,
	sessionID string,
) Result {
	userID := DefaultUserID
	if v, ok := taskContext["user_id"].(string); ok && v != "" {
		userID = v
	}
	if sessionID == "" {
		sessionID = core.NewID()
		m.logger.Info("task.session.created", "session_id", sessionID)
	}
	key := core.NewSessionKey(m.appName, userID, sessionID)

	m.logger.Info("task.dispatch.start", "session_id", sessionID, "user_id", userID)

	invocationID, events, errs, err := m.runner.Run(ctx, key, core.NewUserContent(message))
	if err != nil {
		m.logger.Error("task.dispatch.failed", "session_id", sessionID, "error", err.Error())
		return errorResult(err)
	}

	acc, err := m.consume(ctx, invocationID, events, errs)
	if err != nil {
		m.logger.Error("task.stream.failed", "session_id", sessionID, "error", err.Error())
		return errorResult(err)
	}

	m.logger.Info("task.dispatch.complete", "session_id", sessionID, "message_len", len(acc.Message))
	return Result{
		Message:   acc.Message,
		SessionID: sessionID,
		Status:    StatusSuccess,
		Data:      acc.Data,
	}
}

// consume folds the event stream to exhaustion. The first failure aborts the
// fold; accumulated data is discarded by the caller.
func (m *Manager) consume(
	ctx context.Context,
	invocationID string,
	events <-chan core.Event,
	errs <-chan error,
) (Accumulator, error) {
	acc := NewAccumulator()

	var stall *time.Timer
	var stallCh <-chan time.Time
	if m.eventTimeout > 0 {
		stall = time.NewTimer(m.eventTimeout)
		defer stall.Stop()
		stallCh = stall.C
	}
	resetStall := func() {
		if stall == nil {
			return
		}
		if !stall.Stop() {
			select {
			case <-stall.C:
			default:
			}
		}
		stall.Reset(m.eventTimeout)
	}

	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			resetStall()
			acc = Classify(acc, ev)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			_ = m.runner.Cancel(invocationID)
			return Accumulator{}, err
		case <-stallCh:
			_ = m.runner.Cancel(invocationID)
			return Accumulator{}, &StallError{InvocationID: invocationID, Timeout: m.eventTimeout}
		case <-ctx.Done():
			_ = m.runner.Cancel(invocationID)
			return Accumulator{}, ctx.Err()
		}
	}
	return acc, nil
}

// errorResult builds the fail-fast error envelope: error description as the
// message and an empty data payload. The session id is intentionally absent.
func errorResult(err error) Result {
	return Result{
		Message: err.Error(),
		Status:  StatusError,
		Data:    NewData(),
	}
}
