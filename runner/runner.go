package runner

import (
	"context"
	"fmt"

	"github.com/hupe1980/accountmesh/agent"
	"github.com/hupe1980/accountmesh/core"
	"github.com/hupe1980/accountmesh/logging"
	"github.com/hupe1980/accountmesh/session"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// SessionStore persists session state and event history.
	SessionStore core.SessionStore
	// Logger receives run lifecycle diagnostics.
	Logger logging.Logger
}

// Runner executes assistant turns against stored sessions. Public methods
// are safe for concurrent use across distinct sessions; turns within one
// session are expected to be sequential (a conversation).
type Runner struct {
	assistant    *agent.Assistant
	sessionStore core.SessionStore
	logger       logging.Logger
}

// New constructs a Runner with optional overrides. The default session store
// is in-memory.
func New(assistant *agent.Assistant, optFns ...func(o *Options)) *Runner {
	opts := Options{
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Runner{
		assistant:    assistant,
		sessionStore: opts.SessionStore,
		logger:       opts.Logger,
	}
}

// Run executes one conversational turn: the user content is appended to the
// session, the assistant loop runs to completion and all produced events are
// persisted. It returns the invocation id, the final assistant reply text and
// the full list of events produced this turn.
func (r *Runner) Run(ctx context.Context, sessionID string, userContent core.Content) (string, string, []core.Event, error) {
	invocationID := core.NewID()

	sess, err := r.sessionStore.Get(sessionID)
	if err != nil {
		return invocationID, "", nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	userEvent := core.NewUserContentEvent(invocationID, &userContent)
	sess.AddEvent(userEvent)
	if err := r.sessionStore.AppendEvent(sessionID, userEvent); err != nil {
		return invocationID, "", nil, fmt.Errorf("persist user event: %w", err)
	}

	r.logger.Info("runner.turn.start", "session_id", sessionID, "invocation_id", invocationID)

	events, runErr := r.assistant.Run(ctx, sess, invocationID)

	for _, ev := range events {
		if err := r.sessionStore.AppendEvent(sessionID, ev); err != nil {
			return invocationID, "", events, fmt.Errorf("persist event %s: %w", ev.ID, err)
		}
	}

	if runErr != nil {
		r.logger.Error("runner.turn.failed", "session_id", sessionID, "invocation_id", invocationID, "error", runErr.Error())
		return invocationID, "", events, runErr
	}

	var reply string
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].IsFinalResponse() && events[i].Text() != "" {
			reply = events[i].Text()
			break
		}
	}

	r.logger.Info("runner.turn.complete", "session_id", sessionID, "invocation_id", invocationID, "event_count", len(events))

	return invocationID, reply, events, nil
}

// Session returns a clone of the stored session for inspection.
func (r *Runner) Session(sessionID string) (*core.Session, error) {
	return r.sessionStore.Get(sessionID)
}
