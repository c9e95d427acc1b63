package core

import (
	"context"

	"github.com/hupe1980/accountmesh/logging"
)

// ToolContext provides a constrained, auditable surface for tool / function
// implementations invoked by the assistant. It accumulates a state delta
// without directly mutating the underlying session until the resulting event
// is applied.
type ToolContext struct {
	ctx            context.Context
	session        *Session
	invocationID   string
	functionCallID string
	logger         logging.Logger
	stateDelta     map[string]any
}

// NewToolContext constructs a tool context bound to a session and a unique
// functionCallID. A nil logger is replaced with a NoOpLogger.
func NewToolContext(ctx context.Context, sess *Session, invocationID, functionCallID string, logger logging.Logger) *ToolContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ToolContext{
		ctx:            ctx,
		session:        sess,
		invocationID:   invocationID,
		functionCallID: functionCallID,
		logger:         logger,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// SessionID returns the session ID associated with the tool invocation.
func (tc *ToolContext) SessionID() string {
	if tc.session == nil {
		return ""
	}
	return tc.session.ID
}

// InvocationID returns the invocation ID associated with the tool invocation.
func (tc *ToolContext) InvocationID() string { return tc.invocationID }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }

// GetState retrieves the state associated with the given key. Pending delta
// values shadow committed session state.
func (tc *ToolContext) GetState(k string) (any, bool) {
	if v, ok := tc.stateDelta[k]; ok {
		return v, true
	}
	if tc.session == nil {
		return nil, false
	}
	return tc.session.GetState(k)
}

// SetState records a state mutation in the local delta for emission with the
// function response event.
func (tc *ToolContext) SetState(k string, v any) {
	if tc.stateDelta == nil {
		tc.stateDelta = map[string]any{}
	}
	tc.stateDelta[k] = v
}

// StateDelta returns the state mutations accumulated in the tool context.
func (tc *ToolContext) StateDelta() map[string]any { return tc.stateDelta }
