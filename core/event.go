package core

import (
	"time"

	"github.com/google/uuid"
)

// Event is the primary unit of communication between the assistant, the
// runner and external callers. After emission it should be treated as
// immutable. It captures:
//   - Correlation (InvocationID, ID, Author)
//   - Conversational content (optional role-based Parts)
//   - Session state mutations requested by tools (StateDelta)
//   - High precision UTC timestamp
//
// Content may be nil for control-only events.
type Event struct {
	ID           string         `json:"id"`
	InvocationID string         `json:"invocation_id"`
	Author       string         `json:"author"`
	Timestamp    time.Time      `json:"timestamp"`
	Content      *Content       `json:"content,omitempty"`
	StateDelta   map[string]any `json:"state_delta,omitempty"`
}

// NewEvent creates a bare event authored by 'author' bound to an invocation.
// Prefer the helper constructors for common semantic categories.
func NewEvent(invocationID, author string) Event {
	return Event{
		ID:           NewID(),
		InvocationID: invocationID,
		Author:       author,
		Timestamp:    time.Now().UTC(),
	}
}

// NewMessageEvent creates a non-user assistant message event with a single text part.
func NewMessageEvent(invocationID, author, message string) Event {
	e := NewEvent(invocationID, author)
	e.Content = &Content{Role: "assistant", Parts: []Part{TextPart{Text: message}}}
	return e
}

// NewUserMessageEvent creates a user-authored text message event.
func NewUserMessageEvent(invocationID, message string) Event {
	e := NewEvent(invocationID, "user")
	e.Content = &Content{Role: "user", Parts: []Part{TextPart{Text: message}}}
	return e
}

// NewUserContentEvent creates a user-authored event with arbitrary Content.
func NewUserContentEvent(invocationID string, content *Content) Event {
	e := NewEvent(invocationID, "user")
	e.Content = content
	return e
}

// NewFunctionResponseEvent records the completion result (or error) of a
// tool/function invocation. If err is non-nil its message is copied into the
// response Error field.
func NewFunctionResponseEvent(invocationID, author, id, functionName string, result interface{}, err error) Event {
	e := NewEvent(invocationID, author)
	fr := FunctionResponse{ID: id, Name: functionName, Response: result}
	if err != nil {
		fr.Error = err.Error()
	}
	e.Content = &Content{Role: "tool", Parts: []Part{FunctionResponsePart{FunctionResponse: fr}}}
	return e
}

// NewID generates a new unique identifier for events and invocations.
func NewID() string { return uuid.NewString() }

// GetFunctionCalls returns any FunctionCall parts contained within the event
// content preserving their original order.
func (e Event) GetFunctionCalls() []FunctionCall {
	if e.Content == nil {
		return nil
	}
	var calls []FunctionCall
	for _, p := range e.Content.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}

// GetFunctionResponses returns any FunctionResponse parts contained within
// the event content preserving their original order.
func (e Event) GetFunctionResponses() []FunctionResponse {
	if e.Content == nil {
		return nil
	}
	var responses []FunctionResponse
	for _, p := range e.Content.Parts {
		if fr, ok := p.(FunctionResponsePart); ok {
			responses = append(responses, fr.FunctionResponse)
		}
	}
	return responses
}

// IsFinalResponse reports whether this event completes an assistant turn
// (no pending tool calls or responses).
func (e Event) IsFinalResponse() bool {
	return len(e.GetFunctionCalls()) == 0 && len(e.GetFunctionResponses()) == 0
}

// Text returns the concatenated text content of the event, or "" for
// control-only events.
func (e Event) Text() string {
	if e.Content == nil {
		return ""
	}
	return e.Content.Text()
}
