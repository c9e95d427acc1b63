package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent_Text(t *testing.T) {
	c := Content{Role: "assistant", Parts: []Part{
		TextPart{Text: "hello "},
		FunctionCallPart{FunctionCall: FunctionCall{Name: "ignored"}},
		TextPart{Text: "world"},
	}}
	assert.Equal(t, "hello world", c.Text())
}

func TestNewUserContent(t *testing.T) {
	c := NewUserContent("hi")
	assert.Equal(t, "user", c.Role)
	assert.Equal(t, "hi", c.Text())
}

func TestEventConstructors(t *testing.T) {
	ev := NewUserMessageEvent("inv-1", "research Sony")
	assert.Equal(t, "inv-1", ev.InvocationID)
	assert.Equal(t, "user", ev.Author)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "research Sony", ev.Text())
	assert.True(t, ev.IsFinalResponse())

	msg := NewMessageEvent("inv-1", "assistant", "done")
	assert.Equal(t, "assistant", msg.Author)
	assert.Equal(t, "assistant", msg.Content.Role)

	fr := NewFunctionResponseEvent("inv-1", "assistant", "fc-1", "research_company", "payload", nil)
	responses := fr.GetFunctionResponses()
	require.Len(t, responses, 1)
	assert.Equal(t, "fc-1", responses[0].ID)
	assert.Equal(t, "payload", responses[0].Response)
	assert.Empty(t, responses[0].Error)
	assert.False(t, fr.IsFinalResponse())
}

func TestNewFunctionResponseEvent_Error(t *testing.T) {
	fr := NewFunctionResponseEvent("inv-1", "assistant", "fc-1", "research_company", nil, assert.AnError)
	responses := fr.GetFunctionResponses()
	require.Len(t, responses, 1)
	assert.Equal(t, assert.AnError.Error(), responses[0].Error)
}

func TestEvent_GetFunctionCalls(t *testing.T) {
	ev := NewEvent("inv-1", "assistant")
	ev.Content = &Content{Role: "assistant", Parts: []Part{
		TextPart{Text: "calling"},
		FunctionCallPart{FunctionCall: FunctionCall{ID: "fc-1", Name: "research_company", Arguments: `{"company_name":"Sony"}`}},
	}}

	calls := ev.GetFunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "research_company", calls[0].Name)
	assert.False(t, ev.IsFinalResponse())
}

func TestSession_StateAndEvents(t *testing.T) {
	sess := NewSession("s1")

	sess.SetState("k", "v")
	v, ok := sess.GetState("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = sess.GetState("missing")
	assert.False(t, ok)

	ev := NewUserMessageEvent("inv-1", "hello")
	ev.StateDelta = map[string]any{"account_plan": "## Company Overview\ntbd\n"}
	sess.AddEvent(ev)

	// Event state deltas are merged into session state on append.
	planDoc, ok := sess.GetState("account_plan")
	assert.True(t, ok)
	assert.Equal(t, "## Company Overview\ntbd\n", planDoc)

	events := sess.GetEvents()
	require.Len(t, events, 1)

	// Defensive copy: mutating the returned slice must not affect the session.
	events[0].Author = "tampered"
	assert.Equal(t, "user", sess.GetEvents()[0].Author)
}

func TestSession_GetConversationHistory(t *testing.T) {
	sess := NewSession("s1")
	sess.AddEvent(NewUserMessageEvent("inv-1", "hi"))

	control := NewEvent("inv-1", "system")
	sess.AddEvent(control) // nil content, excluded

	sysMsg := NewEvent("inv-1", "system")
	sysMsg.Content = &Content{Role: "system", Parts: []Part{TextPart{Text: "rules"}}}
	sess.AddEvent(sysMsg) // system role, excluded

	sess.AddEvent(NewMessageEvent("inv-1", "assistant", "hello"))

	history := sess.GetConversationHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Content.Role)
	assert.Equal(t, "assistant", history[1].Content.Role)
}

func TestSession_Clone(t *testing.T) {
	sess := NewSession("s1")
	sess.SetState("k", "v")
	sess.AddEvent(NewUserMessageEvent("inv-1", "hi"))

	clone := sess.Clone()
	clone.SetState("k", "changed")
	clone.AddEvent(NewUserMessageEvent("inv-2", "more"))

	v, _ := sess.GetState("k")
	assert.Equal(t, "v", v)
	assert.Len(t, sess.GetEvents(), 1)
	assert.Len(t, clone.GetEvents(), 2)
}

func TestToolContext(t *testing.T) {
	sess := NewSession("s1")
	sess.SetState("existing", 1)

	tc := NewToolContext(context.Background(), sess, "inv-1", "fc-1", nil)
	assert.Equal(t, "s1", tc.SessionID())
	assert.Equal(t, "inv-1", tc.InvocationID())
	assert.Equal(t, "fc-1", tc.FunctionCallID())
	assert.NotNil(t, tc.Logger())
	assert.NotNil(t, tc.Context())

	// Committed state is visible.
	v, ok := tc.GetState("existing")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	// SetState stays in the pending delta, shadowing reads, without touching
	// the session until the resulting event is applied.
	tc.SetState("account_plan", "doc")
	v, ok = tc.GetState("account_plan")
	assert.True(t, ok)
	assert.Equal(t, "doc", v)

	_, ok = sess.GetState("account_plan")
	assert.False(t, ok)

	assert.Equal(t, map[string]any{"account_plan": "doc"}, tc.StateDelta())
}
