package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hupe1980/accountmesh/core"
	"github.com/hupe1980/accountmesh/logging"
	"github.com/hupe1980/accountmesh/model"
	"github.com/hupe1980/accountmesh/tool"
)

// Options configures an Assistant instance.
type Options struct {
	// Description is a short natural language summary of the assistant.
	Description string
	// Instruction is the system prompt (static or provider-backed).
	Instruction Instruction
	// MaxTurns bounds model calls per Run, guarding against tool loops.
	MaxTurns int
	// MaxParallelTools limits concurrent tool executions within a batch.
	// 0 or less means one goroutine per call.
	MaxParallelTools int
	// ToolTimeout bounds each individual tool execution.
	ToolTimeout time.Duration
	// MaxHistoryEvents limits the conversation history sent to the model.
	// 0 means unlimited.
	MaxHistoryEvents int
	// Tools registered with the assistant.
	Tools []tool.Tool
	// Logger used for run loop diagnostics.
	Logger logging.Logger
}

// Assistant is a single tool-calling LLM agent. It holds no per-run mutable
// state; all conversational state lives in the Session, so one Assistant can
// serve many sessions concurrently.
type Assistant struct {
	name             string
	description      string
	llm              model.Model
	instruction      Instruction
	tools            map[string]tool.Tool
	maxTurns         int
	maxParallelTools int
	toolTimeout      time.Duration
	maxHistoryEvents int
	logger           logging.Logger
}

// New creates an Assistant with sensible defaults: an eight turn budget,
// 15 second tool timeout and a generic helpful-assistant instruction.
func New(name string, llm model.Model, optFns ...func(o *Options)) *Assistant {
	opts := Options{
		Instruction: NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		MaxTurns:    8,
		ToolTimeout: 15 * time.Second,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	tools := make(map[string]tool.Tool, len(opts.Tools))
	for _, t := range opts.Tools {
		tools[t.Name()] = t
	}

	return &Assistant{
		name:             name,
		description:      opts.Description,
		llm:              llm,
		instruction:      opts.Instruction,
		tools:            tools,
		maxTurns:         opts.MaxTurns,
		maxParallelTools: opts.MaxParallelTools,
		toolTimeout:      opts.ToolTimeout,
		maxHistoryEvents: opts.MaxHistoryEvents,
		logger:           opts.Logger,
	}
}

// Name returns the assistant name used as event author.
func (a *Assistant) Name() string { return a.name }

// Description returns the short natural language summary of the assistant.
func (a *Assistant) Description() string { return a.description }

// RegisterTool adds a tool to the assistant's capability set.
func (a *Assistant) RegisterTool(t tool.Tool) { a.tools[t.Name()] = t }

// HasTool checks if a tool is registered with the assistant.
func (a *Assistant) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// Run executes one full assistant turn against the session: model call, tool
// execution, repeat until the model answers with plain text or the turn
// budget is exhausted. Produced events are appended to the session and
// returned in emission order.
func (a *Assistant) Run(ctx context.Context, sess *core.Session, invocationID string) ([]core.Event, error) {
	var produced []core.Event

	for turn := 0; turn < a.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return produced, err
		}

		req, err := a.buildRequest(sess)
		if err != nil {
			return produced, fmt.Errorf("build request: %w", err)
		}

		start := time.Now()
		resp, err := a.llm.Generate(ctx, req)
		if err != nil {
			a.logger.Error("agent.model.error", "agent", a.name, "model", a.llm.Info().Name, "error", err.Error())
			return produced, fmt.Errorf("model generate: %w", err)
		}
		a.logger.Debug("agent.model.response",
			"agent", a.name,
			"finish_reason", resp.FinishReason,
			"duration_ms", time.Since(start).Milliseconds(),
		)

		ev := core.NewEvent(invocationID, a.name)
		content := resp.Content
		ev.Content = &content
		sess.AddEvent(ev)
		produced = append(produced, ev)

		calls := ev.GetFunctionCalls()
		if len(calls) == 0 {
			return produced, nil
		}

		responses := a.executeCalls(ctx, sess, invocationID, calls)
		for _, rev := range responses {
			sess.AddEvent(rev)
			produced = append(produced, rev)
		}
	}

	a.logger.Warn("agent.run.turn_budget_exhausted", "agent", a.name, "max_turns", a.maxTurns)

	return produced, nil
}

// buildRequest assembles the model request from the resolved instruction,
// (bounded) conversation history and registered tool definitions.
func (a *Assistant) buildRequest(sess *core.Session) (model.Request, error) {
	instructions, err := a.instruction.Resolve(sess)
	if err != nil {
		return model.Request{}, fmt.Errorf("resolve instruction: %w", err)
	}

	history := sess.GetConversationHistory()
	if a.maxHistoryEvents > 0 && len(history) > a.maxHistoryEvents {
		history = history[len(history)-a.maxHistoryEvents:]
	}

	contents := make([]core.Content, 0, len(history))
	for _, ev := range history {
		contents = append(contents, *ev.Content)
	}

	var defs []model.ToolDefinition
	for _, t := range a.tools {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	return model.Request{
		Instructions: instructions,
		Contents:     contents,
		Tools:        defs,
	}, nil
}

// executeCalls runs a batch of function calls, in parallel bounded by
// maxParallelTools, and returns exactly one response event per call in the
// original call order. Panics are recovered into error responses.
func (a *Assistant) executeCalls(ctx context.Context, sess *core.Session, invocationID string, calls []core.FunctionCall) []core.Event {
	results := make([]core.Event, len(calls))

	maxPar := a.maxParallelTools
	if maxPar <= 0 || maxPar > len(calls) {
		maxPar = len(calls)
	}
	sem := make(chan struct{}, maxPar)

	var wg sync.WaitGroup
	for i, fc := range calls {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, fc core.FunctionCall) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = a.executeCall(ctx, sess, invocationID, fc)
		}(i, fc)
	}
	wg.Wait()

	return results
}

// executeCall runs a single function call with its own timeout and tool
// context, producing the response event (including any state delta).
func (a *Assistant) executeCall(ctx context.Context, sess *core.Session, invocationID string, fc core.FunctionCall) core.Event {
	toolCtx, cancel := a.newToolContext(ctx, sess, invocationID, fc.ID)
	defer cancel()

	t, ok := a.tools[fc.Name]
	if !ok {
		a.logger.Error("agent.function.unknown", "agent", a.name, "function", fc.Name)
		return core.NewFunctionResponseEvent(invocationID, a.name, fc.ID, fc.Name, nil,
			tool.NewToolError(fc.Name, "tool is not registered", "UNKNOWN_TOOL"))
	}

	args := map[string]any{}
	if fc.Arguments != "" {
		if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
			a.logger.Error("agent.function.bad_arguments", "agent", a.name, "function", fc.Name, "error", err.Error())
			return core.NewFunctionResponseEvent(invocationID, a.name, fc.ID, fc.Name, nil,
				tool.NewToolError(fc.Name, fmt.Sprintf("invalid arguments: %v", err), "VALIDATION_ERROR"))
		}
	}

	start := time.Now()
	var (
		result any
		err    error
	)
	func() { // panic safety
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in tool %s: %v", fc.Name, r)
				a.logger.Error("agent.function.panic", "agent", a.name, "function", fc.Name, "recover", r, "stack", string(debug.Stack()))
			}
		}()
		result, err = t.Call(toolCtx, args)
	}()

	a.logger.Info("agent.function.executed",
		"agent", a.name,
		"function", fc.Name,
		"function_call_id", fc.ID,
		"duration_ms", time.Since(start).Milliseconds(),
		"success", err == nil,
	)

	ev := core.NewFunctionResponseEvent(invocationID, a.name, fc.ID, fc.Name, serializeResult(result, err), err)
	ev.StateDelta = toolCtx.StateDelta()
	return ev
}

// newToolContext derives the per-call context honoring the tool timeout.
func (a *Assistant) newToolContext(ctx context.Context, sess *core.Session, invocationID, functionCallID string) (*core.ToolContext, context.CancelFunc) {
	callCtx := ctx
	cancel := context.CancelFunc(func() {})
	if a.toolTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, a.toolTimeout)
	}
	return core.NewToolContext(callCtx, sess, invocationID, functionCallID, a.logger), cancel
}

// serializeResult renders a tool result as the string payload fed back to the
// model. Structured results are JSON encoded; errors yield an empty payload
// (the error itself travels in the FunctionResponse.Error field).
func serializeResult(result any, err error) any {
	if err != nil {
		return nil
	}
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, jerr := json.Marshal(v)
		if jerr != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
