// Package accountmesh provides a high-level façade for building account plans
// from public company research. Most applications interact with this package
// by:
//  1. Creating an AccountMesh via New() with a model (optionally overriding
//     summary sources, session store and logger)
//  2. Driving conversations with Chat(), which lets the assistant research
//     companies and edit account plan sections through its tools
//  3. Or calling Research() / UpdatePlan() directly when no conversational
//     layer is needed
//
// All defaults are safe for local development and testing; production
// deployments typically supply a durable session store and a structured
// logger.
package accountmesh

import (
	"context"

	"github.com/hupe1980/accountmesh/agent"
	"github.com/hupe1980/accountmesh/core"
	"github.com/hupe1980/accountmesh/logging"
	"github.com/hupe1980/accountmesh/model"
	"github.com/hupe1980/accountmesh/plan"
	"github.com/hupe1980/accountmesh/research"
	"github.com/hupe1980/accountmesh/research/duckduckgo"
	"github.com/hupe1980/accountmesh/research/wikipedia"
	"github.com/hupe1980/accountmesh/runner"
	"github.com/hupe1980/accountmesh/session"
)

// Options configures the AccountMesh instance.
type Options struct {
	// Sources queried per research request. Defaults to Wikipedia and
	// DuckDuckGo; pass an explicit empty slice to run fallback-only.
	Sources []research.Source
	// SessionStore persists conversations (defaults to in-memory).
	SessionStore core.SessionStore
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
	// AssistantName is the event author name of the assistant.
	AssistantName string
}

// AccountMesh is the high-level façade aggregating the aggregator, the
// section editor and the conversational assistant.
type AccountMesh struct {
	aggregator *research.Aggregator
	runner     *runner.Runner
	logger     logging.Logger
}

// New creates a new AccountMesh instance with optional overrides. Any unset
// service is initialized with an in-memory / default implementation.
func New(llm model.Model, optFns ...func(o *Options)) *AccountMesh {
	opts := Options{
		Sources:       []research.Source{wikipedia.New(), duckduckgo.New()},
		SessionStore:  session.NewInMemoryStore(),
		Logger:        logging.NoOpLogger{},
		AssistantName: "company_research_assistant",
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	aggregator := research.NewAggregator(func(o *research.Options) {
		o.Sources = opts.Sources
		o.Logger = opts.Logger
	})

	assistant := agent.New(opts.AssistantName, llm, func(o *agent.Options) {
		o.Description = "A conversational agent that researches companies, detects conflicting " +
			"information, and maintains structured account plans section by section."
		o.Instruction = agent.NewInstructionFromText(assistantInstruction())
		o.Tools = planTools(aggregator)
		o.Logger = opts.Logger
	})

	r := runner.New(assistant, func(o *runner.Options) {
		o.SessionStore = opts.SessionStore
		o.Logger = opts.Logger
	})

	return &AccountMesh{aggregator: aggregator, runner: r, logger: opts.Logger}
}

// Research aggregates public information about the named company. It never
// fails: source unavailability manifests only as empty summaries and the
// NoExternalData flag.
func (m *AccountMesh) Research(ctx context.Context, companyName string) research.Result {
	return m.aggregator.Research(ctx, companyName)
}

// UpdatePlan replaces (or appends) the named section of an account plan
// document and returns the updated document. The document is exchanged purely
// by value; nothing is persisted.
func (m *AccountMesh) UpdatePlan(document, sectionName, newBody string) string {
	return plan.SetSection(document, sectionName, newBody)
}

// Chat runs one conversational turn in the given session and returns the
// assistant's final reply plus all events produced this turn.
func (m *AccountMesh) Chat(ctx context.Context, sessionID, message string) (string, []core.Event, error) {
	_, reply, events, err := m.runner.Run(ctx, sessionID, core.NewUserContent(message))
	return reply, events, err
}

// Session returns a clone of the stored session for inspection (e.g. to read
// the latest account plan from state).
func (m *AccountMesh) Session(sessionID string) (*core.Session, error) {
	return m.runner.Session(sessionID)
}
