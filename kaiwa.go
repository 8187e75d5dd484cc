// Package kaiwa provides a high-level façade over the intent-resolution
// pipeline: disambiguation, the query classifier chain, plan generation and
// schema-validated tool execution. Most applications interact with this
// package by:
//  1. Building a tool.Registry with their tool definitions
//  2. Creating a Pipeline via New() with a completion client
//  3. Feeding user turns through Process() and executing direct tool calls
//     through Execute()/ExecuteBatch()
//
// All defaults are safe for local development and testing; production
// deployments typically supply a durable memory store and a structured
// logger.
package kaiwa

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/kaiwahq/kaiwa/classify"
	"github.com/kaiwahq/kaiwa/completion"
	"github.com/kaiwahq/kaiwa/core"
	"github.com/kaiwahq/kaiwa/disambig"
	"github.com/kaiwahq/kaiwa/logging"
	"github.com/kaiwahq/kaiwa/memory"
	"github.com/kaiwahq/kaiwa/plan"
	"github.com/kaiwahq/kaiwa/tool"
)

// Options configures the Pipeline.
type Options struct {
	// MemoryStore backs detector fallbacks, the proactive context check and
	// the built-in memory tools. Defaults to an in-memory implementation.
	MemoryStore core.MemoryStore

	// Planners overrides the default completion-backed Generator.
	Planners plan.PlannerSet

	// Rand drives the proactive-suggestion probability gate. Defaults to a
	// time-seeded source; tests inject a fixed seed.
	Rand *rand.Rand

	// HistoryTurns bounds the history window used for disambiguation and
	// classification context.
	HistoryTurns int

	// ProactiveProbability gates the proactive-suggestion detector.
	ProactiveProbability float64

	// DefaultToolTimeout applies to tools without their own timeout.
	DefaultToolTimeout time.Duration

	// Model optionally overrides the completion client's default model for
	// all pipeline calls.
	Model string

	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Pipeline wires the pipeline stages around one registry and one completion
// client. It is safe for concurrent use: all per-turn state lives in values
// created inside Process.
type Pipeline struct {
	registry      *tool.Registry
	client        completion.Client
	memory        core.MemoryStore
	disambiguator *disambig.Disambiguator
	chain         *classify.Chain
	planners      plan.PlannerSet
	executor      *tool.Executor
	logger        logging.Logger
	rand          *rand.Rand
	historyTurns  int
}

// New creates a Pipeline. Any unset service falls back to a safe in-process
// default.
func New(registry *tool.Registry, client completion.Client, optFns ...func(o *Options)) *Pipeline {
	opts := Options{
		HistoryTurns:         10,
		ProactiveProbability: classify.DefaultProactiveProbability,
		DefaultToolTimeout:   tool.DefaultTimeout,
		Logger:               logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MemoryStore == nil {
		opts.MemoryStore = memory.NewInMemoryStore()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Planners == nil {
		opts.Planners = plan.NewGenerator(client, registry, func(o *plan.GeneratorOptions) {
			o.Model = opts.Model
			o.Logger = opts.Logger
		})
	}

	return &Pipeline{
		registry: registry,
		client:   client,
		memory:   opts.MemoryStore,
		disambiguator: disambig.New(client, func(o *disambig.Options) {
			o.MaxTurns = opts.HistoryTurns
			o.Model = opts.Model
			o.Logger = opts.Logger
		}),
		chain: classify.NewChain(func(o *classify.ChainOptions) {
			o.ProactiveProbability = opts.ProactiveProbability
			o.Logger = opts.Logger
		}),
		planners: opts.Planners,
		executor: tool.NewExecutor(registry, func(o *tool.ExecutorOptions) {
			o.DefaultTimeout = opts.DefaultToolTimeout
			o.Memory = opts.MemoryStore
			o.Logger = opts.Logger
		}),
		logger:       opts.Logger,
		rand:         opts.Rand,
		historyTurns: opts.HistoryTurns,
	}
}

// TurnInput is one user turn plus its conversational context. History is
// owned by the caller and read-only for the pipeline.
type TurnInput struct {
	SessionID string
	UserID    string
	Query     string
	History   []core.Turn
	Profile   *core.UserProfile
	Locale    string
}

// TurnOutcome is the normalized result of one turn through the pipeline.
type TurnOutcome struct {
	// Query is the raw input query.
	Query string `json:"query"`
	// ResolvedQuery is the canonical query downstream stages used.
	ResolvedQuery string `json:"resolvedQuery"`
	// Disambiguation is nil when disambiguation skipped or failed.
	Disambiguation *core.DisambiguationResult `json:"disambiguation,omitempty"`
	// Detector names the claiming detector; empty when nothing claimed.
	Detector string `json:"detector,omitempty"`
	// PlanKind is the claimed plan's kind; empty when nothing claimed.
	PlanKind string `json:"planKind,omitempty"`
	// Plan is the projected execution plan; nil when nothing claimed.
	Plan *core.ExecutionPlan `json:"plan,omitempty"`
	// StepResults are the executed plan steps, in execution order.
	StepResults []tool.StepResult `json:"stepResults,omitempty"`
}

// Claimed reports whether a detector claimed the turn.
func (o *TurnOutcome) Claimed() bool { return o.Detector != "" }

// Process runs one turn end to end: disambiguate, classify, and for a
// claimed turn generate and execute the plan. An unclaimed turn passes the
// resolved query through unchanged for ordinary single-tool handling.
func (p *Pipeline) Process(ctx context.Context, in TurnInput) (*TurnOutcome, error) {
	query := strings.TrimSpace(in.Query)
	outcome := &TurnOutcome{Query: query, ResolvedQuery: query}

	result := p.disambiguator.Disambiguate(ctx, query, in.History, in.Profile)
	if result != nil {
		outcome.Disambiguation = result
		if canonical := result.CanonicalQuery(); canonical != "" {
			outcome.ResolvedQuery = canonical
		}
	}

	dctx := classify.NewDetectionContext(
		classify.ContextInput{
			Query:          outcome.ResolvedQuery,
			History:        in.History,
			Profile:        in.Profile,
			Disambiguation: result,
			UserID:         in.UserID,
			SessionID:      in.SessionID,
		},
		p.registry, p.memory, p.client, p.planners,
		func(o *classify.ContextOptions) {
			o.MaxHistoryTurns = p.historyTurns
			o.Rand = p.rand
			o.Logger = p.logger
		},
	)

	claim := p.chain.Classify(ctx, dctx)
	if claim == nil {
		return outcome, nil
	}

	outcome.Detector = claim.Detector
	outcome.PlanKind = string(claim.Plan.Kind())
	outcome.Plan = claim.Plan.ToExecutionPlan()
	outcome.StepResults = p.executor.ExecutePlan(ctx, outcome.Plan, core.InvocationInfo{
		UserID:    in.UserID,
		SessionID: in.SessionID,
		Locale:    in.Locale,
	})
	return outcome, nil
}

// Execute runs one direct tool call through the pipeline's executor.
func (p *Pipeline) Execute(ctx context.Context, nameOrAlias string, args map[string]any, info core.InvocationInfo) core.ToolResult {
	return p.executor.Execute(ctx, nameOrAlias, args, info)
}

// ExecuteBatch runs direct tool calls concurrently with input-order results.
func (p *Pipeline) ExecuteBatch(ctx context.Context, calls []tool.BatchCall, info core.InvocationInfo) []core.ToolResult {
	return p.executor.ExecuteBatch(ctx, calls, info)
}

// Registry exposes the pipeline's immutable tool registry.
func (p *Pipeline) Registry() *tool.Registry { return p.registry }
