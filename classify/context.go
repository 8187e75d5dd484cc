package classify

import (
	"math/rand"
	"time"

	"github.com/kaiwahq/kaiwa/completion"
	"github.com/kaiwahq/kaiwa/core"
	"github.com/kaiwahq/kaiwa/internal/util"
	"github.com/kaiwahq/kaiwa/logging"
	"github.com/kaiwahq/kaiwa/plan"
	"github.com/kaiwahq/kaiwa/tool"
)

// DetectionContext carries everything detectors need for one turn. It is
// assembled once per turn and shared read-only across all detector
// invocations, so the catalog, history summary and user-state blocks are
// formatted exactly once.
type DetectionContext struct {
	// Query is the canonical (disambiguated) user query.
	Query string
	// History is the conversation so far, oldest first.
	History []core.Turn
	// Profile is the optional read-only user profile.
	Profile *core.UserProfile
	// Disambiguation is the disambiguator's result, nil when skipped.
	Disambiguation *core.DisambiguationResult

	// HistorySummary is the bounded role-tagged rendering of History.
	HistorySummary string
	// UserState is the compact profile summary.
	UserState string
	// Catalog is the registry's tool description block.
	Catalog string

	UserID    string
	SessionID string

	// Memory backs detector fallbacks and the proactive context check.
	Memory core.MemoryStore
	// Client serves the multi-intent classification call.
	Client completion.Client
	// Planners produce the plan once a detector claims the query.
	Planners plan.PlannerSet
	// Rand drives the proactive-suggestion probability gate.
	Rand *rand.Rand
	// Logger receives detector activity. Never nil.
	Logger logging.Logger
}

// ContextOptions configure DetectionContext assembly.
type ContextOptions struct {
	// MaxHistoryTurns bounds the history summary window.
	MaxHistoryTurns int
	// MaxLineLen truncates each summary line.
	MaxLineLen int
	// MaxSummaryLen caps the whole summary block.
	MaxSummaryLen int
	// Rand overrides the default time-seeded source.
	Rand *rand.Rand
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// ContextInput bundles the per-turn raw inputs for assembly.
type ContextInput struct {
	Query          string
	History        []core.Turn
	Profile        *core.UserProfile
	Disambiguation *core.DisambiguationResult
	UserID         string
	SessionID      string
}

// NewDetectionContext assembles the shared per-turn context: it renders the
// registry catalog, the bounded history summary and the user-state block
// once, for reuse by every detector in the chain.
func NewDetectionContext(in ContextInput, registry *tool.Registry, memory core.MemoryStore, client completion.Client, planners plan.PlannerSet, optFns ...func(o *ContextOptions)) *DetectionContext {
	opts := ContextOptions{
		MaxHistoryTurns: 10,
		MaxLineLen:      280,
		MaxSummaryLen:   4000,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	history := in.History
	if len(history) > opts.MaxHistoryTurns {
		history = history[len(history)-opts.MaxHistoryTurns:]
	}
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, string(turn.Role)+": "+util.Truncate(turn.Text(), opts.MaxLineLen))
	}

	var catalog string
	if registry != nil {
		catalog = registry.Catalog()
	}

	return &DetectionContext{
		Query:          in.Query,
		History:        in.History,
		Profile:        in.Profile,
		Disambiguation: in.Disambiguation,
		HistorySummary: util.ClampLines(lines, opts.MaxSummaryLen),
		UserState:      in.Profile.Summary(),
		Catalog:        catalog,
		UserID:         in.UserID,
		SessionID:      in.SessionID,
		Memory:         memory,
		Client:         client,
		Planners:       planners,
		Rand:           opts.Rand,
		Logger:         opts.Logger,
	}
}

// plannerInput seeds a plan.Input with the per-turn context blocks.
func (dctx *DetectionContext) plannerInput() plan.Input {
	return plan.Input{
		Query:          dctx.Query,
		HistorySummary: dctx.HistorySummary,
		UserState:      dctx.UserState,
		Catalog:        dctx.Catalog,
	}
}
