package plan

import (
	"context"

	"github.com/kaiwahq/kaiwa/core"
)

// Input carries everything a planner needs for one generation: the canonical
// query plus the per-turn context blocks assembled by the classifier chain.
type Input struct {
	// Query is the canonical (disambiguated) user query.
	Query string
	// Topic is the extracted subject for skill-learning style plans.
	Topic string
	// Activity is the extracted activity for focus-mode plans.
	Activity string
	// Duration is the extracted session length for focus-mode plans.
	Duration string
	// Mode distinguishes plan framings sharing a planner: "" for a fresh
	// plan, "resume" to continue earlier learning, "checkpoint" to review
	// progress so far.
	Mode string
	// HistorySummary is the bounded chat-history block.
	HistorySummary string
	// UserState is the compact name/locale/timezone summary.
	UserState string
	// Catalog is the registry's tool description block.
	Catalog string
	// Classification is set for chain-of-thought planning of multi-intent
	// queries.
	Classification *core.Classification
	// Memories are relevant stored facts supporting proactive suggestions.
	Memories []core.SearchResult
}

// PlannerSet is the closed, statically injected set of plan generators, one
// method per plan kind. The default implementation is Generator; tests
// substitute their own.
type PlannerSet interface {
	SkillLearning(ctx context.Context, in Input) (Plan, error)
	FocusMode(ctx context.Context, in Input) (Plan, error)
	NewsAggregation(ctx context.Context, in Input) (Plan, error)
	ChainOfThought(ctx context.Context, in Input) (Plan, error)
	ProactiveSuggestion(ctx context.Context, in Input) (Plan, error)
}
