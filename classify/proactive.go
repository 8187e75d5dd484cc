package classify

import (
	"context"

	"github.com/kaiwahq/kaiwa/core"
	"github.com/kaiwahq/kaiwa/plan"
)

// proactiveContextQuery is the fixed memory query deciding whether enough is
// known about the user to suggest anything at all.
const proactiveContextQuery = "important facts preferences goals reminders interests projects tasks"

// DefaultProactiveProbability is the chance a turn nobody claimed produces a
// proactive suggestion.
const DefaultProactiveProbability = 0.20

// ProactiveSuggestionDetector fires probabilistically on turns no other
// detector claimed, and only when memory holds at least one fact about the
// user. It never triggers on the query's content.
type ProactiveSuggestionDetector struct {
	// Probability gates how often the detector even considers a turn.
	// Zero disables it; the chain constructor defaults it.
	Probability float64
}

func (ProactiveSuggestionDetector) Name() string { return "proactive_suggestion" }

func (d ProactiveSuggestionDetector) TryClaim(ctx context.Context, dctx *DetectionContext) (plan.Plan, error) {
	if dctx.Rand == nil || dctx.Rand.Float64() >= d.Probability {
		return nil, nil
	}
	if dctx.Memory == nil {
		return nil, nil
	}

	memories, err := dctx.Memory.Search(ctx, dctx.UserID, proactiveContextQuery, core.SearchOptions{Limit: 5})
	if err != nil {
		dctx.Logger.Warn("classify.proactive.memory_failed", "error", err)
		return nil, nil
	}
	if len(memories) == 0 {
		// Not enough context to suggest anything useful.
		return nil, nil
	}

	in := dctx.plannerInput()
	in.Memories = memories
	return dctx.Planners.ProactiveSuggestion(ctx, in)
}
