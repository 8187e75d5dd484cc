package classify

import (
	"context"
	"regexp"
	"strings"

	"github.com/kaiwahq/kaiwa/core"
	"github.com/kaiwahq/kaiwa/plan"
)

// Detector decides whether a query belongs to its specialized category and,
// if so, produces the plan addressing it.
//
// TryClaim returns (nil, nil) to decline, (plan, nil) to claim, and
// (nil, err) when it claimed the query but plan generation failed. A failed
// claim has no user-visible effect, so the chain always falls through to the
// next detector.
type Detector interface {
	Name() string
	TryClaim(ctx context.Context, dctx *DetectionContext) (plan.Plan, error)
}

// memoryFallback recovers a missing capture by searching memory with the
// detector's fixed vocabulary and applying a secondary pattern over the top
// results. Returns "" when memory is unavailable or nothing matches.
func memoryFallback(ctx context.Context, dctx *DetectionContext, vocabulary string, secondary *regexp.Regexp) string {
	if dctx.Memory == nil {
		return ""
	}
	hits, err := dctx.Memory.Search(ctx, dctx.UserID, vocabulary, core.SearchOptions{Limit: 3})
	if err != nil {
		dctx.Logger.Warn("classify.memory_fallback.failed", "error", err)
		return ""
	}
	for _, hit := range hits {
		if m := secondary.FindStringSubmatch(hit.Content); m != nil {
			return strings.TrimSpace(m[len(m)-1])
		}
	}
	return ""
}

// cleanCapture trims a regex capture down to a usable topic/activity string.
func cleanCapture(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".!?,")
	return strings.TrimSpace(s)
}
