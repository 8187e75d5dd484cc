package classify

import (
	"context"
	"regexp"

	"github.com/kaiwahq/kaiwa/plan"
)

var (
	newsPattern = regexp.MustCompile(
		`(?i)\b(?:news|headlines|briefing|what(?:'s|\s+is)\s+happening)\b(?:\s+(?:about|on|in|for)\s+(?P<topic>[\w' -]+))?`)
	newsTopicIndex = newsPattern.SubexpIndex("topic")

	newsTopicFallbackPattern = regexp.MustCompile(`(?i)(?:interested in|follows?|news about)\s+([\w' -]+)`)
)

const newsVocabulary = "news headlines topics interests follows current events"

// NewsAggregationDetector claims queries asking for news or a briefing
// ("tech news", "what's happening in the world"). A missing topic falls back
// to the user's stored interests; a general briefing is still claimed when
// no topic can be recovered.
type NewsAggregationDetector struct{}

func (NewsAggregationDetector) Name() string { return "news_aggregation" }

func (d NewsAggregationDetector) TryClaim(ctx context.Context, dctx *DetectionContext) (plan.Plan, error) {
	m := newsPattern.FindStringSubmatch(dctx.Query)
	if m == nil {
		return nil, nil
	}

	topic := cleanCapture(m[newsTopicIndex])
	if topic == "" {
		topic = memoryFallback(ctx, dctx, newsVocabulary, newsTopicFallbackPattern)
	}

	in := dctx.plannerInput()
	in.Topic = topic
	return dctx.Planners.NewsAggregation(ctx, in)
}
