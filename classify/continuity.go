package classify

import (
	"context"
	"regexp"

	"github.com/kaiwahq/kaiwa/plan"
)

var (
	continuityPattern = regexp.MustCompile(
		`(?i)\b(?:continue|resume|keep)\s+(?:learning|studying|practicing|working on)\s*(?P<topic>[\w' -]*)|\bwhere\s+(?:did\s+we|were\s+we|do\s+i)\s+(?:leave\s+off|stop|pick\s+up)\b`)
	continuityTopicIndex = continuityPattern.SubexpIndex("topic")

	// secondary pattern applied to memory hits when the query names no topic.
	learningTopicPattern = regexp.MustCompile(`(?i)(?:learn(?:ing)?|study(?:ing)?|practicing|lesson(?:s)? (?:on|about)|course (?:on|about))\s+([\w' -]+)`)
)

const learningVocabulary = "learn teaching tutorial lesson course studying"

// LearningContinuityDetector claims queries that resume earlier learning
// ("continue learning spanish", "where did we leave off"). When the query
// names no topic, the last learning topic is recovered from memory.
type LearningContinuityDetector struct{}

func (LearningContinuityDetector) Name() string { return "learning_continuity" }

func (d LearningContinuityDetector) TryClaim(ctx context.Context, dctx *DetectionContext) (plan.Plan, error) {
	m := continuityPattern.FindStringSubmatch(dctx.Query)
	if m == nil {
		return nil, nil
	}

	topic := cleanCapture(m[continuityTopicIndex])
	if topic == "" {
		topic = memoryFallback(ctx, dctx, learningVocabulary, learningTopicPattern)
	}
	if topic == "" {
		return nil, nil
	}

	in := dctx.plannerInput()
	in.Topic = topic
	in.Mode = "resume"
	return dctx.Planners.SkillLearning(ctx, in)
}
