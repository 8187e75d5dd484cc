package classify

import (
	"context"
	"regexp"

	"github.com/kaiwahq/kaiwa/plan"
)

var (
	checkpointPattern = regexp.MustCompile(
		`(?i)\b(?:how\s+am\s+i\s+doing|my\s+progress|how\s+far\s+(?:have\s+i|am\s+i)|what\s+have\s+i\s+learned)\b(?:\s+(?:with|on|in|learning)\s+(?P<topic>[\w' -]+))?`)
	checkpointTopicIndex = checkpointPattern.SubexpIndex("topic")
)

// ProgressCheckpointDetector claims queries asking how the user's learning is
// going ("how am I doing with spanish", "what have I learned so far"). The
// resulting plan reviews progress rather than introducing new material.
type ProgressCheckpointDetector struct{}

func (ProgressCheckpointDetector) Name() string { return "progress_checkpoint" }

func (d ProgressCheckpointDetector) TryClaim(ctx context.Context, dctx *DetectionContext) (plan.Plan, error) {
	m := checkpointPattern.FindStringSubmatch(dctx.Query)
	if m == nil {
		return nil, nil
	}

	topic := cleanCapture(m[checkpointTopicIndex])
	if topic == "" {
		topic = memoryFallback(ctx, dctx, learningVocabulary, learningTopicPattern)
	}
	if topic == "" {
		return nil, nil
	}

	in := dctx.plannerInput()
	in.Topic = topic
	in.Mode = "checkpoint"
	return dctx.Planners.SkillLearning(ctx, in)
}
