package classify

import (
	"context"
	"regexp"

	"github.com/kaiwahq/kaiwa/plan"
)

var (
	skillPattern = regexp.MustCompile(
		`(?i)\b(?:teach\s+me|i\s+want\s+to\s+learn|help\s+me\s+learn|learn(?:ing)?(?:\s+how\s+to)?|how\s+do\s+i\s+get\s+better\s+at)\s+(?P<topic>[\w' -]+)`)
	skillTopicIndex = skillPattern.SubexpIndex("topic")
)

// SkillLearningDetector claims queries asking to learn a new topic from
// scratch ("teach me spanish", "I want to learn the guitar").
type SkillLearningDetector struct{}

func (SkillLearningDetector) Name() string { return "skill_learning" }

func (d SkillLearningDetector) TryClaim(ctx context.Context, dctx *DetectionContext) (plan.Plan, error) {
	m := skillPattern.FindStringSubmatch(dctx.Query)
	if m == nil {
		return nil, nil
	}

	topic := cleanCapture(m[skillTopicIndex])
	if topic == "" {
		topic = memoryFallback(ctx, dctx, learningVocabulary, learningTopicPattern)
	}
	if topic == "" {
		return nil, nil
	}

	in := dctx.plannerInput()
	in.Topic = topic
	return dctx.Planners.SkillLearning(ctx, in)
}
