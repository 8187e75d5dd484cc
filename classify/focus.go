package classify

import (
	"context"
	"regexp"

	"github.com/kaiwahq/kaiwa/plan"
)

var (
	focusPattern = regexp.MustCompile(
		`(?i)\b(?:focus|deep\s+work|concentrate)\b(?:\s+(?:on|for)\s+(?P<activity>[\w' -]+?))?(?:\s+for\s+(?P<duration>\d+\s*(?:min(?:ute)?s?|hours?)))?\s*$`)
	focusActivityIndex = focusPattern.SubexpIndex("activity")
	focusDurationIndex = focusPattern.SubexpIndex("duration")

	focusActivityFallbackPattern = regexp.MustCompile(`(?i)(?:working on|project|task|writing|studying)\s*:?\s*([\w' -]+)`)
)

const focusVocabulary = "focus deep work project task deadline writing studying"

// FocusModeDetector claims queries asking to start a focus or deep-work
// session ("help me focus on writing for 45 minutes"). A missing activity
// falls back to the user's current projects in memory.
type FocusModeDetector struct{}

func (FocusModeDetector) Name() string { return "focus_mode" }

func (d FocusModeDetector) TryClaim(ctx context.Context, dctx *DetectionContext) (plan.Plan, error) {
	m := focusPattern.FindStringSubmatch(dctx.Query)
	if m == nil {
		return nil, nil
	}

	activity := cleanCapture(m[focusActivityIndex])
	duration := cleanCapture(m[focusDurationIndex])
	if activity == "" {
		activity = memoryFallback(ctx, dctx, focusVocabulary, focusActivityFallbackPattern)
	}
	if activity == "" {
		return nil, nil
	}

	in := dctx.plannerInput()
	in.Activity = activity
	in.Duration = duration
	return dctx.Planners.FocusMode(ctx, in)
}
