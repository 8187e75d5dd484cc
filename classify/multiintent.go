package classify

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kaiwahq/kaiwa/completion"
	"github.com/kaiwahq/kaiwa/core"
	"github.com/kaiwahq/kaiwa/plan"
)

const multiIntentCallerID = "classifier.multi_intent"

const multiIntentSystemPrompt = `You classify whether a user message bundles several distinct requests.
A message is multi-intent when it asks for more than one independent thing
(e.g. "check the weather and remind me to call mom"). Classify the message,
count the intents, and name the primary and any secondary intents.
Respond only with the requested JSON object.`

// minMultiIntentLen is the rune threshold below which a query cannot
// plausibly bundle several requests.
const minMultiIntentLen = 12

// MultiIntentDetector invokes the completion client to decide whether the
// query bundles several requests, and plans each intent separately when it
// does. Single-token or very short queries decline without a completion call.
type MultiIntentDetector struct{}

func (MultiIntentDetector) Name() string { return "multi_intent" }

func (d MultiIntentDetector) TryClaim(ctx context.Context, dctx *DetectionContext) (plan.Plan, error) {
	query := dctx.Query
	if utf8.RuneCountInString(query) < minMultiIntentLen || !strings.ContainsAny(query, " \t") {
		return nil, nil
	}

	var classification core.Classification
	err := dctx.Client.Complete(ctx, completion.Request{
		SystemPrompt: multiIntentSystemPrompt,
		Input:        renderClassificationInput(dctx),
		Schema:       classificationSchema(),
		CallerID:     multiIntentCallerID,
	}, &classification)
	if err != nil {
		// Classification is locally recoverable; treat as a decline so
		// cheaper detectors further down still get their chance.
		dctx.Logger.Warn("classify.multi_intent.failed", "error", err)
		return nil, nil
	}

	if !classification.MultiIntent() {
		return nil, nil
	}

	in := dctx.plannerInput()
	in.Classification = &classification
	return dctx.Planners.ChainOfThought(ctx, in)
}

func renderClassificationInput(dctx *DetectionContext) string {
	var b strings.Builder
	b.WriteString("Message: ")
	b.WriteString(dctx.Query)
	if dctx.UserState != "" {
		b.WriteString("\nUser: ")
		b.WriteString(dctx.UserState)
	}
	if dctx.HistorySummary != "" {
		b.WriteString("\n\nRecent conversation:\n")
		b.WriteString(dctx.HistorySummary)
	}
	return b.String()
}

func classificationSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category":         map[string]any{"type": "string", "enum": []any{"single_intent", "multi_intent_complex"}},
			"isMultiIntent":    map[string]any{"type": "boolean"},
			"intentCount":      map[string]any{"type": "integer"},
			"primaryIntent":    map[string]any{"type": "string"},
			"secondaryIntents": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"category", "isMultiIntent", "intentCount", "primaryIntent"},
	}
}
