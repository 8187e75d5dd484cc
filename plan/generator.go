package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaiwahq/kaiwa/completion"
	"github.com/kaiwahq/kaiwa/logging"
	"github.com/kaiwahq/kaiwa/tool"
)

// GeneratorOptions configure a Generator.
type GeneratorOptions struct {
	// Model optionally overrides the completion client's default model.
	Model string
	// Logger receives generation logs. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Generator is the default PlannerSet: each plan kind is produced by one
// structured completion call and validated against the tool registry before
// it is returned. The Generator never executes tools.
type Generator struct {
	client   completion.Client
	registry *tool.Registry
	opts     GeneratorOptions
}

var _ PlannerSet = (*Generator)(nil)

// NewGenerator creates a Generator bound to a completion client and the
// registry its plans must conform to.
func NewGenerator(client completion.Client, registry *tool.Registry, optFns ...func(o *GeneratorOptions)) *Generator {
	opts := GeneratorOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{client: client, registry: registry, opts: opts}
}

// SkillLearning builds a phased curriculum for in.Topic. Mode "resume"
// continues where earlier sessions stopped; mode "checkpoint" reviews
// progress instead of introducing new material.
func (g *Generator) SkillLearning(ctx context.Context, in Input) (Plan, error) {
	framing := "Design a phased plan for learning the topic from scratch."
	switch in.Mode {
	case "resume":
		framing = "The user is resuming earlier learning. Plan the next phases, building on what the history shows they already covered."
	case "checkpoint":
		framing = "The user wants to review progress. Plan phases that recap what was learned and assess where they stand before continuing."
	}

	var p SkillLearningPlan
	if err := g.generate(ctx, KindSkillLearning, framing, in, skillLearningSchema(), &p); err != nil {
		return nil, err
	}
	if p.Topic == "" {
		p.Topic = in.Topic
	}
	if len(p.LearningPhases) == 0 {
		return nil, fmt.Errorf("skill learning plan for %q has no phases", p.Topic)
	}
	return g.validated(&p)
}

// FocusMode prepares a focus session around in.Activity.
func (g *Generator) FocusMode(ctx context.Context, in Input) (Plan, error) {
	framing := "Set up a distraction-free focus session for the activity. Tool calls that can run side by side belong in the parallel group."
	var p FocusModePlan
	if err := g.generate(ctx, KindFocusMode, framing, in, focusModeSchema(), &p); err != nil {
		return nil, err
	}
	if p.Activity == "" {
		p.Activity = in.Activity
	}
	if p.Duration == "" {
		p.Duration = in.Duration
	}
	if len(p.ToolOrchestration.ParallelGroup) == 0 && len(p.ToolOrchestration.FollowUp) == 0 {
		return nil, fmt.Errorf("focus mode plan for %q has no steps", p.Activity)
	}
	return g.validated(&p)
}

// NewsAggregation builds a briefing plan across the topics and sources the
// query asks for.
func (g *Generator) NewsAggregation(ctx context.Context, in Input) (Plan, error) {
	framing := "Plan a news briefing: which topics to cover, which sources to pull from, and the tool calls that gather and condense them."
	var p NewsAggregationPlan
	if err := g.generate(ctx, KindNewsAggregation, framing, in, newsAggregationSchema(), &p); err != nil {
		return nil, err
	}
	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("news aggregation plan has no steps")
	}
	return g.validated(&p)
}

// ChainOfThought decomposes a multi-intent query into one group per intent.
func (g *Generator) ChainOfThought(ctx context.Context, in Input) (Plan, error) {
	framing := "The message bundles several distinct requests. Address each intent with its own group of steps, in the order the user stated them."
	if c := in.Classification; c != nil && c.PrimaryIntent != "" {
		intents := append([]string{c.PrimaryIntent}, c.SecondaryIntents...)
		framing += " Detected intents: " + strings.Join(intents, "; ") + "."
	}

	var p ChainOfThoughtPlan
	if err := g.generate(ctx, KindChainOfThought, framing, in, chainOfThoughtSchema(), &p); err != nil {
		return nil, err
	}
	if len(p.Intents) == 0 {
		return nil, fmt.Errorf("chain of thought plan has no intents")
	}
	return g.validated(&p)
}

// ProactiveSuggestion turns stored memories into one concrete, helpful nudge.
func (g *Generator) ProactiveSuggestion(ctx context.Context, in Input) (Plan, error) {
	framing := "Based on what is known about the user, offer one brief, concretely useful suggestion. Add at most one supporting tool call."
	if len(in.Memories) > 0 {
		var lines []string
		for _, m := range in.Memories {
			lines = append(lines, "- "+m.Content)
		}
		framing += "\nKnown about the user:\n" + strings.Join(lines, "\n")
	}

	var p ProactiveSuggestionPlan
	if err := g.generate(ctx, KindProactiveSuggestion, framing, in, proactiveSuggestionSchema(), &p); err != nil {
		return nil, err
	}
	if p.Suggestion == "" {
		return nil, fmt.Errorf("proactive suggestion plan is empty")
	}
	return g.validated(&p)
}

func (g *Generator) generate(ctx context.Context, kind Kind, framing string, in Input, schema map[string]any, out any) error {
	err := g.client.Complete(ctx, completion.Request{
		SystemPrompt: framing + "\n\nUse only the tools listed below, with their required parameters.\nRespond only with the requested JSON object.\n\nAvailable tools:\n" + in.Catalog,
		Input:        renderInput(in),
		Schema:       schema,
		Model:        g.opts.Model,
		CallerID:     "planner." + string(kind),
	}, out)
	if err != nil {
		g.opts.Logger.Warn("plan.generate.failed", "kind", string(kind), "error", err)
		return fmt.Errorf("generate %s plan: %w", kind, err)
	}
	return nil
}

// validated projects the variant and checks it against the registry: the
// dependency graph must be valid, every tool must exist and every required
// argument must be supplied.
func (g *Generator) validated(p Plan) (Plan, error) {
	ep := p.ToExecutionPlan()
	if err := ep.Validate(); err != nil {
		return nil, fmt.Errorf("%s plan invalid: %w", p.Kind(), err)
	}
	for _, step := range ep.ToolSteps() {
		def, ok := g.registry.Resolve(step.Tool)
		if !ok {
			return nil, fmt.Errorf("%s plan step %s references unknown tool %q", p.Kind(), step.ID, step.Tool)
		}
		for _, required := range g.registry.RequiredArgs(def.Name) {
			if _, present := step.Args[required]; !present {
				return nil, fmt.Errorf("%s plan step %s misses required argument %q for tool %q", p.Kind(), step.ID, required, step.Tool)
			}
		}
	}
	return p, nil
}

func renderInput(in Input) string {
	var b strings.Builder
	b.WriteString("Message: ")
	b.WriteString(in.Query)
	if in.Topic != "" {
		b.WriteString("\nTopic: ")
		b.WriteString(in.Topic)
	}
	if in.Activity != "" {
		b.WriteString("\nActivity: ")
		b.WriteString(in.Activity)
	}
	if in.Duration != "" {
		b.WriteString("\nDuration: ")
		b.WriteString(in.Duration)
	}
	if in.UserState != "" {
		b.WriteString("\nUser: ")
		b.WriteString(in.UserState)
	}
	if in.HistorySummary != "" {
		b.WriteString("\n\nRecent conversation:\n")
		b.WriteString(in.HistorySummary)
	}
	return b.String()
}

func plannedStepSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":        map[string]any{"type": "string"},
			"toolName":  map[string]any{"type": "string"},
			"arguments": map[string]any{"type": "object"},
			"dependsOn": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"parallel":  map[string]any{"type": "boolean"},
			"rationale": map[string]any{"type": "string"},
			"narrative": map[string]any{"type": "string"},
		},
	}
}

func skillLearningSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string"},
			"learningPhases": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":        map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
						"steps":       map[string]any{"type": "array", "items": plannedStepSchema()},
					},
					"required": []string{"name", "steps"},
				},
			},
		},
		"required": []string{"topic", "learningPhases"},
	}
}

func focusModeSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"activity": map[string]any{"type": "string"},
			"duration": map[string]any{"type": "string"},
			"intro":    map[string]any{"type": "string"},
			"toolOrchestration": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"parallelGroup": map[string]any{"type": "array", "items": plannedStepSchema()},
					"followUp":      map[string]any{"type": "array", "items": plannedStepSchema()},
				},
				"required": []string{"parallelGroup"},
			},
		},
		"required": []string{"activity", "toolOrchestration"},
	}
}

func newsAggregationSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topics":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"sources": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"steps":   map[string]any{"type": "array", "items": plannedStepSchema()},
		},
		"required": []string{"topics", "steps"},
	}
}

func chainOfThoughtSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"intents": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"intent": map[string]any{"type": "string"},
						"steps":  map[string]any{"type": "array", "items": plannedStepSchema()},
					},
					"required": []string{"intent", "steps"},
				},
			},
		},
		"required": []string{"intents"},
	}
}

func proactiveSuggestionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestion": map[string]any{"type": "string"},
			"step":       plannedStepSchema(),
		},
		"required": []string{"suggestion"},
	}
}
