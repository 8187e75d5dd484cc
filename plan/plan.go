package plan

import (
	"fmt"

	"github.com/kaiwahq/kaiwa/core"
)

// Kind enumerates the supported plan variants.
type Kind string

const (
	// KindSkillLearning is a phased learning curriculum plan.
	KindSkillLearning Kind = "skill_learning"
	// KindFocusMode is a focus/deep-work session setup plan.
	KindFocusMode Kind = "focus_mode"
	// KindNewsAggregation is a multi-source news briefing plan.
	KindNewsAggregation Kind = "news_aggregation"
	// KindChainOfThought is a per-intent decomposition of a complex query.
	KindChainOfThought Kind = "chain_of_thought"
	// KindProactiveSuggestion is an unprompted assistant-initiated nudge.
	KindProactiveSuggestion Kind = "proactive_suggestion"
)

// Plan is the tagged-variant interface all specialized plans implement.
type Plan interface {
	Kind() Kind
	// ToExecutionPlan projects the variant's domain fields onto the common
	// group/step shape consumed by the tool executor.
	ToExecutionPlan() *core.ExecutionPlan
}

// PlannedStep is the neutral step shape plan variants carry before
// projection. A step with an empty Tool is a narrative step.
type PlannedStep struct {
	ID        string         `json:"id,omitempty"`
	Tool      string         `json:"toolName,omitempty"`
	Args      map[string]any `json:"arguments,omitempty"`
	DependsOn []string       `json:"dependsOn,omitempty"`
	Parallel  bool           `json:"parallel,omitempty"`
	Rationale string         `json:"rationale,omitempty"`
	Narrative string         `json:"narrative,omitempty"`
}

// stepCounter hands out fallback IDs for steps the model left unnamed.
type stepCounter int

func (c *stepCounter) next() string {
	*c++
	return fmt.Sprintf("s%d", int(*c))
}

func (s PlannedStep) toStep(c *stepCounter) core.ExecutionStep {
	id := s.ID
	if id == "" {
		id = c.next()
	} else {
		*c++
	}
	if s.Tool == "" {
		desc := s.Narrative
		if desc == "" {
			desc = s.Rationale
		}
		return core.NarrativeStep{ID: id, Description: desc}
	}
	return core.ToolCallStep{
		ID:        id,
		Tool:      s.Tool,
		Args:      s.Args,
		DependsOn: s.DependsOn,
		Parallel:  s.Parallel,
		Rationale: s.Rationale,
	}
}

func toSteps(c *stepCounter, planned []PlannedStep) []core.ExecutionStep {
	steps := make([]core.ExecutionStep, 0, len(planned))
	for _, p := range planned {
		steps = append(steps, p.toStep(c))
	}
	return steps
}

// LearningPhase is one stage of a skill-learning curriculum.
type LearningPhase struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Steps       []PlannedStep `json:"steps"`
}

// SkillLearningPlan structures learning a topic into ordered phases.
type SkillLearningPlan struct {
	Topic          string          `json:"topic"`
	LearningPhases []LearningPhase `json:"learningPhases"`
}

func (p *SkillLearningPlan) Kind() Kind { return KindSkillLearning }

func (p *SkillLearningPlan) ToExecutionPlan() *core.ExecutionPlan {
	var c stepCounter
	out := &core.ExecutionPlan{}
	for _, phase := range p.LearningPhases {
		out.Groups = append(out.Groups, core.ExecutionGroup{
			IntentAddressed: fmt.Sprintf("learn %s: %s", p.Topic, phase.Name),
			Steps:           toSteps(&c, phase.Steps),
		})
	}
	return out
}

// ToolOrchestration describes the tool calls that set up a focus session.
// Steps in the parallel group run concurrently.
type ToolOrchestration struct {
	ParallelGroup []PlannedStep `json:"parallelGroup"`
	FollowUp      []PlannedStep `json:"followUp,omitempty"`
}

// FocusModePlan prepares a distraction-free session around one activity.
type FocusModePlan struct {
	Activity          string            `json:"activity"`
	Duration          string            `json:"duration,omitempty"`
	Intro             string            `json:"intro,omitempty"`
	ToolOrchestration ToolOrchestration `json:"toolOrchestration"`
}

func (p *FocusModePlan) Kind() Kind { return KindFocusMode }

func (p *FocusModePlan) ToExecutionPlan() *core.ExecutionPlan {
	var c stepCounter
	intent := fmt.Sprintf("focus session: %s", p.Activity)

	var steps []core.ExecutionStep
	if p.Intro != "" {
		steps = append(steps, core.NarrativeStep{ID: c.next(), Description: p.Intro})
	}
	for _, planned := range p.ToolOrchestration.ParallelGroup {
		planned.Parallel = true
		steps = append(steps, planned.toStep(&c))
	}
	steps = append(steps, toSteps(&c, p.ToolOrchestration.FollowUp)...)

	return &core.ExecutionPlan{Groups: []core.ExecutionGroup{{
		IntentAddressed: intent,
		Steps:           steps,
	}}}
}

// NewsAggregationPlan gathers and condenses news across topics and sources.
type NewsAggregationPlan struct {
	Topics  []string      `json:"topics"`
	Sources []string      `json:"sources,omitempty"`
	Steps   []PlannedStep `json:"steps"`
}

func (p *NewsAggregationPlan) Kind() Kind { return KindNewsAggregation }

func (p *NewsAggregationPlan) ToExecutionPlan() *core.ExecutionPlan {
	var c stepCounter
	return &core.ExecutionPlan{Groups: []core.ExecutionGroup{{
		IntentAddressed: "news briefing",
		Steps:           toSteps(&c, p.Steps),
	}}}
}

// IntentGroup is one intent of a multi-intent query with its steps.
type IntentGroup struct {
	Intent string        `json:"intent"`
	Steps  []PlannedStep `json:"steps"`
}

// ChainOfThoughtPlan decomposes a multi-intent query into one group per
// intent, executed in declared order.
type ChainOfThoughtPlan struct {
	Intents []IntentGroup `json:"intents"`
}

func (p *ChainOfThoughtPlan) Kind() Kind { return KindChainOfThought }

func (p *ChainOfThoughtPlan) ToExecutionPlan() *core.ExecutionPlan {
	var c stepCounter
	out := &core.ExecutionPlan{}
	for _, group := range p.Intents {
		out.Groups = append(out.Groups, core.ExecutionGroup{
			IntentAddressed: group.Intent,
			Steps:           toSteps(&c, group.Steps),
		})
	}
	return out
}

// ProactiveSuggestionPlan is an assistant-initiated nudge grounded in stored
// memories, with at most one supporting tool call.
type ProactiveSuggestionPlan struct {
	Suggestion string       `json:"suggestion"`
	Step       *PlannedStep `json:"step,omitempty"`
}

func (p *ProactiveSuggestionPlan) Kind() Kind { return KindProactiveSuggestion }

func (p *ProactiveSuggestionPlan) ToExecutionPlan() *core.ExecutionPlan {
	var c stepCounter
	steps := []core.ExecutionStep{
		core.NarrativeStep{ID: c.next(), Description: p.Suggestion},
	}
	if p.Step != nil && p.Step.Tool != "" {
		steps = append(steps, p.Step.toStep(&c))
	}
	return &core.ExecutionPlan{Groups: []core.ExecutionGroup{{
		IntentAddressed: "proactive suggestion",
		Steps:           steps,
	}}}
}
