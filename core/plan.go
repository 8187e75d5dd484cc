package core

import "fmt"

// ExecutionStep is a tagged variant: either a ToolCallStep or a
// NarrativeStep. Concrete step types implement the unexported isStep marker
// enabling a closed set, mirroring the Part pattern.
type ExecutionStep interface {
	isStep()
	// StepID returns the step's identifier used by DependsOn edges.
	StepID() string
}

// ToolCallStep is a declarative tool invocation inside a plan. It is consumed
// by the executor, which performs the authoritative schema validation; the
// Parallel flag is advisory scheduling metadata while DependsOn edges are
// authoritative.
type ToolCallStep struct {
	ID        string         `json:"id"`
	Tool      string         `json:"tool"`
	Args      map[string]any `json:"args,omitempty"`
	DependsOn []string       `json:"dependsOn,omitempty"`
	Parallel  bool           `json:"parallel,omitempty"`
	Rationale string         `json:"rationale,omitempty"`
}

func (s ToolCallStep) isStep() {}

// StepID implements ExecutionStep.
func (s ToolCallStep) StepID() string { return s.ID }

// NarrativeStep is a non-executable explanatory step surfaced to the caller
// verbatim (e.g. "summarize the gathered results").
type NarrativeStep struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

func (s NarrativeStep) isStep() {}

// StepID implements ExecutionStep.
func (s NarrativeStep) StepID() string { return s.ID }

// ExecutionGroup bundles the steps addressing one intent.
type ExecutionGroup struct {
	IntentAddressed string          `json:"intentAddressed"`
	Steps           []ExecutionStep `json:"steps"`
}

// ExecutionPlan is an ordered list of execution groups produced once per
// claimed query and consumed by the tool executor. It is discarded after all
// steps resolve or the plan is abandoned.
type ExecutionPlan struct {
	Groups []ExecutionGroup `json:"groups"`
}

// Validate checks the plan's structural invariants:
//   - step IDs are unique across the plan
//   - every DependsOn edge names an existing step in the same or an earlier
//     group (groups execute in order, so a forward edge could never be
//     satisfied)
//   - steps within one group marked Parallel must not depend on each other
//   - the dependency graph is acyclic across the whole plan
func (p *ExecutionPlan) Validate() error {
	byID := map[string]ExecutionStep{}
	groupOf := map[string]int{}
	deps := map[string][]string{}
	for gi, g := range p.Groups {
		for _, s := range g.Steps {
			id := s.StepID()
			if id == "" {
				return fmt.Errorf("plan step missing id in group %q", g.IntentAddressed)
			}
			if _, dup := byID[id]; dup {
				return fmt.Errorf("duplicate step id %q", id)
			}
			byID[id] = s
			groupOf[id] = gi
			if tc, ok := s.(ToolCallStep); ok {
				deps[id] = tc.DependsOn
			}
		}
	}

	for id, ds := range deps {
		for _, d := range ds {
			if _, ok := byID[d]; !ok {
				return fmt.Errorf("step %q depends on unknown step %q", id, d)
			}
			if groupOf[d] > groupOf[id] {
				return fmt.Errorf("step %q depends on step %q in a later group", id, d)
			}
		}
	}

	for _, g := range p.Groups {
		parallel := map[string]bool{}
		for _, s := range g.Steps {
			if tc, ok := s.(ToolCallStep); ok && tc.Parallel {
				parallel[tc.ID] = true
			}
		}
		for _, s := range g.Steps {
			tc, ok := s.(ToolCallStep)
			if !ok || !tc.Parallel {
				continue
			}
			for _, d := range tc.DependsOn {
				if parallel[d] {
					return fmt.Errorf("parallel step %q depends on parallel sibling %q", tc.ID, d)
				}
			}
		}
	}

	// Cycle detection via recursive DFS with three-color marking.
	const (white, gray, black = 0, 1, 2)
	color := map[string]int{}
	var visit func(id string) error
	visit = func(id string) error {
		switch color[id] {
		case gray:
			return fmt.Errorf("dependency cycle involving step %q", id)
		case black:
			return nil
		}
		color[id] = gray
		for _, d := range deps[id] {
			if err := visit(d); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}
	for id := range deps {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// ToolSteps returns all tool-call steps in group order.
func (p *ExecutionPlan) ToolSteps() []ToolCallStep {
	var out []ToolCallStep
	for _, g := range p.Groups {
		for _, s := range g.Steps {
			if tc, ok := s.(ToolCallStep); ok {
				out = append(out, tc)
			}
		}
	}
	return out
}
