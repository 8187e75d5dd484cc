package tool

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kaiwahq/kaiwa/core"
)

// StepResult records the outcome of a single execution-plan step.
type StepResult struct {
	StepID string `json:"stepId"`
	// Tool is empty for narrative steps.
	Tool string `json:"toolName,omitempty"`
	// Narrative carries the description of a narrative step.
	Narrative string `json:"narrative,omitempty"`
	// Skipped is true when an upstream dependency failed, so the step
	// was never started.
	Skipped bool `json:"skipped,omitempty"`
	// Result is set for tool-call steps that actually ran.
	Result *core.ToolResult `json:"result,omitempty"`
}

// ExecutePlan walks a validated execution plan group by group. Within a
// group, tool steps run in dependency-satisfaction waves: every step whose
// dependencies have all succeeded joins the current wave, and the wave runs
// concurrently. A step whose dependency failed or was skipped is marked
// Skipped and never started. Results are appended wave by wave; within a
// wave the group's declared step order is preserved.
func (e *Executor) ExecutePlan(ctx context.Context, p *core.ExecutionPlan, info core.InvocationInfo) []StepResult {
	if p == nil {
		return nil
	}

	var out []StepResult
	// succeeded maps step IDs to whether the step completed successfully.
	// Narrative steps always succeed; skipped and failed steps are false.
	succeeded := map[string]bool{}

	for _, group := range p.Groups {
		pending := make([]core.ExecutionStep, len(group.Steps))
		copy(pending, group.Steps)

		for len(pending) > 0 {
			wave, rest := nextWave(pending, succeeded)
			if len(wave) == 0 {
				// Remaining steps all have failed or skipped dependencies.
				for _, step := range rest {
					out = append(out, skippedResult(step))
					succeeded[step.StepID()] = false
				}
				break
			}
			pending = rest

			results := make([]StepResult, len(wave))
			g, gctx := errgroup.WithContext(ctx)
			for i, step := range wave {
				g.Go(func() error {
					results[i] = e.runStep(gctx, step, info)
					return nil
				})
			}
			_ = g.Wait()

			for _, res := range results {
				succeeded[res.StepID] = res.Result == nil || res.Result.OK()
				out = append(out, res)
			}
		}
	}
	return out
}

// nextWave partitions pending steps into those runnable now and the rest.
// A step is runnable when every dependency has a recorded outcome; steps
// with a failed dependency are consumed immediately as skipped by the
// caller once the wave comes back empty, so here a failed dependency keeps
// the step out of the wave but also out of the runnable set.
func nextWave(pending []core.ExecutionStep, succeeded map[string]bool) (wave, rest []core.ExecutionStep) {
	for _, step := range pending {
		if ready(step, succeeded) {
			wave = append(wave, step)
		} else {
			rest = append(rest, step)
		}
	}
	return wave, rest
}

func ready(step core.ExecutionStep, succeeded map[string]bool) bool {
	tc, ok := step.(core.ToolCallStep)
	if !ok {
		return true
	}
	for _, dep := range tc.DependsOn {
		if !succeeded[dep] {
			return false
		}
	}
	return true
}

func (e *Executor) runStep(ctx context.Context, step core.ExecutionStep, info core.InvocationInfo) StepResult {
	switch s := step.(type) {
	case core.ToolCallStep:
		res := e.Execute(ctx, s.Tool, s.Args, info)
		return StepResult{StepID: s.ID, Tool: s.Tool, Result: &res}
	case core.NarrativeStep:
		return StepResult{StepID: s.ID, Narrative: s.Description}
	default:
		return StepResult{StepID: step.StepID(), Skipped: true}
	}
}

func skippedResult(step core.ExecutionStep) StepResult {
	res := StepResult{StepID: step.StepID(), Skipped: true}
	if tc, ok := step.(core.ToolCallStep); ok {
		res.Tool = tc.Tool
	}
	return res
}
