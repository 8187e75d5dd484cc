package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionPlanValidate(t *testing.T) {
	t.Run("valid plan", func(t *testing.T) {
		p := &ExecutionPlan{Groups: []ExecutionGroup{
			{IntentAddressed: "briefing", Steps: []ExecutionStep{
				ToolCallStep{ID: "s1", Tool: "fetch_news"},
				ToolCallStep{ID: "s2", Tool: "summarize", DependsOn: []string{"s1"}},
				NarrativeStep{ID: "s3", Description: "present the results"},
			}},
		}}
		assert.NoError(t, p.Validate())
	})

	t.Run("missing step id", func(t *testing.T) {
		p := &ExecutionPlan{Groups: []ExecutionGroup{
			{Steps: []ExecutionStep{ToolCallStep{Tool: "fetch_news"}}},
		}}
		assert.Error(t, p.Validate())
	})

	t.Run("duplicate step id", func(t *testing.T) {
		p := &ExecutionPlan{Groups: []ExecutionGroup{
			{Steps: []ExecutionStep{
				ToolCallStep{ID: "s1", Tool: "a"},
				ToolCallStep{ID: "s1", Tool: "b"},
			}},
		}}
		require.Error(t, p.Validate())
	})

	t.Run("duplicate id across groups", func(t *testing.T) {
		p := &ExecutionPlan{Groups: []ExecutionGroup{
			{Steps: []ExecutionStep{ToolCallStep{ID: "s1", Tool: "a"}}},
			{Steps: []ExecutionStep{NarrativeStep{ID: "s1", Description: "again"}}},
		}}
		require.Error(t, p.Validate())
	})

	t.Run("unknown dependency", func(t *testing.T) {
		p := &ExecutionPlan{Groups: []ExecutionGroup{
			{Steps: []ExecutionStep{
				ToolCallStep{ID: "s1", Tool: "a", DependsOn: []string{"ghost"}},
			}},
		}}
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("parallel siblings must not depend on each other", func(t *testing.T) {
		p := &ExecutionPlan{Groups: []ExecutionGroup{
			{Steps: []ExecutionStep{
				ToolCallStep{ID: "s1", Tool: "a", Parallel: true},
				ToolCallStep{ID: "s2", Tool: "b", Parallel: true, DependsOn: []string{"s1"}},
			}},
		}}
		require.Error(t, p.Validate())
	})

	t.Run("parallel step may depend on a sequential step", func(t *testing.T) {
		p := &ExecutionPlan{Groups: []ExecutionGroup{
			{Steps: []ExecutionStep{
				ToolCallStep{ID: "s1", Tool: "a"},
				ToolCallStep{ID: "s2", Tool: "b", Parallel: true, DependsOn: []string{"s1"}},
				ToolCallStep{ID: "s3", Tool: "c", Parallel: true, DependsOn: []string{"s1"}},
			}},
		}}
		assert.NoError(t, p.Validate())
	})

	t.Run("dependency cycle", func(t *testing.T) {
		p := &ExecutionPlan{Groups: []ExecutionGroup{
			{Steps: []ExecutionStep{
				ToolCallStep{ID: "s1", Tool: "a", DependsOn: []string{"s2"}},
				ToolCallStep{ID: "s2", Tool: "b", DependsOn: []string{"s1"}},
			}},
		}}
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle")
	})

	t.Run("dependency on an earlier group is allowed", func(t *testing.T) {
		p := &ExecutionPlan{Groups: []ExecutionGroup{
			{Steps: []ExecutionStep{ToolCallStep{ID: "s1", Tool: "a"}}},
			{Steps: []ExecutionStep{ToolCallStep{ID: "s2", Tool: "b", DependsOn: []string{"s1"}}}},
		}}
		assert.NoError(t, p.Validate())
	})

	t.Run("dependency on a later group is rejected", func(t *testing.T) {
		p := &ExecutionPlan{Groups: []ExecutionGroup{
			{Steps: []ExecutionStep{ToolCallStep{ID: "s1", Tool: "a", DependsOn: []string{"s2"}}}},
			{Steps: []ExecutionStep{ToolCallStep{ID: "s2", Tool: "b"}}},
		}}
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "later group")
	})
}

func TestExecutionPlanToolSteps(t *testing.T) {
	p := &ExecutionPlan{Groups: []ExecutionGroup{
		{Steps: []ExecutionStep{
			ToolCallStep{ID: "s1", Tool: "a"},
			NarrativeStep{ID: "s2", Description: "explain"},
		}},
		{Steps: []ExecutionStep{ToolCallStep{ID: "s3", Tool: "b"}}},
	}}

	steps := p.ToolSteps()

	require.Len(t, steps, 2)
	assert.Equal(t, "s1", steps[0].ID)
	assert.Equal(t, "s3", steps[1].ID)
}
