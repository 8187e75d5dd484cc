package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwahq/kaiwa/completion"
	"github.com/kaiwahq/kaiwa/core"
	"github.com/kaiwahq/kaiwa/tool"
)

func testRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	handler := func(_ *core.InvocationContext, _ map[string]any) (*tool.Output, error) {
		return &tool.Output{Result: "ok"}, nil
	}
	return tool.MustNewRegistry(
		tool.Definition{
			Name:    "web_search",
			Enabled: true,
			Handler: handler,
			ArgsSchema: map[string]any{
				"type":     "object",
				"required": []string{"query"},
				"properties": map[string]any{
					"query": map[string]any{"type": "string"},
				},
			},
		},
		tool.Definition{Name: "set_timer", Enabled: true, Handler: handler},
		tool.Definition{Name: "play_music", Enabled: true, Handler: handler},
	)
}

func TestGeneratorSkillLearning(t *testing.T) {
	client := completion.NewMockClient()
	client.AddResponse("planner.skill_learning", `{
		"topic": "spanish",
		"learningPhases": [
			{"name": "basics", "steps": [
				{"id": "s1", "toolName": "web_search", "arguments": {"query": "spanish for beginners"}},
				{"id": "s2", "narrative": "Review the results together."}
			]}
		]
	}`)
	g := NewGenerator(client, testRegistry(t))

	p, err := g.SkillLearning(context.Background(), Input{Query: "teach me spanish", Topic: "spanish"})

	require.NoError(t, err)
	assert.Equal(t, KindSkillLearning, p.Kind())
	ep := p.ToExecutionPlan()
	require.Len(t, ep.Groups, 1)
	assert.Equal(t, "learn spanish: basics", ep.Groups[0].IntentAddressed)
}

func TestGeneratorFillsTopicFromInput(t *testing.T) {
	client := completion.NewMockClient()
	client.AddResponse("planner.skill_learning", `{
		"topic": "",
		"learningPhases": [{"name": "basics", "steps": [{"narrative": "intro"}]}]
	}`)
	g := NewGenerator(client, testRegistry(t))

	p, err := g.SkillLearning(context.Background(), Input{Topic: "guitar"})

	require.NoError(t, err)
	assert.Equal(t, "guitar", p.(*SkillLearningPlan).Topic)
}

func TestGeneratorRejectsUnknownTool(t *testing.T) {
	client := completion.NewMockClient()
	client.AddResponse("planner.news_aggregation", `{
		"topics": ["tech"],
		"steps": [{"toolName": "teleport", "arguments": {}}]
	}`)
	g := NewGenerator(client, testRegistry(t))

	_, err := g.NewsAggregation(context.Background(), Input{Query: "news please"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestGeneratorRejectsMissingRequiredArg(t *testing.T) {
	client := completion.NewMockClient()
	client.AddResponse("planner.news_aggregation", `{
		"topics": ["tech"],
		"steps": [{"toolName": "web_search", "arguments": {}}]
	}`)
	g := NewGenerator(client, testRegistry(t))

	_, err := g.NewsAggregation(context.Background(), Input{Query: "news please"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "required argument")
}

func TestGeneratorRejectsEmptyPlans(t *testing.T) {
	client := completion.NewMockClient()
	client.AddResponse("planner.skill_learning", `{"topic": "chess", "learningPhases": []}`)
	client.AddResponse("planner.chain_of_thought", `{"intents": []}`)
	client.AddResponse("planner.proactive_suggestion", `{"suggestion": ""}`)
	g := NewGenerator(client, testRegistry(t))

	_, err := g.SkillLearning(context.Background(), Input{Topic: "chess"})
	assert.Error(t, err)

	_, err = g.ChainOfThought(context.Background(), Input{Query: "do several things"})
	assert.Error(t, err)

	_, err = g.ProactiveSuggestion(context.Background(), Input{})
	assert.Error(t, err)
}

func TestGeneratorPropagatesCompletionFailure(t *testing.T) {
	client := completion.NewMockClient()
	client.Fail(errors.New("provider down"))
	g := NewGenerator(client, testRegistry(t))

	_, err := g.FocusMode(context.Background(), Input{Activity: "reading"})

	require.Error(t, err)
	assert.ErrorContains(t, err, "provider down")
}

func TestGeneratorFocusMode(t *testing.T) {
	client := completion.NewMockClient()
	client.AddResponse("planner.focus_mode", `{
		"activity": "writing",
		"duration": "30 minutes",
		"intro": "Quiet time starts now.",
		"toolOrchestration": {
			"parallelGroup": [
				{"toolName": "set_timer", "arguments": {"minutes": 30}},
				{"toolName": "play_music", "arguments": {"mood": "calm"}}
			]
		}
	}`)
	g := NewGenerator(client, testRegistry(t))

	p, err := g.FocusMode(context.Background(), Input{Query: "help me focus on writing", Activity: "writing"})

	require.NoError(t, err)
	fp, ok := p.(*FocusModePlan)
	require.True(t, ok)
	assert.Equal(t, "30 minutes", fp.Duration)
	require.Len(t, fp.ToolOrchestration.ParallelGroup, 2)
}
