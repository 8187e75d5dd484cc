package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwahq/kaiwa/plan"
)

func TestLearningContinuityDetector(t *testing.T) {
	d := LearningContinuityDetector{}

	t.Run("extracts topic from the query", func(t *testing.T) {
		f := newFixture()
		p, err := d.TryClaim(context.Background(), f.detectionContext("resume studying italian please"))

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "italian please", f.planners.last.Topic)
		assert.Equal(t, "resume", f.planners.last.Mode)
	})

	t.Run("recovers topic from memory when the query names none", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.store.Store(context.Background(), "u-1",
			"User has been learning spanish with daily lessons", map[string]any{"memoryType": "fact"}))

		p, err := d.TryClaim(context.Background(), f.detectionContext("where did we leave off?"))

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Contains(t, f.planners.last.Topic, "spanish")
	})

	t.Run("declines when no topic can be recovered", func(t *testing.T) {
		f := newFixture()
		p, err := d.TryClaim(context.Background(), f.detectionContext("where did we leave off?"))

		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Empty(t, f.planners.calls)
	})

	t.Run("declines unrelated queries without any lookups", func(t *testing.T) {
		f := newFixture()
		p, err := d.TryClaim(context.Background(), f.detectionContext("what's the weather like?"))

		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Zero(t, f.client.CallCount(""))
	})
}

func TestProgressCheckpointDetector(t *testing.T) {
	d := ProgressCheckpointDetector{}

	t.Run("claims progress questions with a topic", func(t *testing.T) {
		f := newFixture()
		p, err := d.TryClaim(context.Background(), f.detectionContext("how am I doing with spanish"))

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, plan.KindSkillLearning, p.Kind())
		assert.Equal(t, "spanish", f.planners.last.Topic)
		assert.Equal(t, "checkpoint", f.planners.last.Mode)
	})

	t.Run("declines without topic or memory", func(t *testing.T) {
		f := newFixture()
		p, err := d.TryClaim(context.Background(), f.detectionContext("what have I learned"))

		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestSkillLearningDetector(t *testing.T) {
	d := SkillLearningDetector{}

	t.Run("claims teach-me queries", func(t *testing.T) {
		f := newFixture()
		p, err := d.TryClaim(context.Background(), f.detectionContext("teach me the basics of chess"))

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "the basics of chess", f.planners.last.Topic)
		assert.Empty(t, f.planners.last.Mode)
	})

	t.Run("declines non-learning queries", func(t *testing.T) {
		f := newFixture()
		p, err := d.TryClaim(context.Background(), f.detectionContext("set a timer for ten minutes"))

		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestNewsAggregationDetector(t *testing.T) {
	d := NewsAggregationDetector{}

	t.Run("claims with an explicit topic", func(t *testing.T) {
		f := newFixture()
		p, err := d.TryClaim(context.Background(), f.detectionContext("give me the news about climate policy"))

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, plan.KindNewsAggregation, p.Kind())
		assert.Equal(t, "climate policy", f.planners.last.Topic)
	})

	t.Run("claims a general briefing without a topic", func(t *testing.T) {
		f := newFixture()
		p, err := d.TryClaim(context.Background(), f.detectionContext("morning briefing please"))

		require.NoError(t, err)
		require.NotNil(t, p)
	})

	t.Run("falls back to stored interests", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.store.Store(context.Background(), "u-1",
			"User is interested in space exploration news", nil))

		_, err := d.TryClaim(context.Background(), f.detectionContext("any headlines today?"))

		require.NoError(t, err)
		assert.Contains(t, f.planners.last.Topic, "space exploration")
	})
}

func TestFocusModeDetector(t *testing.T) {
	d := FocusModeDetector{}

	t.Run("extracts activity and duration", func(t *testing.T) {
		f := newFixture()
		p, err := d.TryClaim(context.Background(), f.detectionContext("help me focus on my thesis for 90 minutes"))

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "my thesis", f.planners.last.Activity)
		assert.Equal(t, "90 minutes", f.planners.last.Duration)
	})

	t.Run("recovers activity from memory", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.store.Store(context.Background(), "u-1",
			"User is currently working on a grant proposal with a deadline", nil))

		_, err := d.TryClaim(context.Background(), f.detectionContext("I need to concentrate"))

		require.NoError(t, err)
		assert.Contains(t, f.planners.last.Activity, "grant proposal")
	})

	t.Run("declines without an activity", func(t *testing.T) {
		f := newFixture()
		p, err := d.TryClaim(context.Background(), f.detectionContext("I need to concentrate"))

		require.NoError(t, err)
		assert.Nil(t, p)
	})
}
