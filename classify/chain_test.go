package classify

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwahq/kaiwa/completion"
	"github.com/kaiwahq/kaiwa/memory"
	"github.com/kaiwahq/kaiwa/plan"
)

// stubPlanners records which plan kinds were requested and returns minimal
// valid plans, or a canned error.
type stubPlanners struct {
	calls []string
	last  plan.Input
	errs  map[string]error
}

func (s *stubPlanners) record(kind string, in plan.Input) error {
	s.calls = append(s.calls, kind)
	s.last = in
	return s.errs[kind]
}

func (s *stubPlanners) SkillLearning(_ context.Context, in plan.Input) (plan.Plan, error) {
	if err := s.record("skill_learning", in); err != nil {
		return nil, err
	}
	return &plan.SkillLearningPlan{
		Topic:          in.Topic,
		LearningPhases: []plan.LearningPhase{{Name: "basics", Steps: []plan.PlannedStep{{Narrative: "intro"}}}},
	}, nil
}

func (s *stubPlanners) FocusMode(_ context.Context, in plan.Input) (plan.Plan, error) {
	if err := s.record("focus_mode", in); err != nil {
		return nil, err
	}
	return &plan.FocusModePlan{
		Activity:          in.Activity,
		Duration:          in.Duration,
		ToolOrchestration: plan.ToolOrchestration{ParallelGroup: []plan.PlannedStep{{Narrative: "setup"}}},
	}, nil
}

func (s *stubPlanners) NewsAggregation(_ context.Context, in plan.Input) (plan.Plan, error) {
	if err := s.record("news_aggregation", in); err != nil {
		return nil, err
	}
	return &plan.NewsAggregationPlan{Topics: []string{in.Topic}, Steps: []plan.PlannedStep{{Narrative: "gather"}}}, nil
}

func (s *stubPlanners) ChainOfThought(_ context.Context, in plan.Input) (plan.Plan, error) {
	if err := s.record("chain_of_thought", in); err != nil {
		return nil, err
	}
	return &plan.ChainOfThoughtPlan{Intents: []plan.IntentGroup{{Intent: "first", Steps: []plan.PlannedStep{{Narrative: "do it"}}}}}, nil
}

func (s *stubPlanners) ProactiveSuggestion(_ context.Context, in plan.Input) (plan.Plan, error) {
	if err := s.record("proactive_suggestion", in); err != nil {
		return nil, err
	}
	return &plan.ProactiveSuggestionPlan{Suggestion: "a nudge"}, nil
}

type chainFixture struct {
	client   *completion.MockClient
	planners *stubPlanners
	store    *memory.InMemoryStore
}

func newFixture() *chainFixture {
	return &chainFixture{
		client:   completion.NewMockClient(),
		planners: &stubPlanners{errs: map[string]error{}},
		store:    memory.NewInMemoryStore(),
	}
}

func (f *chainFixture) detectionContext(query string, optFns ...func(o *ContextOptions)) *DetectionContext {
	return NewDetectionContext(
		ContextInput{Query: query, UserID: "u-1", SessionID: "s-1"},
		nil, f.store, f.client, f.planners, optFns...,
	)
}

func TestChainClaimsInPriorityOrder(t *testing.T) {
	f := newFixture()
	chain := NewChain(func(o *ChainOptions) { o.ProactiveProbability = 0 })

	outcome := chain.Classify(context.Background(), f.detectionContext("continue learning spanish"))

	require.NotNil(t, outcome)
	assert.Equal(t, "learning_continuity", outcome.Detector)
	assert.Equal(t, plan.KindSkillLearning, outcome.Plan.Kind())
	assert.Equal(t, "resume", f.planners.last.Mode)
	assert.Equal(t, "spanish", f.planners.last.Topic)
	// The claim short-circuits everything after it, including the
	// completion-backed multi-intent classification.
	assert.Equal(t, []string{"skill_learning"}, f.planners.calls)
	assert.Zero(t, f.client.CallCount(""))
}

func TestChainShortCircuitSkipsMultiIntent(t *testing.T) {
	f := newFixture()
	chain := NewChain(func(o *ChainOptions) { o.ProactiveProbability = 0 })

	// Long enough with whitespace, so multi-intent would run if reached.
	outcome := chain.Classify(context.Background(), f.detectionContext("help me focus on writing for 45 minutes"))

	require.NotNil(t, outcome)
	assert.Equal(t, "focus_mode", outcome.Detector)
	// focus_mode is ordered after multi_intent, so the classification call
	// did happen once and declined.
	assert.Equal(t, 1, f.client.CallCount(multiIntentCallerID))
}

func TestChainFallsThroughOnPlanFailure(t *testing.T) {
	f := newFixture()
	f.planners.errs["skill_learning"] = errors.New("planner down")
	chain := NewChain(func(o *ChainOptions) { o.ProactiveProbability = 0 })

	outcome := chain.Classify(context.Background(), f.detectionContext("continue learning spanish"))

	// Continuity claims but fails, skill-learning claims the same query
	// and fails too, then every later detector declines.
	assert.Nil(t, outcome)
	assert.Equal(t, []string{"skill_learning", "skill_learning"}, f.planners.calls)
	// Multi-intent still ran after the failed claims.
	assert.Equal(t, 1, f.client.CallCount(multiIntentCallerID))
}

func TestChainDeclinesQuietQueries(t *testing.T) {
	f := newFixture()
	chain := NewChain(func(o *ChainOptions) { o.ProactiveProbability = 0 })

	// Too short for multi-intent, matched by no regex detector.
	outcome := chain.Classify(context.Background(), f.detectionContext("play jazz"))

	assert.Nil(t, outcome)
	assert.Empty(t, f.planners.calls)
	assert.Zero(t, f.client.CallCount(""))
}

func TestMultiIntentDetector(t *testing.T) {
	t.Run("claims multi-part queries", func(t *testing.T) {
		f := newFixture()
		f.client.AddResponse(multiIntentCallerID, `{
			"category": "multi_intent_complex",
			"isMultiIntent": true,
			"intentCount": 2,
			"primaryIntent": "check the weather",
			"secondaryIntents": ["set a reminder"]
		}`)
		chain := NewChain(func(o *ChainOptions) { o.ProactiveProbability = 0 })

		outcome := chain.Classify(context.Background(), f.detectionContext("check the weather in Paris and remind me to call mom"))

		require.NotNil(t, outcome)
		assert.Equal(t, "multi_intent", outcome.Detector)
		assert.Equal(t, plan.KindChainOfThought, outcome.Plan.Kind())
		require.NotNil(t, f.planners.last.Classification)
		assert.Equal(t, 2, f.planners.last.Classification.IntentCount)
	})

	t.Run("declines single-intent classification", func(t *testing.T) {
		f := newFixture()
		f.client.AddResponse(multiIntentCallerID, `{
			"category": "single_intent",
			"isMultiIntent": false,
			"intentCount": 1,
			"primaryIntent": "check the weather"
		}`)
		d := MultiIntentDetector{}

		p, err := d.TryClaim(context.Background(), f.detectionContext("what is the weather like in Paris today"))

		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("short or single-token queries never call the client", func(t *testing.T) {
		f := newFixture()
		d := MultiIntentDetector{}

		for _, query := range []string{"hello there", "reschedule-everything-now"} {
			p, err := d.TryClaim(context.Background(), f.detectionContext(query))
			require.NoError(t, err)
			assert.Nil(t, p)
		}
		assert.Zero(t, f.client.CallCount(""))
	})

	t.Run("classification failure is a decline, not an error", func(t *testing.T) {
		f := newFixture()
		f.client.Fail(errors.New("provider down"))
		d := MultiIntentDetector{}

		p, err := d.TryClaim(context.Background(), f.detectionContext("check the weather and play some jazz"))

		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestProactiveSuggestionDetector(t *testing.T) {
	seed := func(f *chainFixture) {
		require.NoError(t, f.store.Store(context.Background(), "u-1",
			"User's goal is to run a marathon in October", map[string]any{"memoryType": "goal"}))
	}

	t.Run("fires with context and favorable roll", func(t *testing.T) {
		f := newFixture()
		seed(f)
		d := ProactiveSuggestionDetector{Probability: 1.0}

		p, err := d.TryClaim(context.Background(), f.detectionContext("anything at all really"))

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, plan.KindProactiveSuggestion, p.Kind())
		require.NotEmpty(t, f.planners.last.Memories)
		assert.Contains(t, f.planners.last.Memories[0].Content, "marathon")
	})

	t.Run("declines without stored context", func(t *testing.T) {
		f := newFixture()
		d := ProactiveSuggestionDetector{Probability: 1.0}

		p, err := d.TryClaim(context.Background(), f.detectionContext("anything at all really"))

		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Empty(t, f.planners.calls)
	})

	t.Run("unfavorable roll skips even the memory lookup", func(t *testing.T) {
		f := newFixture()
		seed(f)
		d := ProactiveSuggestionDetector{Probability: 0}

		p, err := d.TryClaim(context.Background(), f.detectionContext("anything at all really"))

		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Empty(t, f.planners.calls)
	})

	t.Run("injected rand source is honored", func(t *testing.T) {
		f := newFixture()
		seed(f)
		// First Float64 from this source is deterministic; use a
		// probability above it so the detector must fire.
		src := rand.New(rand.NewSource(42))
		threshold := rand.New(rand.NewSource(42)).Float64()
		d := ProactiveSuggestionDetector{Probability: threshold + 0.01}

		dctx := f.detectionContext("anything at all really", func(o *ContextOptions) { o.Rand = src })
		p, err := d.TryClaim(context.Background(), dctx)

		require.NoError(t, err)
		assert.NotNil(t, p)
	})
}

// Compile-time interface checks for the closed detector set.
var (
	_ Detector = LearningContinuityDetector{}
	_ Detector = ProgressCheckpointDetector{}
	_ Detector = SkillLearningDetector{}
	_ Detector = MultiIntentDetector{}
	_ Detector = NewsAggregationDetector{}
	_ Detector = FocusModeDetector{}
	_ Detector = ProactiveSuggestionDetector{}
)
