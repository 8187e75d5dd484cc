package classify

import (
	"context"
	"time"

	"github.com/kaiwahq/kaiwa/logging"
	"github.com/kaiwahq/kaiwa/plan"
)

// Outcome is the chain's result for one turn: the claiming detector and its
// plan. A nil Outcome means every detector declined and the caller should
// handle the query as an ordinary single-tool-or-no-tool request.
type Outcome struct {
	Detector string
	Plan     plan.Plan
}

// ChainOptions configure a Chain.
type ChainOptions struct {
	// ProactiveProbability gates the trailing proactive-suggestion
	// detector. Defaults to DefaultProactiveProbability.
	ProactiveProbability float64
	// Detectors overrides the default ordered detector list entirely.
	Detectors []Detector
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Chain runs detectors in a fixed priority order and stops at the first
// claim. Narrow, cheap regex detectors precede the multi-intent completion
// call; the probabilistic proactive detector runs last so it only ever sees
// turns nothing else wanted.
type Chain struct {
	detectors []Detector
	logger    logging.Logger
}

// NewChain builds the default chain: learning-continuity, progress-checkpoint,
// skill-learning, multi-intent, news-aggregation, focus-mode,
// proactive-suggestion.
func NewChain(optFns ...func(o *ChainOptions)) *Chain {
	opts := ChainOptions{
		ProactiveProbability: DefaultProactiveProbability,
		Logger:               logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	detectors := opts.Detectors
	if detectors == nil {
		detectors = []Detector{
			LearningContinuityDetector{},
			ProgressCheckpointDetector{},
			SkillLearningDetector{},
			MultiIntentDetector{},
			NewsAggregationDetector{},
			FocusModeDetector{},
			ProactiveSuggestionDetector{Probability: opts.ProactiveProbability},
		}
	}
	return &Chain{detectors: detectors, logger: opts.Logger}
}

// Classify runs the chain over the assembled per-turn context. A detector
// whose plan generation fails is logged and skipped; the claim had no
// user-visible effect, so the next detector still gets its chance.
func (c *Chain) Classify(ctx context.Context, dctx *DetectionContext) *Outcome {
	for _, detector := range c.detectors {
		start := time.Now()
		p, err := detector.TryClaim(ctx, dctx)
		if err != nil {
			c.logger.Warn("classify.chain.claim_failed",
				"detector", detector.Name(), "duration_ms", time.Since(start).Milliseconds(), "error", err)
			continue
		}
		if p != nil {
			c.logger.Info("classify.chain.claimed",
				"detector", detector.Name(), "kind", string(p.Kind()), "duration_ms", time.Since(start).Milliseconds())
			return &Outcome{Detector: detector.Name(), Plan: p}
		}
	}
	return nil
}
