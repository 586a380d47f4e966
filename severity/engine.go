// Package severity converts a match set into a discrete severity level.
// The score stays a float while category weights, optional external signal
// nudges, and the review penalty accumulate on it; it is discretized to a
// level only at the final threshold mapping, so fractional adjustments
// never drift the integer representation.
package severity

import (
	"context"
	"log"

	labeler "github.com/skymod/labeler"
	"github.com/skymod/labeler/signal"
)

// Assessment is the scoring outcome for one classification call.
type Assessment = labeler.SeverityAssessment

// Engine scores match sets under a fixed policy. It holds no per-call state;
// one engine may serve concurrent classifications.
type Engine struct {
	cfg    labeler.Config
	source signal.Source
}

// NewEngine creates a scoring engine. A nil source disables external
// adjustment (equivalent to signal.Nop).
func NewEngine(cfg labeler.Config, source signal.Source) *Engine {
	if source == nil {
		source = signal.Nop{}
	}
	return &Engine{cfg: cfg, source: source}
}

// BaseScore sums category weights over the match set: critical categories
// count double.
func (e *Engine) BaseScore(matches labeler.MatchSet) float64 {
	score := 0.0
	for _, m := range matches {
		score += e.cfg.Weight(m.Category)
	}
	return score
}

// Assess computes the final score and severity level for a match set.
// The external signal is consulted with a bounded timeout; any failure
// degrades to the unadjusted score. needsReview applies the configured
// downward bias for ambiguous posts. All adjustment happens strictly
// before the threshold mapping.
func (e *Engine) Assess(ctx context.Context, matches labeler.MatchSet, text string, needsReview bool) Assessment {
	a := Assessment{Score: e.BaseScore(matches)}

	scores, err := e.querySignal(ctx, text)
	if err != nil {
		log.Printf("[severity] signal %s unavailable, using base score: %v", e.source.Name(), err)
	} else if len(scores) > 0 {
		if tox, ok := scores[labeler.SignalToxicity]; ok {
			if tox >= e.cfg.ToxicityHigh {
				a.Score += e.cfg.SignalDelta
				a.Adjusted = true
			} else if tox <= e.cfg.ToxicityLow {
				a.Score -= e.cfg.SignalDelta
				a.Adjusted = true
			}
		}
		if sarcasm, ok := scores[labeler.SignalSarcasm]; ok && sarcasm >= e.cfg.SarcasmHigh {
			a.Score -= e.cfg.SignalDelta
			a.Adjusted = true
			a.LessCertain = true
		}
	}

	if needsReview {
		a.Score -= e.cfg.ReviewPenalty
	}

	a.Level = e.cfg.LevelFor(a.Score)
	return a
}

func (e *Engine) querySignal(ctx context.Context, text string) (map[string]float64, error) {
	if _, isNop := e.source.(signal.Nop); isNop {
		return nil, nil
	}

	if e.cfg.SignalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.SignalTimeout)
		defer cancel()
	}

	return e.source.Scores(ctx, text)
}
