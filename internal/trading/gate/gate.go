package gate

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/RegimeEngine/internal/model"
)

// Evaluator runs the entry gate: a regime rule plus hard data-quality checks.
// Every failed check contributes a reason so a blocked entry can be explained.
type Evaluator struct {
	policy Policy
	now    func() time.Time
	logger zerolog.Logger
}

// NewEvaluator creates a gate evaluator for a policy.
func NewEvaluator(policy Policy) *Evaluator {
	return &Evaluator{
		policy: policy,
		now:    time.Now,
		logger: log.With().Str("component", "gate").Logger(),
	}
}

// Evaluate decides whether an entry is allowed at the latest bar of the
// series described by the snapshot. Blocked decisions carry every failed
// check's reason, not just the first.
func (e *Evaluator) Evaluate(snapshot *model.RegimeSnapshot, candles []model.Candle) *model.GateDecision {
	decision := &model.GateDecision{
		Regime: snapshot.Label,
	}

	var reasons []string

	// Warmup: the classifier must have enough bars to label the regime.
	if snapshot.Label == model.RegimeUncertain {
		reasons = append(reasons, fmt.Sprintf("warmup: regime uncertain after %d bars", snapshot.Bars))
	}

	// Data quality: refuse to trade on a malformed series.
	if err := model.ValidateSeries(candles); err != nil {
		reasons = append(reasons, fmt.Sprintf("data: %v", err))
	}

	// Freshness: a stale feed blocks entry.
	if reason := e.checkFreshness(candles); reason != "" {
		reasons = append(reasons, reason)
	}

	rule, haveRule := e.policy.Regimes[snapshot.Label]
	if haveRule && !rule.Allow {
		reasons = append(reasons, fmt.Sprintf("regime: %s", rule.Note))
	}

	if len(reasons) > 0 {
		decision.Reasons = reasons
		switch {
		case snapshot.Label == model.RegimeUncertain:
			decision.Note = "Uncertain regime: no trade"
		case haveRule && !rule.Allow:
			decision.Note = ruleNote(rule, snapshot.Label)
		default:
			decision.Note = reasons[0]
		}
		e.logger.Debug().
			Str("regime", string(snapshot.Label)).
			Strs("reasons", reasons).
			Msg("Entry blocked")
		return decision
	}

	decision.Allow = true
	decision.SizeFactor = rule.SizeFactor
	decision.Note = ruleNote(rule, snapshot.Label)
	e.logger.Debug().
		Str("regime", string(snapshot.Label)).
		Float64("size_factor", decision.SizeFactor).
		Msg("Entry allowed")
	return decision
}

func (e *Evaluator) checkFreshness(candles []model.Candle) string {
	if e.policy.MaxCandleAge <= 0 || len(candles) == 0 {
		return ""
	}
	last := candles[len(candles)-1]
	barTime, err := last.Time()
	if err != nil {
		return fmt.Sprintf("freshness: %v", err)
	}
	age := e.now().UTC().Sub(barTime)
	if age > e.policy.MaxCandleAge {
		return fmt.Sprintf("freshness: last bar is %s old (max %s)", age.Round(time.Second), e.policy.MaxCandleAge)
	}
	return ""
}

func ruleNote(rule RegimeRule, label model.RegimeLabel) string {
	if rule.Note != "" {
		return rule.Note
	}
	return fmt.Sprintf("%s regime", label)
}
