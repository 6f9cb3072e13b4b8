package risk

import (
	"github.com/Alias1177/RegimeEngine/internal/analysis/technical"
	"github.com/Alias1177/RegimeEngine/internal/model"
)

// PlanConfig holds the account-level risk parameters.
type PlanConfig struct {
	AccountSize    float64 // Account value in quote currency
	RiskPerTrade   float64 // Fraction of account risked per trade, e.g. 0.01
	ATRPeriod      int
	ATRShortPeriod int // Short ATR for the volatility ratio
	ATRLongPeriod  int // Long ATR for the volatility ratio
}

// DefaultPlanConfig returns conservative defaults: 1% account risk,
// 14-period ATR stop, 5/20 volatility ratio.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		AccountSize:    10000.0,
		RiskPerTrade:   0.01,
		ATRPeriod:      14,
		ATRShortPeriod: 5,
		ATRLongPeriod:  20,
	}
}

// BuildPlan composes the gate decision, snapshot direction and volatility into
// a concrete sizing plan. A blocked gate yields a zero plan.
func BuildPlan(candles []model.Candle, snapshot *model.RegimeSnapshot, decision *model.GateDecision, cfg PlanConfig) *model.RiskPlan {
	if !decision.Allow || len(candles) == 0 {
		return &model.RiskPlan{Direction: snapshot.Direction}
	}

	atr := technical.CalculateATR(candles, cfg.ATRPeriod)
	stopLoss := DetermineStopLoss(candles, atr, snapshot.Direction)
	currentPrice := candles[len(candles)-1].Close

	plan := CalculatePositionSize(currentPrice, stopLoss, cfg.AccountSize, cfg.RiskPerTrade)
	if plan == nil {
		// Flat market: ATR collapsed to zero, nothing sensible to size.
		return &model.RiskPlan{Direction: snapshot.Direction}
	}

	volRatio := technical.CalculateVolatilityRatio(candles, cfg.ATRShortPeriod, cfg.ATRLongPeriod)
	plan.PositionSize = AdjustPositionSizeForVolatility(plan.PositionSize, volRatio)

	// The gate's size factor scales the final position.
	plan.PositionSize *= decision.SizeFactor
	plan.SizeFactor = decision.SizeFactor
	plan.Direction = snapshot.Direction

	return plan
}
