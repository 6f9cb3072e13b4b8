package risk

import (
	"math"

	"github.com/Alias1177/RegimeEngine/internal/model"
)

// atrStopMultiplier sets how far the stop sits from entry in ATR units.
const atrStopMultiplier = 1.5

// rewardRiskTarget is the take-profit distance as a multiple of stop distance.
const rewardRiskTarget = 2.0

// DetermineStopLoss calculates a stop-loss level from the current ATR.
func DetermineStopLoss(candles []model.Candle, atr float64, direction string) float64 {
	currentPrice := candles[len(candles)-1].Close

	if direction == "BULLISH" {
		return currentPrice - (atr * atrStopMultiplier)
	}
	return currentPrice + (atr * atrStopMultiplier)
}

// CalculatePositionSize determines position size from the account risk budget:
// size = (accountSize * riskPerTrade) / stop distance. Returns nil when the
// stop distance is zero (flat market), since sizing would be unbounded.
func CalculatePositionSize(currentPrice, stopLoss, accountSize, riskPerTrade float64) *model.RiskPlan {
	stopSizePoints := math.Abs(currentPrice - stopLoss)
	if stopSizePoints == 0 {
		return nil
	}

	riskAmount := accountSize * riskPerTrade
	positionSize := riskAmount / stopSizePoints

	var takeProfit float64
	if currentPrice > stopLoss {
		// Long position
		takeProfit = currentPrice + (currentPrice-stopLoss)*rewardRiskTarget
	} else {
		// Short position
		takeProfit = currentPrice - (stopLoss-currentPrice)*rewardRiskTarget
	}

	return &model.RiskPlan{
		Allow:           true,
		PositionSize:    positionSize,
		StopLoss:        stopLoss,
		TakeProfit:      takeProfit,
		RiskRewardRatio: math.Abs(takeProfit-currentPrice) / stopSizePoints,
		AccountRisk:     riskPerTrade,
		EntryPrice:      currentPrice,
	}
}

// AdjustPositionSizeForVolatility modifies position size based on market
// volatility: shrink when short-term volatility is expanding, grow slightly
// when it is contracting.
func AdjustPositionSizeForVolatility(baseSize float64, volatilityRatio float64) float64 {
	if volatilityRatio > 1.5 {
		return baseSize * (1 / volatilityRatio)
	}

	if volatilityRatio < 0.7 {
		return baseSize * 1.2
	}

	return baseSize
}
