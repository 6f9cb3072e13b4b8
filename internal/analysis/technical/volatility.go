package technical

import (
	"math"

	"github.com/Alias1177/RegimeEngine/internal/model"
)

// CalculateATR calculates Average True Range
func CalculateATR(candles []model.Candle, period int) float64 {
	if period < 1 || len(candles) < period+1 {
		return 0
	}

	var trueRanges []float64

	// True Range is the greatest of:
	// 1. Current High - Current Low
	// 2. Abs(Current High - Previous Close)
	// 3. Abs(Current Low - Previous Close)
	for i := 1; i < len(candles); i++ {
		highLow := candles[i].High - candles[i].Low
		highPrevClose := math.Abs(candles[i].High - candles[i-1].Close)
		lowPrevClose := math.Abs(candles[i].Low - candles[i-1].Close)

		trueRange := math.Max(highLow, math.Max(highPrevClose, lowPrevClose))
		trueRanges = append(trueRanges, trueRange)
	}

	periodToUse := period
	if len(trueRanges) < period {
		periodToUse = len(trueRanges)
	}

	var sum float64
	for i := len(trueRanges) - periodToUse; i < len(trueRanges); i++ {
		sum += trueRanges[i]
	}

	return sum / float64(periodToUse)
}

// CalculateVolatilityRatio calculates the ratio between short-term and long-term
// ATR. Values above 1 mean volatility is expanding.
func CalculateVolatilityRatio(candles []model.Candle, shortPeriod, longPeriod int) float64 {
	if len(candles) < longPeriod+1 {
		return 1.0 // Neutral when not enough data
	}

	atrShort := CalculateATR(candles, shortPeriod)
	atrLong := CalculateATR(candles, longPeriod)

	if atrLong == 0 {
		return 1.0
	}

	return atrShort / atrLong
}
