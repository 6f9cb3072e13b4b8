package technical

import (
	"math"
	"testing"

	"github.com/Alias1177/RegimeEngine/internal/model"
)

func TestCalculateATR(t *testing.T) {
	candles := []model.Candle{
		{High: 105, Low: 95, Close: 100},
		{High: 106, Low: 96, Close: 101},  // TR = 10
		{High: 108, Low: 98, Close: 104},  // TR = 10
		{High: 110, Low: 100, Close: 108}, // TR = 10
	}

	atr := CalculateATR(candles, 3)
	if math.Abs(atr-10) > 1e-9 {
		t.Errorf("ATR = %v, want 10", atr)
	}
}

func TestCalculateATR_NotEnoughData(t *testing.T) {
	candles := []model.Candle{
		{High: 105, Low: 95, Close: 100},
	}
	if atr := CalculateATR(candles, 14); atr != 0 {
		t.Errorf("ATR = %v, want 0 for insufficient data", atr)
	}
}

func TestCalculateATR_BadPeriod(t *testing.T) {
	candles := []model.Candle{
		{High: 105, Low: 95, Close: 100},
		{High: 106, Low: 96, Close: 101},
		{High: 108, Low: 98, Close: 104},
	}
	for _, period := range []int{0, -1} {
		if atr := CalculateATR(candles, period); atr != 0 {
			t.Errorf("ATR with period %d = %v, want 0", period, atr)
		}
	}
}

func TestCalculateVolatilityRatio(t *testing.T) {
	// Calm ranges early, wide ranges in the last bars: short ATR above long ATR.
	candles := make([]model.Candle, 30)
	for i := range candles {
		spread := 1.0
		if i >= 25 {
			spread = 5.0
		}
		candles[i] = model.Candle{
			High:  100 + spread,
			Low:   100 - spread,
			Close: 100,
		}
	}

	ratio := CalculateVolatilityRatio(candles, 5, 20)
	if ratio <= 1.0 {
		t.Errorf("expected expanding volatility ratio > 1, got %v", ratio)
	}
}

func TestCalculateVolatilityRatio_NotEnoughData(t *testing.T) {
	candles := []model.Candle{{High: 101, Low: 99, Close: 100}}
	if ratio := CalculateVolatilityRatio(candles, 5, 20); ratio != 1.0 {
		t.Errorf("ratio = %v, want neutral 1.0", ratio)
	}
}
