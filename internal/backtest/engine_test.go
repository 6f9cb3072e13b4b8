package backtest

import (
	"strings"
	"testing"
	"time"

	"github.com/Alias1177/RegimeEngine/internal/analysis/regime"
	"github.com/Alias1177/RegimeEngine/internal/model"
	"github.com/Alias1177/RegimeEngine/internal/trading/gate"
)

func generateTestCandles(n int, closeAt func(i int) float64) []model.Candle {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		c := closeAt(i)
		candles[i] = model.Candle{
			Datetime: base.Add(time.Duration(i) * time.Minute).Format("2006-01-02 15:04:05"),
			Open:     c,
			High:     c + 0.5,
			Low:      c - 0.5,
			Close:    c,
			Volume:   1000,
		}
	}
	return candles
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	classifier := regime.NewClassifier(regime.Config{SlopeThreshold: 0.05})
	policy := gate.DefaultPolicy()
	policy.MaxCandleAge = 0 // historical bars are always stale
	return NewEngine(classifier, gate.NewEvaluator(policy), 150)
}

func TestRun_Uptrend(t *testing.T) {
	e := newTestEngine(t)
	candles := generateTestCandles(400, func(i int) float64 {
		return 100 + 0.2*float64(i)
	})

	results, err := e.Run(candles)
	if err != nil {
		t.Fatal(err)
	}

	if results.Evaluations != 400-150-1 {
		t.Errorf("Evaluations = %d, want %d", results.Evaluations, 400-150-1)
	}
	if results.Allowed == 0 {
		t.Fatal("expected allowed entries in a clean uptrend")
	}
	if results.RegimeBars[model.RegimeTrend] == 0 {
		t.Error("expected TREND bars in an uptrend")
	}

	// Long-only with positive next-bar returns: equity must grow.
	if results.FinalEquity <= 10000 {
		t.Errorf("FinalEquity = %v, want > initial 10000", results.FinalEquity)
	}
}

func TestRun_VolatileTailBlocksEntries(t *testing.T) {
	e := newTestEngine(t)
	candles := generateTestCandles(400, func(i int) float64 {
		if i < 380 {
			return 100 + float64(i%5)*0.2
		}
		return 90 + float64(i%2)*20
	})

	results, err := e.Run(candles)
	if err != nil {
		t.Fatal(err)
	}

	if results.RegimeBars[model.RegimeVolatile] == 0 {
		t.Error("expected VOLATILE bars in the tail")
	}
	if results.Blocked == 0 {
		t.Error("expected blocked evaluations during the volatility spike")
	}
}

func TestRun_InsufficientData(t *testing.T) {
	e := newTestEngine(t)
	candles := generateTestCandles(100, func(i int) float64 { return 100 })

	if _, err := e.Run(candles); err == nil {
		t.Error("expected an error for insufficient data")
	}
}

func TestFormatResults(t *testing.T) {
	e := newTestEngine(t)
	results := &Results{
		Bars:        400,
		Evaluations: 249,
		Allowed:     200,
		Blocked:     49,
		RegimeBars: map[model.RegimeLabel]int{
			model.RegimeTrend:    200,
			model.RegimeVolatile: 49,
		},
		RegimePnL: map[model.RegimeLabel]float64{
			model.RegimeTrend: 120.5,
		},
		FinalEquity: 10120.5,
		MaxDrawdown: 0.031,
	}

	report := e.FormatResults(results)
	for _, want := range []string{"BACKTEST RESULTS", "Entries allowed: 200", "TREND", "VOLATILE", "Max drawdown"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}
