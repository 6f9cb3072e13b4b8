package backtest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/RegimeEngine/internal/analysis/regime"
	"github.com/Alias1177/RegimeEngine/internal/model"
	"github.com/Alias1177/RegimeEngine/internal/trading/gate"
)

// Results aggregates a historical walk of the classifier and gate.
type Results struct {
	Bars        int                           `json:"bars"`
	Evaluations int                           `json:"evaluations"`
	Allowed     int                           `json:"allowed"`
	Blocked     int                           `json:"blocked"`
	RegimeBars  map[model.RegimeLabel]int     `json:"regime_bars"`
	RegimePnL   map[model.RegimeLabel]float64 `json:"regime_pnl"`
	FinalEquity float64                       `json:"final_equity"`
	MaxDrawdown float64                       `json:"max_drawdown"`
}

// Engine replays history through the classifier and gate.
// Each step sees only bars up to its own position, so there is no lookahead.
type Engine struct {
	classifier   *regime.Classifier
	gate         *gate.Evaluator
	windowSize   int
	initialValue float64
	logger       zerolog.Logger
}

// NewEngine creates a backtest engine. The gate evaluator should be built
// from a policy with MaxCandleAge 0, since historical bars are always stale.
func NewEngine(classifier *regime.Classifier, gateEval *gate.Evaluator, windowSize int) *Engine {
	if windowSize < classifier.Config().MinBars() {
		windowSize = classifier.Config().MinBars()
	}
	return &Engine{
		classifier:   classifier,
		gate:         gateEval,
		windowSize:   windowSize,
		initialValue: 10000.0,
		logger:       log.With().Str("component", "backtest").Logger(),
	}
}

// SetInitialValue sets the starting equity.
func (e *Engine) SetInitialValue(value float64) {
	e.initialValue = value
}

// Run walks the historical series. At each step the gate's size factor is
// applied to the next bar's return, giving the hypothetical equity of always
// following the engine's decisions long-only.
func (e *Engine) Run(candles []model.Candle) (*Results, error) {
	if len(candles) < e.windowSize+1 {
		return nil, fmt.Errorf("insufficient historical data, got %d candles, need %d", len(candles), e.windowSize+1)
	}

	results := &Results{
		Bars:       len(candles),
		RegimeBars: make(map[model.RegimeLabel]int),
		RegimePnL:  make(map[model.RegimeLabel]float64),
	}

	equity := e.initialValue
	highWaterMark := equity

	for i := e.windowSize; i < len(candles)-1; i++ {
		window := candles[i-e.windowSize : i+1]

		snapshot := e.classifier.ClassifyLatest(window)
		decision := e.gate.Evaluate(snapshot, window)

		results.Evaluations++
		results.RegimeBars[snapshot.Label]++
		if decision.Allow {
			results.Allowed++
		} else {
			results.Blocked++
		}

		// Next-bar simple return, scaled by the size factor.
		barReturn := candles[i+1].Close/candles[i].Close - 1
		pnl := equity * decision.SizeFactor * barReturn
		equity += pnl
		results.RegimePnL[snapshot.Label] += pnl

		if equity > highWaterMark {
			highWaterMark = equity
		}
		if highWaterMark > 0 {
			drawdown := (highWaterMark - equity) / highWaterMark
			if drawdown > results.MaxDrawdown {
				results.MaxDrawdown = drawdown
			}
		}
	}

	results.FinalEquity = equity

	e.logger.Info().
		Int("evaluations", results.Evaluations).
		Int("allowed", results.Allowed).
		Int("blocked", results.Blocked).
		Float64("final_equity", results.FinalEquity).
		Msg("Backtest complete")

	return results, nil
}

// FormatResults renders a text report of the backtest.
func (e *Engine) FormatResults(r *Results) string {
	var b strings.Builder

	b.WriteString("\n===== BACKTEST RESULTS =====\n")
	fmt.Fprintf(&b, "Bars:            %d\n", r.Bars)
	fmt.Fprintf(&b, "Evaluations:     %d\n", r.Evaluations)
	fmt.Fprintf(&b, "Entries allowed: %d (%.1f%%)\n", r.Allowed, percent(r.Allowed, r.Evaluations))
	fmt.Fprintf(&b, "Entries blocked: %d (%.1f%%)\n", r.Blocked, percent(r.Blocked, r.Evaluations))
	fmt.Fprintf(&b, "Final equity:    %.2f (started %.2f)\n", r.FinalEquity, e.initialValue)
	fmt.Fprintf(&b, "Total return:    %+.2f%%\n", (r.FinalEquity/e.initialValue-1)*100)
	fmt.Fprintf(&b, "Max drawdown:    %.2f%%\n", r.MaxDrawdown*100)

	b.WriteString("\nRegime breakdown:\n")
	for _, label := range sortedLabels(r.RegimeBars) {
		fmt.Fprintf(&b, "  %-10s %6d bars (%.1f%%)  pnl %+.2f\n",
			label, r.RegimeBars[label], percent(r.RegimeBars[label], r.Evaluations), r.RegimePnL[label])
	}

	return b.String()
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func sortedLabels(m map[model.RegimeLabel]int) []model.RegimeLabel {
	labels := make([]model.RegimeLabel, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}
