package regime

import (
	"math"

	"github.com/Alias1177/RegimeEngine/internal/analysis/technical"
	"github.com/Alias1177/RegimeEngine/internal/model"
)

// Config holds the classifier thresholds.
type Config struct {
	// How many bars to use for the returns-spread volatility calculation
	LookbackVol int
	// How many bars to use for the trend slope calculation
	LookbackTrend int
	// Window for the "typical volatility" baseline (rolling median of vol)
	TypicalVolWindow int
	// VOLATILE when current vol > typical vol * VolMultHigh
	VolMultHigh float64
	// TREND when |slope| > SlopeThreshold. When <= 0 the threshold is picked
	// automatically as the rolling median of |slope| over AutoSlopeWindow bars.
	SlopeThreshold  float64
	AutoSlopeWindow int
}

// DefaultConfig returns the standard classifier thresholds.
func DefaultConfig() Config {
	return Config{
		LookbackVol:      20,
		LookbackTrend:    40,
		TypicalVolWindow: 100,
		VolMultHigh:      1.5,
		SlopeThreshold:   0,
		AutoSlopeWindow:  200,
	}
}

// MinBars is the number of bars required before any bar can be labeled
// something other than UNCERTAIN.
func (c Config) MinBars() int {
	trendBars := c.LookbackTrend + 1
	volBars := c.TypicalVolWindow + c.LookbackVol + 1
	if trendBars > volBars {
		return trendBars
	}
	return volBars
}

// Classifier labels candle series with market regimes.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a classifier. Zero or negative window fields fall back
// to the defaults.
func NewClassifier(cfg Config) *Classifier {
	def := DefaultConfig()
	if cfg.LookbackVol <= 0 {
		cfg.LookbackVol = def.LookbackVol
	}
	if cfg.LookbackTrend <= 0 {
		cfg.LookbackTrend = def.LookbackTrend
	}
	if cfg.TypicalVolWindow <= 0 {
		cfg.TypicalVolWindow = def.TypicalVolWindow
	}
	if cfg.VolMultHigh <= 0 {
		cfg.VolMultHigh = def.VolMultHigh
	}
	if cfg.AutoSlopeWindow <= 0 {
		cfg.AutoSlopeWindow = def.AutoSlopeWindow
	}
	return &Classifier{cfg: cfg}
}

// Config returns the effective classifier configuration.
func (c *Classifier) Config() Config {
	return c.cfg
}

// signals holds the per-bar series the labeling rules operate on.
type signals struct {
	vol        []float64
	typicalVol []float64
	slope      []float64
	threshold  []float64
}

func (c *Classifier) computeSignals(closes []float64) signals {
	returns := technical.SimpleReturns(closes)
	vol := technical.RollingStdDev(returns, c.cfg.LookbackVol)
	typicalVol := technical.RollingMedian(vol, c.cfg.TypicalVolWindow)
	slope := technical.Slope(closes, c.cfg.LookbackTrend)

	var threshold []float64
	if c.cfg.SlopeThreshold > 0 {
		threshold = make([]float64, len(closes))
		for i := range threshold {
			threshold[i] = c.cfg.SlopeThreshold
		}
	} else {
		threshold = technical.RollingMedian(technical.Abs(slope), c.cfg.AutoSlopeWindow)
	}

	return signals{vol: vol, typicalVol: typicalVol, slope: slope, threshold: threshold}
}

// labelBar applies the regime rules to one bar. VOLATILE takes priority;
// TREND and RANGE require a defined slope and threshold.
func (c *Classifier) labelBar(s signals, t int) model.RegimeLabel {
	vol := s.vol[t]
	typical := s.typicalVol[t]
	if math.IsNaN(vol) || math.IsNaN(typical) || typical == 0 {
		return model.RegimeUncertain
	}
	if vol > typical*c.cfg.VolMultHigh {
		return model.RegimeVolatile
	}
	slope := s.slope[t]
	threshold := s.threshold[t]
	if math.IsNaN(slope) || math.IsNaN(threshold) {
		return model.RegimeUncertain
	}
	if math.Abs(slope) > threshold {
		return model.RegimeTrend
	}
	return model.RegimeRange
}

// Classify labels every bar of the series. Bars before warmup, and bars where
// a rolling input is undefined, are labeled UNCERTAIN.
func (c *Classifier) Classify(candles []model.Candle) []model.RegimeLabel {
	labels := make([]model.RegimeLabel, len(candles))
	for i := range labels {
		labels[i] = model.RegimeUncertain
	}
	if len(candles) < c.cfg.MinBars() {
		return labels
	}

	s := c.computeSignals(model.Closes(candles))
	for t := range candles {
		labels[t] = c.labelBar(s, t)
	}
	return labels
}

// ClassifyLatest classifies the most recent bar and returns a snapshot with
// the signal values that produced the label.
func (c *Classifier) ClassifyLatest(candles []model.Candle) *model.RegimeSnapshot {
	snapshot := &model.RegimeSnapshot{
		Label:     model.RegimeUncertain,
		Direction: "NEUTRAL",
		Bars:      len(candles),
	}
	if len(candles) == 0 {
		return snapshot
	}
	t := len(candles) - 1
	snapshot.BarDatetime = candles[t].Datetime
	if len(candles) < c.cfg.MinBars() {
		return snapshot
	}

	s := c.computeSignals(model.Closes(candles))
	snapshot.Label = c.labelBar(s, t)

	if !math.IsNaN(s.vol[t]) {
		snapshot.Volatility = s.vol[t]
	}
	if !math.IsNaN(s.typicalVol[t]) {
		snapshot.TypicalVol = s.typicalVol[t]
		if snapshot.TypicalVol > 0 {
			snapshot.VolRatio = snapshot.Volatility / snapshot.TypicalVol
		}
	}
	if !math.IsNaN(s.slope[t]) {
		snapshot.Slope = s.slope[t]
	}
	if !math.IsNaN(s.threshold[t]) {
		snapshot.SlopeThreshold = s.threshold[t]
	}

	if snapshot.Slope > 0 {
		snapshot.Direction = "BULLISH"
	} else if snapshot.Slope < 0 {
		snapshot.Direction = "BEARISH"
	}

	return snapshot
}
