package model

import "time"

// RegimeLabel is the per-bar market regime classification.
type RegimeLabel string

const (
	RegimeTrend     RegimeLabel = "TREND"
	RegimeRange     RegimeLabel = "RANGE"
	RegimeVolatile  RegimeLabel = "VOLATILE"
	RegimeUncertain RegimeLabel = "UNCERTAIN"
)

// RegimeSnapshot describes the regime at the most recent bar along with the
// signal values that produced the label, so a decision can be explained later.
type RegimeSnapshot struct {
	Label          RegimeLabel `json:"label"`
	Direction      string      `json:"direction"` // BULLISH, BEARISH, NEUTRAL
	Volatility     float64     `json:"volatility"`
	TypicalVol     float64     `json:"typical_vol"`
	VolRatio       float64     `json:"vol_ratio"` // Volatility / TypicalVol, 0 when undefined
	Slope          float64     `json:"slope"`
	SlopeThreshold float64     `json:"slope_threshold"`
	BarDatetime    string      `json:"bar_datetime"`
	Bars           int         `json:"bars"` // Bars available when classified
}

// RegimeChange records a transition between regimes for stability tracking.
type RegimeChange struct {
	Timestamp time.Time   `json:"timestamp"`
	From      RegimeLabel `json:"from"`
	To        RegimeLabel `json:"to"`
}
