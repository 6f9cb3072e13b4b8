package model

import (
	"fmt"
	"time"
)

// Candle represents a single price candle
type Candle struct {
	Datetime string  `json:"datetime"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   int64   `json:"volume,omitempty"`
}

// TwelveResponse represents the API response from Twelve Data
type TwelveResponse struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
	} `json:"meta"`
	Values []struct {
		Datetime string  `json:"datetime"`
		Open     float64 `json:"open,string"`
		High     float64 `json:"high,string"`
		Low      float64 `json:"low,string"`
		Close    float64 `json:"close,string"`
		Volume   int64   `json:"volume,string,omitempty"`
	} `json:"values"`
	Status string `json:"status"`
}

// candleTimeLayouts are the datetime formats Twelve Data returns depending on interval.
var candleTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time parses the candle datetime string.
func (c Candle) Time() (time.Time, error) {
	for _, layout := range candleTimeLayouts {
		if t, err := time.Parse(layout, c.Datetime); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized candle datetime %q", c.Datetime)
}

// Closes extracts the close prices from a candle series.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

// ValidateSeries checks that a candle series is usable for analysis:
// chronological order, positive prices, highs not below lows.
func ValidateSeries(candles []Candle) error {
	if len(candles) == 0 {
		return fmt.Errorf("empty candle series")
	}
	for i, c := range candles {
		if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
			return fmt.Errorf("candle %d (%s): non-positive price", i, c.Datetime)
		}
		if c.High < c.Low {
			return fmt.Errorf("candle %d (%s): high %.6f below low %.6f", i, c.Datetime, c.High, c.Low)
		}
		if i > 0 && candles[i-1].Datetime >= c.Datetime {
			return fmt.Errorf("candle %d (%s): out of chronological order", i, c.Datetime)
		}
	}
	return nil
}

// CalculateCandlesForBacktest estimates how many candles cover the requested
// number of days at a given interval, capped at the API maximum of 5000.
func CalculateCandlesForBacktest(interval string, days int) int {
	perDay := map[string]int{
		"1min":  1440,
		"5min":  288,
		"15min": 96,
		"30min": 48,
		"1h":    24,
		"4h":    6,
		"1day":  1,
	}
	n, ok := perDay[interval]
	if !ok {
		n = 288
	}
	total := n * days
	if total > 5000 {
		total = 5000
	}
	return total
}
