package model

import (
	"testing"
)

func TestValidateSeries(t *testing.T) {
	valid := []Candle{
		{Datetime: "2024-03-01 09:00:00", Open: 100, High: 101, Low: 99, Close: 100},
		{Datetime: "2024-03-01 09:05:00", Open: 100, High: 102, Low: 100, Close: 101},
	}

	tests := []struct {
		name    string
		mutate  func([]Candle) []Candle
		wantErr bool
	}{
		{
			name:   "valid series",
			mutate: func(c []Candle) []Candle { return c },
		},
		{
			name:    "empty series",
			mutate:  func(c []Candle) []Candle { return nil },
			wantErr: true,
		},
		{
			name: "non-positive price",
			mutate: func(c []Candle) []Candle {
				c[1].Close = 0
				return c
			},
			wantErr: true,
		},
		{
			name: "high below low",
			mutate: func(c []Candle) []Candle {
				c[0].High = 98
				return c
			},
			wantErr: true,
		},
		{
			name: "out of order",
			mutate: func(c []Candle) []Candle {
				c[0], c[1] = c[1], c[0]
				return c
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := make([]Candle, len(valid))
			copy(series, valid)
			err := ValidateSeries(tt.mutate(series))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSeries() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCandleTime(t *testing.T) {
	tests := []struct {
		name     string
		datetime string
		wantErr  bool
	}{
		{name: "intraday format", datetime: "2024-03-01 09:05:00"},
		{name: "daily format", datetime: "2024-03-01"},
		{name: "garbage", datetime: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Candle{Datetime: tt.datetime}.Time()
			if (err != nil) != tt.wantErr {
				t.Errorf("Time() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalculateCandlesForBacktest(t *testing.T) {
	if got := CalculateCandlesForBacktest("5min", 5); got != 1440 {
		t.Errorf("5min/5d = %d, want 1440", got)
	}
	// Capped at the API maximum.
	if got := CalculateCandlesForBacktest("1min", 30); got != 5000 {
		t.Errorf("1min/30d = %d, want 5000 cap", got)
	}
}
