package technical

import (
	"math"
	"testing"
)

func TestSimpleReturns(t *testing.T) {
	closes := []float64{100, 105, 105, 94.5}
	returns := SimpleReturns(closes)

	if !math.IsNaN(returns[0]) {
		t.Errorf("expected NaN first return, got %v", returns[0])
	}

	expected := []float64{0.05, 0, -0.1}
	for i, want := range expected {
		got := returns[i+1]
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("returns[%d] = %v, want %v", i+1, got, want)
		}
	}
}

func TestRollingStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	out := RollingStdDev(values, 8)

	for i := 0; i < 7; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %v, want NaN during warmup", i, out[i])
		}
	}

	// Sample stddev of the full window: variance 32/7
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(out[7]-want) > 1e-9 {
		t.Errorf("out[7] = %v, want %v", out[7], want)
	}
}

func TestRollingStdDev_PropagatesNaN(t *testing.T) {
	values := []float64{math.NaN(), 1, 2, 3, 4}
	out := RollingStdDev(values, 3)

	if !math.IsNaN(out[2]) {
		t.Errorf("window containing NaN should be NaN, got %v", out[2])
	}
	if math.IsNaN(out[3]) {
		t.Error("window past the NaN should be defined")
	}
}

func TestRollingMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
		index  int
		want   float64
	}{
		{
			name:   "odd window",
			values: []float64{5, 1, 3, 2, 4},
			window: 3,
			index:  4,
			want:   3,
		},
		{
			name:   "even window",
			values: []float64{1, 2, 3, 10},
			window: 4,
			index:  3,
			want:   2.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RollingMedian(tt.values, tt.window)
			if math.Abs(out[tt.index]-tt.want) > 1e-9 {
				t.Errorf("out[%d] = %v, want %v", tt.index, out[tt.index], tt.want)
			}
			for i := 0; i < tt.window-1; i++ {
				if !math.IsNaN(out[i]) {
					t.Errorf("out[%d] = %v, want NaN during warmup", i, out[i])
				}
			}
		})
	}
}

func TestSlope(t *testing.T) {
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 100 + 0.5*float64(i)
	}

	out := Slope(closes, 40)

	for i := 0; i < 40; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %v, want NaN before lookback", i, out[i])
		}
	}
	if math.Abs(out[49]-0.5) > 1e-9 {
		t.Errorf("out[49] = %v, want 0.5", out[49])
	}
}
