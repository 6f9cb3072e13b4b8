package technical

import (
	"math"
	"sort"
)

// Rolling series functions return math.NaN for bars where the value is not yet
// defined (warmup, or an undefined input inside the window). Callers treat NaN
// as "not enough data".

// SimpleReturns calculates simple returns: (p_t / p_{t-1}) - 1.
// The first element is NaN.
func SimpleReturns(closes []float64) []float64 {
	returns := make([]float64, len(closes))
	for i := range closes {
		if i == 0 || closes[i-1] == 0 {
			returns[i] = math.NaN()
			continue
		}
		returns[i] = closes[i]/closes[i-1] - 1
	}
	return returns
}

// RollingStdDev calculates the rolling sample standard deviation over a window.
func RollingStdDev(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 2 {
		return out
	}
	for t := window - 1; t < len(values); t++ {
		var sum float64
		ok := true
		for i := t - window + 1; i <= t; i++ {
			if math.IsNaN(values[i]) {
				ok = false
				break
			}
			sum += values[i]
		}
		if !ok {
			continue
		}
		mean := sum / float64(window)
		var variance float64
		for i := t - window + 1; i <= t; i++ {
			variance += (values[i] - mean) * (values[i] - mean)
		}
		out[t] = math.Sqrt(variance / float64(window-1))
	}
	return out
}

// RollingMedian calculates the rolling median over a window.
func RollingMedian(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 1 {
		return out
	}
	buf := make([]float64, 0, window)
	for t := window - 1; t < len(values); t++ {
		buf = buf[:0]
		ok := true
		for i := t - window + 1; i <= t; i++ {
			if math.IsNaN(values[i]) {
				ok = false
				break
			}
			buf = append(buf, values[i])
		}
		if !ok {
			continue
		}
		sort.Float64s(buf)
		mid := window / 2
		if window%2 == 1 {
			out[t] = buf[mid]
		} else {
			out[t] = (buf[mid-1] + buf[mid]) / 2
		}
	}
	return out
}

// Slope calculates the average price change per bar over a lookback:
// (close[t] - close[t-lookback]) / lookback.
func Slope(closes []float64, lookback int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if lookback < 1 {
		return out
	}
	for t := lookback; t < len(closes); t++ {
		out[t] = (closes[t] - closes[t-lookback]) / float64(lookback)
	}
	return out
}

// Abs returns a copy of the series with absolute values. NaN stays NaN.
func Abs(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Abs(v)
	}
	return out
}
