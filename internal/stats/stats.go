// ABOUTME: Pure statistics helpers used by the wellness scoring engine.
// ABOUTME: Mean, median, population std-dev, percentile, Tukey fences, winsorization.
package stats

import (
	"math"
	"sort"
)

// FilterValid returns the present, finite values from a series of optional readings.
func FilterValid(values []*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v == nil || math.IsNaN(*v) {
			continue
		}
		out = append(out, *v)
	}
	return out
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Logistic evaluates 1 / (1 + e^(-k(x-midpoint))).
func Logistic(x, k, midpoint float64) float64 {
	return 1 / (1 + math.Exp(-k*(x-midpoint)))
}

// Mean returns the arithmetic mean, or false for an empty slice.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// Median returns the middle value (average of the two middle values for even counts).
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	s := sorted(values)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2, true
	}
	return s[mid], true
}

// StdDev returns the population standard deviation.
func StdDev(values []float64) (float64, bool) {
	m, ok := Mean(values)
	if !ok {
		return 0, false
	}
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values))), true
}

// Percentile returns the p-th percentile (p in [0,1]) using linear
// interpolation between order statistics.
func Percentile(values []float64, p float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	s := sorted(values)
	pos := Clamp(p, 0, 1) * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s[lo], true
	}
	frac := pos - float64(lo)
	return s[lo] + (s[hi]-s[lo])*frac, true
}

// Bounds holds quartiles and Tukey fences for a sample.
type Bounds struct {
	Q1    float64
	Q3    float64
	IQR   float64
	Lower float64
	Upper float64
}

// IQRBounds computes quartiles and the 1.5·IQR fences.
func IQRBounds(values []float64) (Bounds, bool) {
	q1, ok := Percentile(values, 0.25)
	if !ok {
		return Bounds{}, false
	}
	q3, _ := Percentile(values, 0.75)
	iqr := q3 - q1
	return Bounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - 1.5*iqr,
		Upper: q3 + 1.5*iqr,
	}, true
}

// DefaultWinsorizeMin is the sample size below which Winsorize is a no-op.
const DefaultWinsorizeMin = 5

// Winsorize clamps every value into the Tukey fences of the sample.
// Samples smaller than minCount are returned unchanged. The result always
// has the same length as the input.
func Winsorize(values []float64, minCount int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if len(values) < minCount {
		return out
	}
	b, _ := IQRBounds(values)
	for i, v := range out {
		out[i] = Clamp(v, b.Lower, b.Upper)
	}
	return out
}

func sorted(values []float64) []float64 {
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	return s
}
