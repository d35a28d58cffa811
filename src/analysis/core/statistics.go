package core

import (
	"math"
	"sort"
)

// -----------------------------------------------------------------------------

// NanMean averages the finite values; returns (NaN, 0) when there are none.
func NanMean(data []float64) (float64, int) {
	sum := 0.0
	n := 0
	for _, v := range data {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN(), 0
	}
	return sum / float64(n), n
}

// -----------------------------------------------------------------------------

// NanMedian returns the median of the non-NaN values, or NaN when there are none.
func NanMedian(data []float64) float64 {
	vals := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2
}

// -----------------------------------------------------------------------------

// OrZero maps NaN to 0 so missing readings never reach a response.
func OrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// -----------------------------------------------------------------------------

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// -----------------------------------------------------------------------------

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// -----------------------------------------------------------------------------

// EvenlySpacedIndices picks count integer indices spanning [0, n-1] inclusive,
// truncating like numpy's linspace(0, n-1, count).astype(int).
func EvenlySpacedIndices(n, count int) []int {
	if n <= 0 || count <= 0 {
		return []int{}
	}
	if count == 1 {
		return []int{0}
	}
	out := make([]int, count)
	step := float64(n-1) / float64(count-1)
	for i := 0; i < count; i++ {
		out[i] = int(float64(i) * step)
	}
	out[count-1] = n - 1
	return out
}
