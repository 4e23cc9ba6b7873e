// Package stats holds the numeric primitives used by engagement scoring.
//
// Every function is total: degenerate input (empty slices, mismatched lengths,
// zero weights, zero variance) yields a documented neutral value instead of an
// error or NaN.
package stats

import (
	"math"
	"sort"
)

// Regression is the result of an ordinary least squares fit y = Slope*x + Intercept.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

// Median returns the middle value (mean of the two middle values for even
// lengths), or 0 for an empty slice. The input is not reordered.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return 0.5 * (cp[mid-1] + cp[mid])
}

// StandardDeviation returns the population standard deviation, or 0 for an empty slice.
func StandardDeviation(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	variance := 0.0
	for _, v := range xs {
		d := v - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(xs)))
}

// WeightedAverage returns Σ(value·weight)/Σweight. It returns 0 when the
// slices are empty, differ in length, or the weights sum to zero.
func WeightedAverage(values, weights []float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return 0
	}
	sumProduct, sumWeights := 0.0, 0.0
	for i, v := range values {
		sumProduct += v * weights[i]
		sumWeights += weights[i]
	}
	if sumWeights == 0 {
		return 0
	}
	return sumProduct / sumWeights
}

// ZScore returns (value-mean)/stdDev, or 0 when stdDev is 0.
func ZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (value - mean) / stdDev
}

// PearsonCorrelation returns the product-moment correlation of x and y in
// [-1, 1]. Mismatched or empty input and zero variance in either vector give 0.
func PearsonCorrelation(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	meanX, meanY := Mean(x), Mean(y)

	var num, denX, denY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}
	if denX == 0 || denY == 0 {
		return 0
	}
	return Clamp(num/math.Sqrt(denX*denY), -1, 1)
}

// LinearRegression fits y on x by least squares on centered data. Mismatched
// or empty input and zero variance in x give a zero Regression.
func LinearRegression(x, y []float64) Regression {
	if len(x) == 0 || len(x) != len(y) {
		return Regression{}
	}
	meanX, meanY := Mean(x), Mean(y)

	var num, den float64
	for i := range x {
		dx := x[i] - meanX
		num += dx * (y[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return Regression{}
	}
	slope := num / den
	return Regression{
		Slope:     slope,
		Intercept: meanY - slope*meanX,
	}
}

// Sigmoid is the logistic function 1/(1+e^-z).
func Sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }

// LogisticProbability returns sigmoid(bias + Σ feature·weight), or 0 when the
// feature and weight slices differ in length.
func LogisticProbability(features, weights []float64, bias float64) float64 {
	if len(features) != len(weights) {
		return 0
	}
	z := bias
	for i, f := range features {
		z += f * weights[i]
	}
	return Sigmoid(z)
}

// PercentageDelta returns the percentage change from previous to current.
// A zero previous value yields 100 for positive current values and 0 otherwise.
func PercentageDelta(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// Normalize maps value from [min, max] onto [0, 100]. A degenerate scale
// (min == max) collapses to 100. The result is not clamped.
func Normalize(value, min, max float64) float64 {
	if max == min {
		return 100
	}
	return (value - min) / (max - min) * 100
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
