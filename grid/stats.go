// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the values of a Grid.
type Stats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	// StdDev is the population standard deviation.
	StdDev float64 `json:"std_dev"`
	// AbsMax is the maximum absolute value, used as the denominator for
	// color normalization.
	AbsMax float64 `json:"abs_max"`
}

// Summarize computes the Stats over all values of the Grid.
//
// Values are used as they are, without filtering or clipping: callers
// dealing with data that might contain NaN or infinite values should
// filter them out first (see Finite and SummarizeFinite).
//
// The returned boolean flag is false, and Stats is the zero value, when
// the Grid holds no values.
func Summarize(g Grid) (Stats, bool) {
	return SummarizeValues(g.Flatten())
}

// SummarizeFinite is similar to Summarize, but ignores NaN and infinite
// values. The returned boolean flag is false when no finite value is left.
func SummarizeFinite(g Grid) (Stats, bool) {
	return SummarizeValues(Finite(g.Flatten()))
}

// SummarizeValues is similar to Summarize, but operates directly on a
// flat sequence of values.
func SummarizeValues(values []float64) (Stats, bool) {
	if len(values) == 0 {
		return Stats{}, false
	}
	absMax := floats.Norm(values, math.Inf(1))
	mean, std := meanStdDev(values, absMax)
	return Stats{
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: std,
		AbsMax: absMax,
	}, true
}

// overflowThreshold is the magnitude above which sums and squares of
// values might overflow.
const overflowThreshold = 1e150

// meanStdDev returns the population mean and standard deviation. Finite
// values larger than overflowThreshold are scaled down by absMax first,
// so that finite input always yields finite results.
func meanStdDev(values []float64, absMax float64) (mean, std float64) {
	if !(absMax > overflowThreshold) || math.IsInf(absMax, 0) {
		return stat.PopMeanStdDev(values, nil)
	}
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v / absMax
	}
	mean, std = stat.PopMeanStdDev(scaled, nil)
	return mean * absMax, std * absMax
}

// Finite returns a new slice with only the finite values (neither NaN
// nor infinite) of the given sequence.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
