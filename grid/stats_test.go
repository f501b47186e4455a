// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("square grid", func(t *testing.T) {
		s, ok := Summarize(Grid{{1, 2}, {3, 4}})
		require.True(t, ok)
		assert.Equal(t, 1.0, s.Min)
		assert.Equal(t, 4.0, s.Max)
		assert.Equal(t, 2.5, s.Mean)
		assert.InDelta(t, math.Sqrt(1.25), s.StdDev, 1e-12)
		assert.Equal(t, 4.0, s.AbsMax)
	})

	t.Run("absolute max is independent from max", func(t *testing.T) {
		s, ok := Summarize(Grid{{-7, 2}, {3, -1}})
		require.True(t, ok)
		assert.Equal(t, -7.0, s.Min)
		assert.Equal(t, 3.0, s.Max)
		assert.Equal(t, 7.0, s.AbsMax)
		assert.InDelta(t, -0.75, s.Mean, 1e-12)
	})

	t.Run("constant values", func(t *testing.T) {
		s, ok := Summarize(Grid{{0, 0, 0}})
		require.True(t, ok)
		assert.Equal(t, Stats{}, s)
	})

	t.Run("single value", func(t *testing.T) {
		s, ok := Summarize(Grid{{-3}})
		require.True(t, ok)
		assert.Equal(t, Stats{Min: -3, Max: -3, Mean: -3, StdDev: 0, AbsMax: 3}, s)
	})

	t.Run("empty grids", func(t *testing.T) {
		for _, g := range []Grid{nil, {}, {{}}} {
			s, ok := Summarize(g)
			assert.False(t, ok)
			assert.Equal(t, Stats{}, s)
		}
	})
}

func TestFinite(t *testing.T) {
	in := []float64{1, math.NaN(), -2, math.Inf(1), 3, math.Inf(-1)}
	assert.Equal(t, []float64{1, -2, 3}, Finite(in))
	assert.Empty(t, Finite(nil))
}

func TestSummarizeFinite(t *testing.T) {
	s, ok := SummarizeFinite(Grid{{1, math.NaN()}, {math.Inf(1), 3}})
	require.True(t, ok)
	assert.Equal(t, Stats{Min: 1, Max: 3, Mean: 2, StdDev: 1, AbsMax: 3}, s)

	s, ok = SummarizeFinite(Grid{{math.NaN(), math.Inf(-1)}})
	assert.False(t, ok)
	assert.Equal(t, Stats{}, s)
}

func TestSummarizeValues_HugeValues(t *testing.T) {
	s, ok := SummarizeValues([]float64{1e308, 1e308})
	require.True(t, ok)
	assert.Equal(t, 1e308, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 1e308, s.AbsMax)

	s, ok = SummarizeValues([]float64{-math.MaxFloat64, math.MaxFloat64})
	require.True(t, ok)
	assert.False(t, math.IsNaN(s.Mean) || math.IsInf(s.Mean, 0))
	assert.False(t, math.IsNaN(s.StdDev) || math.IsInf(s.StdDev, 0))
	assert.InDelta(t, 0, s.Mean, 1)
	assert.InEpsilon(t, math.MaxFloat64, s.StdDev, 1e-12)
}

func TestSummarizeValues_AfterFinite(t *testing.T) {
	s, ok := SummarizeValues(Finite([]float64{math.NaN(), 2, 4}))
	require.True(t, ok)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 1.0, s.StdDev)
}
