// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"math"

	"github.com/nlpodyssey/echoviz"
	"github.com/nlpodyssey/echoviz/grid"
)

// Layout is the arrangement of side-by-side panels.
type Layout struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// ComparisonLayout arranges n panels in a grid as close as possible to a
// square, filled row by row.
func ComparisonLayout(n int) Layout {
	if n <= 0 {
		return Layout{}
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	return Layout{
		Rows: (n + cols - 1) / cols,
		Cols: cols,
	}
}

// Cell returns the layout row and column of the i-th panel.
func (l Layout) Cell(i int) (row, col int) {
	if l.Cols == 0 {
		return 0, 0
	}
	return i / l.Cols, i % l.Cols
}

// ComparedLayer is one of the panels of a Comparison.
type ComparedLayer struct {
	Name     string     `json:"name"`
	Grid     grid.Grid  `json:"grid"`
	Stats    grid.Stats `json:"stats"`
	HasStats bool       `json:"has_stats"`
}

// Comparison places several layers side by side.
type Comparison struct {
	Layout Layout          `json:"layout"`
	Layers []ComparedLayer `json:"layers"`
}

// Compare reshapes and summarizes the finite values of each tensor, in the
// given order.
func Compare(tensors []echoviz.NamedTensor) Comparison {
	c := Comparison{
		Layout: ComparisonLayout(len(tensors)),
		Layers: make([]ComparedLayer, len(tensors)),
	}
	for i, nt := range tensors {
		g := grid.ReshapeTensor(nt.Tensor)
		stats, ok := grid.SummarizeFinite(g)
		c.Layers[i] = ComparedLayer{
			Name:     nt.Name,
			Grid:     g,
			Stats:    stats,
			HasStats: ok,
		}
	}
	return c
}

// Probe returns the value at column x and row y of every layer, in order.
// Layers not covering the position yield 0.
func (c Comparison) Probe(x, y int) []float64 {
	out := make([]float64, len(c.Layers))
	for i, l := range c.Layers {
		out[i], _ = l.Grid.At(x, y)
	}
	return out
}
