// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"math"

	"github.com/nlpodyssey/echoviz/grid"
)

// Zoom levels of an interactive feature-map view.
const (
	MinZoom  = 0.5
	MaxZoom  = 5.0
	ZoomStep = 0.2
)

// ClampZoom restricts a zoom level to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// StepZoom moves the zoom level by one ZoomStep, inwards or outwards.
func StepZoom(z float64, in bool) float64 {
	if in {
		return ClampZoom(z + ZoomStep)
	}
	return ClampZoom(z - ZoomStep)
}

// Viewport maps screen coordinates onto the cells of a Grid drawn with
// square cells of CellSize pixels, magnified by Zoom and translated by
// (OffsetX, OffsetY).
type Viewport struct {
	CellSize float64
	Zoom     float64
	OffsetX  float64
	OffsetY  float64
}

// Cell returns the column and row under the screen point (px, py).
func (v Viewport) Cell(px, py float64) (x, y int) {
	size := math.Max(1, v.CellSize) * v.Zoom
	if size <= 0 {
		return -1, -1
	}
	return int(math.Floor((px - v.OffsetX) / size)), int(math.Floor((py - v.OffsetY) / size))
}

// Hover returns the cell position and value under the screen point
// (px, py). The returned boolean flag is false outside of the Grid.
func (v Viewport) Hover(g grid.Grid, px, py float64) (x, y int, value float64, ok bool) {
	x, y = v.Cell(px, py)
	value, ok = g.At(x, y)
	return x, y, value, ok
}

// ValueAt returns the value at column x and row y of the Grid.
func ValueAt(g grid.Grid, x, y int) (float64, bool) {
	return g.At(x, y)
}
