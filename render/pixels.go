// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render turns grids of values into colored pixels, images and
// other exportable representations.
package render

import (
	"github.com/nlpodyssey/echoviz/colormap"
	"github.com/nlpodyssey/echoviz/grid"
)

// Pixel is a colored Grid cell.
type Pixel struct {
	Row   int
	Col   int
	Color colormap.RGB
}

// Render colors every cell of the Grid, in row-major order.
//
// Each value is divided by scale (usually the absolute maximum of the
// Grid) before being mapped to a color. A zero scale maps every cell to
// the color of 0.
func Render(g grid.Grid, scale float64) []Pixel {
	n := 0
	for _, row := range g {
		n += len(row)
	}
	if n == 0 {
		return nil
	}
	out := make([]Pixel, 0, n)
	for i, row := range g {
		for j, v := range row {
			out = append(out, Pixel{
				Row:   i,
				Col:   j,
				Color: colormap.Colorize(colormap.Normalize(v, scale)),
			})
		}
	}
	return out
}

// AbsMax returns the absolute maximum of the finite values of the Grid,
// or 0 if there are none.
func AbsMax(g grid.Grid) float64 {
	s, _ := grid.SummarizeFinite(g)
	return s.AbsMax
}
