// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid turns tensor payloads into two-dimensional grids of values
// and summarizes them.
package grid

import (
	"math"
	"strconv"

	"github.com/nlpodyssey/echoviz"
)

// Grid is a row-major table of values.
//
// A Grid is expected to be rectangular. A Grid with no rows, or whose
// first row is empty, is the canonical empty (invalid) Grid.
type Grid [][]float64

// IsEmpty reports whether the Grid is the canonical empty Grid.
func (g Grid) IsEmpty() bool {
	return len(g) == 0 || len(g[0]) == 0
}

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the length of the first row, or 0 for an empty Grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Flatten returns all values, row-major.
func (g Grid) Flatten() []float64 {
	n := 0
	for _, row := range g {
		n += len(row)
	}
	out := make([]float64, 0, n)
	for _, row := range g {
		out = append(out, row...)
	}
	return out
}

// At returns the value at column x and row y. The returned boolean flag
// is false if the position is out of range.
func (g Grid) At(x, y int) (float64, bool) {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return 0, false
	}
	return g[y][x], true
}

// MarshalJSON encodes the Grid as an array of arrays of numbers. NaN and
// infinite values, which JSON cannot represent, are encoded as null.
func (g Grid) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("null"), nil
	}
	b := []byte{'['}
	for i, row := range g {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '[')
		for j, v := range row {
			if j > 0 {
				b = append(b, ',')
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				b = append(b, "null"...)
				continue
			}
			b = strconv.AppendFloat(b, v, 'g', -1, 64)
		}
		b = append(b, ']')
	}
	return append(b, ']'), nil
}

// Reshape converts a tensor payload into a Grid, according to the
// declared shape.
//
//   - an Empty payload yields an empty Grid
//   - a Nested payload is returned as it is, one row per inner sequence
//   - a Flat payload with a usable two-dimensional shape [rows, cols]
//     (both positive) is split into consecutive chunks of cols values;
//     values exceeding rows*cols are dropped, and if values run out the
//     last row is left short (no padding is ever added)
//   - otherwise, a Flat payload whose length is a perfect square is
//     arranged as a square Grid, and any other as a single row
//
// Reshape never fails. Rows built from a Flat payload are copies of the
// original values.
func Reshape(values echoviz.Payload, shape []int) Grid {
	switch values.Kind() {
	case echoviz.NestedPayload:
		rows, _ := values.Rows()
		return rows
	case echoviz.FlatPayload:
		flat, _ := values.FlatValues()
		return reshapeFlat(flat, shape)
	}
	return nil
}

// ReshapeTensor is a shorthand for Reshape(t.Values, t.Shape).
func ReshapeTensor(t echoviz.Tensor) Grid {
	return Reshape(t.Values, t.Shape)
}

func reshapeFlat(flat []float64, shape []int) Grid {
	if len(flat) == 0 {
		return nil
	}
	if len(shape) == 2 && shape[0] > 0 && shape[1] > 0 {
		return chunk(flat, shape[0], shape[1])
	}
	if side, ok := squareSide(len(flat)); ok {
		return chunk(flat, side, side)
	}
	row := make([]float64, len(flat))
	copy(row, flat)
	return Grid{row}
}

// chunk splits flat into at most rows rows of cols values. The declared
// dimensions are untrusted: allocations are bounded by len(flat).
func chunk(flat []float64, rows, cols int) Grid {
	g := make(Grid, 0, min(rows, 1+(len(flat)-1)/cols))
	for i := 0; i < rows; i++ {
		begin := i * cols
		if begin >= len(flat) {
			break
		}
		end := min(begin+cols, len(flat))
		row := make([]float64, end-begin)
		copy(row, flat[begin:end])
		g = append(g, row)
	}
	return g
}

// squareSide returns the integer square root of n, if n is a perfect square.
func squareSide(n int) (int, bool) {
	side := int(math.Sqrt(float64(n)))
	for side*side > n {
		side--
	}
	for (side+1)*(side+1) <= n {
		side++
	}
	return side, side*side == n
}
