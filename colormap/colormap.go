// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package colormap maps normalized values to colors along a diverging
// blue-white-red gradient.
package colormap

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color with 8-bit channels.
// It satisfies image/color.Color interface (fully opaque).
type RGB struct {
	R, G, B uint8
}

var (
	// Blue is the color of normalized value -1.
	Blue = RGB{R: 0, G: 0, B: 255}
	// White is the color of normalized value 0.
	White = RGB{R: 255, G: 255, B: 255}
	// Red is the color of normalized value 1.
	Red = RGB{R: 255, G: 0, B: 0}
)

// Colorize maps a normalized value to a color.
//
// The value is clamped to [-1, 1]. Negative values sweep from blue (-1)
// to white (0); non-negative values sweep from white (0) to red (1).
// The varying channels are 255 * (1 - |v|), rounded half away from zero,
// so that opposite values always get mirrored red and blue channels.
// This differs in the last unit from computing the intensity of positive
// values as ((v+1)/2-0.5)*2, which loses low bits: that form maps 0.1 to
// (255, 229, 229) and -0.1 to (230, 230, 255), while Colorize returns
// (255, 230, 230) and (230, 230, 255).
// NaN is treated as 0.
func Colorize(v float64) RGB {
	if math.IsNaN(v) {
		v = 0
	}
	v = math.Max(-1, math.Min(1, v))
	level := uint8(math.Round(255 * (1 - math.Abs(v))))
	if v < 0 {
		return RGB{R: level, G: level, B: 255}
	}
	return RGB{R: 255, G: level, B: level}
}

// Normalize divides value by scale, returning 0 if scale is zero.
func Normalize(value, scale float64) float64 {
	if scale == 0 {
		return 0
	}
	return value / scale
}

// RGBA satisfies image/color.Color interface.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Colorful converts the color to a colorful.Color.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns the "#rrggbb" representation of the color.
func (c RGB) Hex() string {
	return c.Colorful().Hex()
}

// CSS returns the "rgb(r,g,b)" representation of the color.
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// String representation of the color, same as Hex.
func (c RGB) String() string {
	return c.Hex()
}

// Stop is a point of a color legend.
type Stop struct {
	Value float64 `json:"value"`
	Color RGB     `json:"-"`
	Hex   string  `json:"color"`
}

// Legend samples the gradient at n evenly spaced values from -1 to 1
// inclusive. It returns nil if n < 2.
func Legend(n int) []Stop {
	if n < 2 {
		return nil
	}
	stops := make([]Stop, n)
	for i := range stops {
		v := -1 + 2*float64(i)/float64(n-1)
		c := Colorize(v)
		stops[i] = Stop{Value: v, Color: c, Hex: c.Hex()}
	}
	return stops
}
