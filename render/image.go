// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/nlpodyssey/echoviz/colormap"
	"github.com/nlpodyssey/echoviz/grid"
	"golang.org/x/image/draw"
)

// MaxPixelScale is the largest size, in pixels, of the side of a Grid cell
// in a scaled image.
const MaxPixelScale = 10

// Image draws the Grid one pixel per cell. The image is as wide as the
// longest row; cells missing from shorter rows are left white.
// It returns nil for an empty Grid.
func Image(g grid.Grid, scale float64) *image.RGBA {
	if g.IsEmpty() {
		return nil
	}
	width := 0
	for _, row := range g {
		width = max(width, len(row))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, len(g)))
	draw.Draw(img, img.Bounds(), image.NewUniform(colormap.White), image.Point{}, draw.Src)
	for _, p := range Render(g, scale) {
		img.Set(p.Col, p.Row, p.Color)
	}
	return img
}

// PixelScale returns how many pixels to use for the side of each cell
// when fitting a rows x cols Grid into a box of the given size.
// The result is in range [1, MaxPixelScale].
func PixelScale(rows, cols, boxWidth, boxHeight int) int {
	if rows <= 0 || cols <= 0 {
		return 1
	}
	s := math.Min(float64(boxWidth)/float64(cols), float64(boxHeight)/float64(rows))
	s = math.Min(s, MaxPixelScale)
	return max(1, int(s))
}

// Zoom upscales an image by an integer factor, with nearest-neighbor
// sampling so that each cell stays a sharp square.
func Zoom(src image.Image, factor int) *image.RGBA {
	factor = max(1, factor)
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// WritePNG encodes the Grid as PNG, each cell drawn as a square of
// pixelScale pixels per side.
func WritePNG(w io.Writer, g grid.Grid, scale float64, pixelScale int) error {
	img := Image(g, scale)
	if img == nil {
		return fmt.Errorf("cannot encode an empty grid")
	}
	pixelScale = min(max(1, pixelScale), MaxPixelScale)
	if err := png.Encode(w, Zoom(img, pixelScale)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// WriteSVG writes the Grid as an SVG document with one unit-size rect per
// cell. The document is stretched to the given size.
func WriteSVG(w io.Writer, g grid.Grid, scale float64, width, height int) error {
	if g.IsEmpty() {
		return fmt.Errorf("cannot encode an empty grid")
	}
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" preserveAspectRatio="none" shape-rendering="crispEdges">`+"\n",
		width, height, g.Cols(), g.Rows())
	if err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	for _, p := range Render(g, scale) {
		_, err = fmt.Fprintf(w, `<rect x="%d" y="%d" width="1" height="1" fill="%s"/>`+"\n", p.Col, p.Row, p.Color.CSS())
		if err != nil {
			return fmt.Errorf("failed to write SVG: %w", err)
		}
	}
	if _, err = io.WriteString(w, "</svg>\n"); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return nil
}
