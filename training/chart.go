// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package training

import (
	"errors"
	"fmt"
	"io"

	"github.com/nlpodyssey/echoviz/colormap"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

// ChartFormat is the output encoding of a chart.
type ChartFormat uint8

// Supported chart formats.
const (
	PNG ChartFormat = iota
	SVG
)

// Extension returns the file extension of the format, dot included.
func (f ChartFormat) Extension() string {
	if f == SVG {
		return ".svg"
	}
	return ".png"
}

func (f ChartFormat) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Default chart size, in pixels.
const (
	DefaultChartWidth  = 800
	DefaultChartHeight = 400
)

// ErrTooFewPoints is returned when a chart series has less than two points.
var ErrTooFewPoints = errors.New("at least two points are needed to draw a chart")

// Series is a named line of a chart.
type Series struct {
	Name  string
	X, Y  []float64
	Color colormap.RGB
}

// ChartSpec describes a line chart.
type ChartSpec struct {
	Title  string
	XName  string
	YName  string
	Series []Series
	Width  int
	Height int
	Format ChartFormat
}

// RenderChart draws the chart to w.
func RenderChart(w io.Writer, spec ChartSpec) error {
	if len(spec.Series) == 0 {
		return ErrTooFewPoints
	}
	series := make([]chart.Series, len(spec.Series))
	var all []float64
	for i, s := range spec.Series {
		n := min(len(s.X), len(s.Y))
		if n < 2 {
			return fmt.Errorf("series %q: %w", s.Name, ErrTooFewPoints)
		}
		series[i] = chart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X[:n],
			YValues: s.Y[:n],
			Style: chart.Style{
				StrokeColor: drawing.Color{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: 255},
				StrokeWidth: 2,
			},
		}
		all = append(all, s.Y[:n]...)
	}

	width, height := spec.Width, spec.Height
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}

	yAxis := chart.YAxis{Name: spec.YName}
	// go-chart refuses to draw a zero-height range
	if lo, hi := floats.Min(all), floats.Max(all); lo == hi {
		yAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 12}},
		XAxis:      chart.XAxis{Name: spec.XName},
		YAxis:      yAxis,
		Series:     series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	if err := ch.Render(spec.Format.provider(), w); err != nil {
		return fmt.Errorf("failed to render chart %q: %w", spec.Title, err)
	}
	return nil
}

// LossChart plots train and validation losses.
func LossChart(h History, format ChartFormat) ChartSpec {
	h = h.Trim()
	x := h.stepsAsFloats()
	return ChartSpec{
		Title: "Loss",
		XName: "Step",
		YName: "Loss",
		Series: []Series{
			{Name: "Train", X: x, Y: h.TrainLoss, Color: colormap.Blue},
			{Name: "Validation", X: x, Y: h.ValLoss, Color: colormap.Red},
		},
		Format: format,
	}
}

// AccuracyChart plots the validation accuracy.
func AccuracyChart(h History, format ChartFormat) ChartSpec {
	h = h.Trim()
	return ChartSpec{
		Title:  "Validation Accuracy",
		XName:  "Step",
		YName:  "Accuracy",
		Series: []Series{{Name: "Validation", X: h.stepsAsFloats(), Y: h.ValAccuracy, Color: colormap.Blue}},
		Format: format,
	}
}

// LearningRateChart plots the learning rate schedule.
func LearningRateChart(h History, format ChartFormat) ChartSpec {
	h = h.Trim()
	return ChartSpec{
		Title:  "Learning Rate",
		XName:  "Step",
		YName:  "Learning Rate",
		Series: []Series{{Name: "Learning Rate", X: h.stepsAsFloats(), Y: h.LearningRate, Color: colormap.Red}},
		Format: format,
	}
}

// MetricChart plots a single TensorBoard metric.
func MetricChart(name string, m Metric, format ChartFormat) ChartSpec {
	n := m.Len()
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(m.Steps[i])
	}
	return ChartSpec{
		Title:  name,
		XName:  "Step",
		YName:  name,
		Series: []Series{{Name: name, X: x, Y: m.Values[:n], Color: colormap.Blue}},
		Format: format,
	}
}
