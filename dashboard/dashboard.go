// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dashboard assembles the displayable panels of an inference
// Response.
package dashboard

import (
	"github.com/nlpodyssey/echoviz"
	"github.com/nlpodyssey/echoviz/grid"
	"github.com/nlpodyssey/echoviz/layers"
	"github.com/nlpodyssey/echoviz/render"
)

// DefaultTopK is the default amount of predictions shown.
const DefaultTopK = 3

// NoSpectrogram is the placeholder shown when no spectrogram is available.
const NoSpectrogram = "No spectrogram data available"

// Options for Build.
type Options struct {
	// TopK is the amount of predictions to show. Zero means DefaultTopK.
	TopK int
	// IncludeGrid makes the panels carry the reshaped grid of values.
	IncludeGrid bool
}

// Prediction is a prediction ready for display.
type Prediction struct {
	Class      string  `json:"class"`
	Label      string  `json:"label"`
	Emoji      string  `json:"emoji"`
	Confidence float64 `json:"confidence"`
	Percent    string  `json:"percent"`
}

// Panel is a feature map ready for display.
type Panel struct {
	// Name is the full layer name.
	Name string `json:"name"`
	// Label is the name shown on the panel: the full name for top-level
	// layers, the name without parent prefix for internal sub-layers.
	Label       string             `json:"label"`
	Title       string             `json:"title"`
	Rows        int                `json:"rows"`
	Cols        int                `json:"cols"`
	// Stats covers the finite values only; nil when there are none.
	Stats       *grid.Stats        `json:"stats,omitempty"`
	Explanation layers.Explanation `json:"explanation"`
	Grid        grid.Grid          `json:"grid,omitempty"`
}

// IsEmpty reports whether the Panel has nothing to draw.
func (p Panel) IsEmpty() bool {
	return p.Rows == 0 || p.Cols == 0
}

// LayerGroup is a top-level layer with its internal sub-layers, sorted
// by name.
type LayerGroup struct {
	Main      Panel   `json:"main"`
	Internals []Panel `json:"internals,omitempty"`
}

// WaveformPanel describes the waveform drawing.
type WaveformPanel struct {
	Title      string  `json:"title"`
	Path       string  `json:"path"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Duration   float64 `json:"duration"`
	SampleRate float64 `json:"sample_rate"`
}

// Dashboard is the full set of panels for a Response.
type Dashboard struct {
	Predictions []Prediction `json:"predictions"`
	// Spectrogram is nil when no spectrogram is available; Placeholder
	// is set instead.
	Spectrogram *Panel         `json:"spectrogram,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Waveform    *WaveformPanel `json:"waveform,omitempty"`
	Layers      []LayerGroup   `json:"layers"`
}

// Build processes a Response into a Dashboard.
//
// The spectrogram panel shows the tensor returned by Spectrogram, or
// the NoSpectrogram placeholder.
func Build(resp *echoviz.Response, opts Options) Dashboard {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	d := Dashboard{
		Predictions: []Prediction{},
		Layers:      []LayerGroup{},
	}
	if resp == nil {
		d.Placeholder = NoSpectrogram
		return d
	}

	for _, p := range resp.TopPredictions(opts.TopK) {
		d.Predictions = append(d.Predictions, Prediction{
			Class:      p.Class,
			Label:      echoviz.DisplayClass(p.Class),
			Emoji:      echoviz.ClassEmoji(p.Class),
			Confidence: p.Confidence,
			Percent:    echoviz.FormatConfidence(p.Confidence),
		})
	}

	if sp, ok := spectrogramPanel(resp, opts); ok {
		d.Spectrogram = &sp
	} else {
		d.Placeholder = NoSpectrogram
	}

	if wp, ok := waveformPanel(resp.Waveform); ok {
		d.Waveform = &wp
	}

	h := layers.Split(resp.Visualization)
	for _, nt := range h.Main {
		group := LayerGroup{Main: newPanel(nt, nt.Name, false, opts)}
		for _, in := range h.SortedInternals(nt.Name) {
			group.Internals = append(group.Internals, newPanel(in, layers.ShortName(nt.Name, in.Name), false, opts))
		}
		d.Layers = append(d.Layers, group)
	}
	return d
}

func spectrogramPanel(resp *echoviz.Response, opts Options) (Panel, bool) {
	nt, ok := Spectrogram(resp)
	if !ok {
		return Panel{}, false
	}
	return newPanel(nt, "input_spectrogram", true, opts), true
}

// Spectrogram returns the tensor shown as input spectrogram: the one
// found by echoviz.LocateSpectrogram if it reshapes to a non-empty grid,
// otherwise the first visualization entry, in insertion order, that does.
func Spectrogram(resp *echoviz.Response) (echoviz.NamedTensor, bool) {
	if resp == nil {
		return echoviz.NamedTensor{}, false
	}
	if nt, ok := echoviz.LocateSpectrogram(resp); ok && !grid.ReshapeTensor(nt.Tensor).IsEmpty() {
		return nt, true
	}
	for _, nt := range resp.Visualization.Tensors() {
		if !grid.ReshapeTensor(nt.Tensor).IsEmpty() {
			return nt, true
		}
	}
	return echoviz.NamedTensor{}, false
}

func newPanel(nt echoviz.NamedTensor, label string, spectrogram bool, opts Options) Panel {
	g := grid.ReshapeTensor(nt.Tensor)
	p := Panel{
		Name:        nt.Name,
		Label:       label,
		Title:       nt.Tensor.ShapeString(),
		Explanation: layers.Explain(nt.Name, spectrogram),
	}
	if g.IsEmpty() {
		return p
	}
	p.Rows, p.Cols = g.Rows(), g.Cols()
	if stats, ok := grid.SummarizeFinite(g); ok {
		p.Stats = &stats
	}
	if opts.IncludeGrid {
		p.Grid = g
	}
	return p
}

func waveformPanel(w echoviz.Waveform) (WaveformPanel, bool) {
	path := render.WaveformPath(w.Values)
	if path == "" {
		return WaveformPanel{}, false
	}
	return WaveformPanel{
		Title:      render.WaveformTitle(w),
		Path:       path,
		Width:      render.WaveformWidth,
		Height:     render.WaveformHeight,
		Duration:   w.Duration,
		SampleRate: w.SampleRate,
	}, true
}
