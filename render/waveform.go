// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nlpodyssey/echoviz"
	"github.com/nlpodyssey/echoviz/grid"
)

// Size of the waveform viewport.
const (
	WaveformWidth  = 600
	WaveformHeight = 300
)

// WaveformPath returns the SVG path data tracing the finite samples of a
// waveform across the viewport. Samples are normalized between their
// minimum and maximum and centered vertically, with a peak amplitude of
// 45% of the viewport height. A constant signal is drawn as a flat line
// across the center.
//
// It returns an empty string if there are no finite samples.
func WaveformPath(values []float64) string {
	samples := grid.Finite(values)
	if len(samples) == 0 {
		return ""
	}
	stats, _ := grid.SummarizeValues(samples)
	valueRange := stats.Max - stats.Min

	const centerY = WaveformHeight / 2.0
	const scaleY = WaveformHeight * 0.45

	var sb strings.Builder
	last := len(samples) - 1
	for i, v := range samples {
		x := 0.0
		if last > 0 {
			x = float64(i) / float64(last) * WaveformWidth
		}
		y := centerY
		if valueRange > 0 {
			norm := (v - stats.Min) / valueRange
			y = centerY - (norm-0.5)*2*scaleY
		}
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(strconv.FormatFloat(x, 'f', 2, 64))
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(y, 'f', 2, 64))
	}
	return sb.String()
}

// WaveformTitle describes duration and sample rate of a waveform.
func WaveformTitle(w echoviz.Waveform) string {
	return fmt.Sprintf("%.2fs * %sHz", w.Duration, strconv.FormatFloat(w.SampleRate, 'f', -1, 64))
}

// PlayheadX returns the horizontal position of the playback indicator.
// It is 0 when the duration is not positive.
func PlayheadX(currentTime, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return currentTime / duration * WaveformWidth
}

// SeekTime converts a horizontal position within the viewport to a
// playback time, clamped to [0, duration].
func SeekTime(x, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	t := x / WaveformWidth * duration
	return math.Max(0, math.Min(duration, t))
}

// WriteWaveformSVG writes a standalone SVG document of the waveform,
// with a playback indicator at currentTime when the duration is known.
func WriteWaveformSVG(w io.Writer, wf echoviz.Waveform, currentTime float64) error {
	path := WaveformPath(wf.Values)
	if path == "" {
		return fmt.Errorf("waveform has no finite samples")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`+"\n", WaveformWidth, WaveformHeight)
	fmt.Fprintf(&sb, `<path d="M 0 %d H %d" stroke="#e7e5e4" stroke-width="1"/>`+"\n", WaveformHeight/2, WaveformWidth)
	fmt.Fprintf(&sb, `<path d="%s" fill="none" stroke="#44403c" stroke-width="1.5" stroke-linejoin="round" stroke-linecap="round"/>`+"\n", path)
	if wf.Duration > 0 {
		x := strconv.FormatFloat(PlayheadX(currentTime, wf.Duration), 'f', 2, 64)
		fmt.Fprintf(&sb, `<line x1="%s" y1="0" x2="%s" y2="%d" stroke="#ef4444" stroke-width="2" opacity="0.8"/>`+"\n", x, x, WaveformHeight)
	}
	fmt.Fprintf(&sb, "<title>%s</title>\n</svg>\n", WaveformTitle(wf))
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write waveform SVG: %w", err)
	}
	return nil
}
