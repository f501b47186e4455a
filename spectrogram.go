// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echoviz

import "strings"

var spectrogramNameHints = []string{"input", "spectrogram", "spectro"}

// IsSpectrogramName reports whether a layer name hints at the input
// spectrogram. The check is case-insensitive.
func IsSpectrogramName(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range spectrogramNameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// LocateSpectrogram identifies the tensor representing the input
// spectrogram of a Response.
//
// The lookup is performed in this order:
//   - the explicit InputSpectrogram, if it holds any value
//   - the first visualization entry, in insertion order, whose name
//     satisfies IsSpectrogramName
//   - the visualization entry with the lexicographically smallest name
//
// Entries without a tensor are never selected. The returned boolean flag
// is false when nothing could be found.
func LocateSpectrogram(resp *Response) (NamedTensor, bool) {
	if resp == nil {
		return NamedTensor{}, false
	}
	if t := resp.InputSpectrogram; t != nil && !t.Values.IsEmpty() {
		return NamedTensor{Name: "input_spectrogram", Tensor: *t}, true
	}

	vis := resp.Visualization
	for _, name := range vis.Names() {
		if !IsSpectrogramName(name) {
			continue
		}
		if t, ok := vis.Lookup(name); ok {
			return NamedTensor{Name: name, Tensor: t}, true
		}
	}

	for _, name := range vis.SortedNames() {
		if t, ok := vis.Lookup(name); ok {
			return NamedTensor{Name: name, Tensor: t}, true
		}
	}
	return NamedTensor{}, false
}
