// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echoviz

import (
	"encoding/json"
	"fmt"
	"io"
)

// Prediction is a class label with its confidence, in range [0, 1].
type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// Waveform is the (downsampled) audio signal returned along with the
// predictions.
type Waveform struct {
	Values     []float64 `json:"values"`
	SampleRate float64   `json:"sample_rate"`
	Duration   float64   `json:"duration"`
}

// Response is the result of an inference request: predictions, the
// activations of the network's layers, the input spectrogram and the
// waveform.
type Response struct {
	Predictions   []Prediction   `json:"predictions"`
	Visualization NamedTensorMap `json:"visualization"`
	// InputSpectrogram is nil when the inference endpoint did not send it.
	InputSpectrogram *Tensor `json:"input_spectrogram,omitempty"`
	Waveform         Waveform `json:"waveform"`
}

// DecodeResponse reads and JSON-decodes a whole Response from r.
func DecodeResponse(r io.Reader) (*Response, error) {
	var resp Response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to JSON-decode response: %w", err)
	}
	return &resp, nil
}
