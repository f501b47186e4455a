// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echoviz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_TopPredictions(t *testing.T) {
	r := &Response{Predictions: []Prediction{
		{Class: "dog", Confidence: 0.7},
		{Class: "cat", Confidence: 0.2},
		{Class: "rain", Confidence: 0.05},
		{Class: "wind", Confidence: 0.05},
	}}

	assert.Equal(t, r.Predictions[:3], r.TopPredictions(3))
	assert.Equal(t, r.Predictions, r.TopPredictions(10))
	assert.Nil(t, r.TopPredictions(0))
	assert.Nil(t, (&Response{}).TopPredictions(3))

	top := r.TopPredictions(1)
	top[0].Class = "changed"
	assert.Equal(t, "dog", r.Predictions[0].Class)
}

func TestClassEmoji(t *testing.T) {
	assert.Equal(t, "🐕", ClassEmoji("dog"))
	assert.Equal(t, "🚁", ClassEmoji("helicopter"))
	assert.Equal(t, DefaultClassEmoji, ClassEmoji("unknown_class"))
}

func TestDisplayClass(t *testing.T) {
	assert.Equal(t, "crying baby", DisplayClass("crying_baby"))
	assert.Equal(t, "door wood knock", DisplayClass("door_wood_knock"))
	assert.Equal(t, "dog", DisplayClass("dog"))
}

func TestFormatConfidence(t *testing.T) {
	assert.Equal(t, "87.3%", FormatConfidence(0.873))
	assert.Equal(t, "100.0%", FormatConfidence(1))
	assert.Equal(t, "0.0%", FormatConfidence(0))
}

func TestDecodeResponse(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, err := DecodeResponse(strings.NewReader(`{
			"predictions": [{"class": "dog", "confidence": 0.9}],
			"visualization": {"conv1": {"shape": [2, 2], "values": [[1, 2], [3, 4]]}},
			"waveform": {"values": [0.1, -0.1], "sample_rate": 44100, "duration": 5}
		}`))
		require.NoError(t, err)
		assert.Equal(t, []Prediction{{Class: "dog", Confidence: 0.9}}, r.Predictions)
		assert.Equal(t, []string{"conv1"}, r.Visualization.Names())
		assert.Nil(t, r.InputSpectrogram)
		assert.Equal(t, Waveform{Values: []float64{0.1, -0.1}, SampleRate: 44100, Duration: 5}, r.Waveform)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := DecodeResponse(strings.NewReader(`{"predictions": 1}`))
		assert.Error(t, err)
	})
}
