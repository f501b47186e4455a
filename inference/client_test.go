// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inference

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Analyze(t *testing.T) {
	audio := []byte("RIFF....WAVEfmt ")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		decoded, err := base64.StdEncoding.DecodeString(req["audio_data"])
		assert.NoError(t, err)
		assert.Equal(t, audio, decoded)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"predictions": [{"class": "dog", "confidence": 0.8}],
			"visualization": {"conv1": {"shape": [1, 1], "values": [1]}},
			"waveform": {"values": [0, 1], "sample_rate": 22050, "duration": 5}
		}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.Logger = discardLogger()

	resp, err := c.Analyze(context.Background(), audio)
	require.NoError(t, err)
	require.Len(t, resp.Predictions, 1)
	assert.Equal(t, "dog", resp.Predictions[0].Class)
	assert.Equal(t, []string{"conv1"}, resp.Visualization.Names())
	assert.Equal(t, 22050.0, resp.Waveform.SampleRate)
}

func TestClient_Analyze_Errors(t *testing.T) {
	t.Run("empty audio", func(t *testing.T) {
		_, err := (&Client{Endpoint: "http://unused"}).Analyze(context.Background(), nil)
		assert.ErrorIs(t, err, ErrEmptyAudio)
	})

	t.Run("API error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := &Client{Endpoint: srv.URL, Logger: discardLogger()}
		_, err := c.Analyze(context.Background(), []byte{1})
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
		assert.EqualError(t, err, "API error 503: model not loaded")
		assert.Equal(t, "API error 500", (&APIError{StatusCode: 500}).Error())
	})

	t.Run("invalid response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"predictions": "nope"}`)
		}))
		defer srv.Close()

		c := &Client{Endpoint: srv.URL, Logger: discardLogger()}
		_, err := c.Analyze(context.Background(), []byte{1})
		assert.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := &Client{Endpoint: srv.URL, Logger: discardLogger()}
		_, err := c.Analyze(ctx, []byte{1})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		c := &Client{Endpoint: "://bad", Logger: discardLogger()}
		_, err := c.Analyze(context.Background(), []byte{1})
		assert.Error(t, err)
	})
}
