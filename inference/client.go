// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inference is a client of the remote audio classification
// endpoint.
package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nlpodyssey/echoviz"
)

// ErrEmptyAudio is returned when analyzing zero bytes of audio.
var ErrEmptyAudio = errors.New("empty audio data")

// DefaultTimeout is used by NewClient.
const DefaultTimeout = 2 * time.Minute

// maxErrorBody limits how much of an error response is reported.
const maxErrorBody = 512

// Client sends audio files to the inference endpoint.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewClient returns a Client for the given endpoint, with DefaultTimeout.
func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

type request struct {
	AudioData string `json:"audio_data"`
}

// APIError is returned for non-successful HTTP responses.
type APIError struct {
	StatusCode int
	Body       string
}

// Error satisfies the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API error %d", e.StatusCode)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// Analyze sends the raw bytes of an audio file, base64 encoded, and
// decodes the inference Response.
func (c *Client) Analyze(ctx context.Context, audio []byte) (*echoviz.Response, error) {
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	body, err := json.Marshal(request{AudioData: base64.StdEncoding.EncodeToString(audio)})
	if err != nil {
		return nil, fmt.Errorf("failed to JSON-encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	logger.Debug("sending inference request", "endpoint", c.Endpoint, "audio_bytes", len(audio))
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send inference request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		logger.Warn("inference request failed", "status", res.StatusCode, "elapsed", time.Since(start))
		return nil, &APIError{StatusCode: res.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	resp, err := echoviz.DecodeResponse(res.Body)
	if err != nil {
		return nil, err
	}
	logger.Info("inference completed",
		"elapsed", time.Since(start),
		"predictions", len(resp.Predictions),
		"layers", resp.Visualization.Len())
	return resp, nil
}
