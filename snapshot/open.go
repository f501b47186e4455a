// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package snapshot loads inference responses and activation dumps from
// files.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/nlpodyssey/echoviz"
)

// ErrUnknownFormat is returned by Open for unrecognized file extensions.
var ErrUnknownFormat = errors.New("unknown snapshot format")

// Format of a snapshot file.
type Format uint8

const (
	// JSON is an inference Response document.
	JSON Format = iota + 1
	// SafetensorsFormat is a safetensors activation dump.
	SafetensorsFormat
)

// DetectFormat infers the format from the name of a file:
// ".json" or ".safetensors", optionally followed by ".zst".
// The returned boolean flag reports zstd compression.
func DetectFormat(path string) (Format, bool, error) {
	name := strings.ToLower(path)
	compressed := strings.HasSuffix(name, ".zst")
	name = strings.TrimSuffix(name, ".zst")
	switch {
	case strings.HasSuffix(name, ".json"):
		return JSON, compressed, nil
	case strings.HasSuffix(name, ".safetensors"):
		return SafetensorsFormat, compressed, nil
	}
	return 0, false, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Options for Open.
type Options struct {
	// HeaderSizeLimit is passed to ReadSafetensors.
	HeaderSizeLimit int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Open loads a Response from a file. A safetensors dump yields a Response
// carrying only the visualization tensors.
func Open(path string, opts Options) (*echoviz.Response, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	format, compressed, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	resp, err := read(r, format, opts.HeaderSizeLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	logger.Debug("snapshot loaded",
		"path", path,
		"compressed", compressed,
		"predictions", len(resp.Predictions),
		"tensors", resp.Visualization.Len())
	return resp, nil
}

func read(r io.Reader, format Format, headerSizeLimit int) (*echoviz.Response, error) {
	if format == JSON {
		return echoviz.DecodeResponse(r)
	}
	st, err := ReadSafetensors(r, headerSizeLimit)
	if err != nil {
		return nil, err
	}
	return &echoviz.Response{Visualization: st.Tensors}, nil
}
