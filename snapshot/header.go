// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/nlpodyssey/echoviz/dtype"
)

const metadataKey = "__metadata__"

// tensorEntry is the header description of one tensor.
type tensorEntry struct {
	Name        string      `json:"-"`
	DType       dtype.DType `json:"dtype"`
	Shape       []int       `json:"shape"`
	DataOffsets [2]int      `json:"data_offsets"`
}

func (e tensorEntry) byteSize() int {
	return e.DataOffsets[1] - e.DataOffsets[0]
}

type header struct {
	// entries are sorted by data offsets.
	entries  []tensorEntry
	metadata map[string]string
}

// readHeader reads the 8-byte little-endian header size followed by the
// JSON header. A positive sizeLimit rejects larger headers before
// allocating memory for them.
func readHeader(r io.Reader, sizeLimit int) (header, error) {
	var sizeBuf [8]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return header{}, fmt.Errorf("failed to read header size: %w", err)
	}
	size := binary.LittleEndian.Uint64(sizeBuf[:])
	switch {
	case size < 2: // "{}"
		return header{}, fmt.Errorf("header size too small: %d", size)
	case size > math.MaxInt32:
		return header{}, fmt.Errorf("header size too large: %d", size)
	case sizeLimit > 0 && size > uint64(sizeLimit):
		return header{}, fmt.Errorf("header size %d exceeds limit %d", size, sizeLimit)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return header{}, fmt.Errorf("failed to read header: %w", err)
	}
	h, err := decodeHeader(data)
	if err != nil {
		return header{}, fmt.Errorf("failed to JSON-decode header: %w", err)
	}
	if err = h.validate(); err != nil {
		return header{}, fmt.Errorf("header is invalid: %w", err)
	}
	return h, nil
}

func decodeHeader(data []byte) (header, error) {
	// Trailing spaces are valid padding.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimRight(data, " "), &raw); err != nil {
		return header{}, err
	}

	var h header
	if rawMeta, ok := raw[metadataKey]; ok {
		delete(raw, metadataKey)
		if err := json.Unmarshal(rawMeta, &h.metadata); err != nil {
			return header{}, fmt.Errorf("invalid metadata: %w", err)
		}
	}

	h.entries = make([]tensorEntry, 0, len(raw))
	for name, msg := range raw {
		dec := json.NewDecoder(bytes.NewReader(msg))
		dec.DisallowUnknownFields()
		e := tensorEntry{Name: name}
		if err := dec.Decode(&e); err != nil {
			return header{}, fmt.Errorf("invalid tensor %q: %w", name, err)
		}
		h.entries = append(h.entries, e)
	}
	sort.Slice(h.entries, func(i, j int) bool {
		a, b := h.entries[i].DataOffsets, h.entries[j].DataOffsets
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})
	return h, nil
}

// validate checks that each tensor is well-formed and that tensors data
// covers the byte-buffer contiguously, without holes or overlaps.
func (h header) validate() error {
	end := 0
	for _, e := range h.entries {
		if err := e.DType.Validate(); err != nil {
			return fmt.Errorf("tensor %q: %w", e.Name, err)
		}
		elements := 1
		for _, d := range e.Shape {
			if d < 0 {
				return fmt.Errorf("tensor %q: invalid shape %v", e.Name, e.Shape)
			}
			var err error
			if elements, err = checkedMul(elements, d); err != nil {
				return fmt.Errorf("tensor %q: shape %v: %w", e.Name, e.Shape, err)
			}
		}
		if e.DataOffsets[0] != end {
			return fmt.Errorf("tensor %q: data offsets %v do not follow byte %d", e.Name, e.DataOffsets, end)
		}
		if e.byteSize() < 0 {
			return fmt.Errorf("tensor %q: invalid data offsets %v", e.Name, e.DataOffsets)
		}
		want, err := checkedMul(elements, e.DType.Size())
		if err != nil {
			return fmt.Errorf("tensor %q: shape %v: %w", e.Name, e.Shape, err)
		}
		if e.byteSize() != want {
			return fmt.Errorf("tensor %q: data size %d does not match shape %v of %s (%d bytes)",
				e.Name, e.byteSize(), e.Shape, e.DType, want)
		}
		end = e.DataOffsets[1]
	}
	return nil
}

// checkedMul multiplies two non-negative ints and checks for overflow.
func checkedMul(a, b int) (int, error) {
	c := a * b
	if a > 1 && b > 1 && c/a != b {
		return c, fmt.Errorf("multiplication overflow: %d * %d", a, b)
	}
	return c, nil
}
