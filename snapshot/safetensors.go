// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snapshot

import (
	"fmt"
	"io"

	"github.com/nlpodyssey/echoviz"
	"github.com/nlpodyssey/echoviz/dtype"
)

// Safetensors is an activation dump read from a safetensors stream.
type Safetensors struct {
	// Tensors are ordered by position within the byte-buffer.
	Tensors echoviz.NamedTensorMap
	// DTypes holds the original data type of each tensor.
	DTypes   map[string]dtype.DType
	Metadata map[string]string
}

// ReadSafetensors reads a whole safetensors stream, converting the data
// of every tensor to float64 values.
//
// If headerSizeLimit is positive, larger headers are rejected before being
// read, guarding against giant allocations caused by tampered or garbage
// data.
func ReadSafetensors(r io.Reader, headerSizeLimit int) (*Safetensors, error) {
	h, err := readHeader(r, headerSizeLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to read safetensors header: %w", err)
	}

	st := &Safetensors{
		DTypes:   make(map[string]dtype.DType, len(h.entries)),
		Metadata: h.metadata,
	}
	var buf []byte
	for _, e := range h.entries {
		if n := e.byteSize(); cap(buf) < n {
			buf = make([]byte, n)
		}
		data := buf[:e.byteSize()]
		if _, err = io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("failed to read data of tensor %q: %w", e.Name, err)
		}
		values, err := e.DType.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode data of tensor %q: %w", e.Name, err)
		}
		st.Tensors.Set(e.Name, echoviz.Tensor{
			Shape:  e.Shape,
			Values: echoviz.Flat(values),
		})
		st.DTypes[e.Name] = e.DType
	}
	return st, nil
}
