// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echoviz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// NamedTensorMap maps layer names to tensors.
//
// Names are kept in the order in which they were first set (or decoded
// from a JSON object). A name may be present without a tensor: this is
// how a JSON null value is represented, and consumers are expected to
// skip such entries.
//
// The zero value is an empty map ready to use.
type NamedTensorMap struct {
	names   []string
	tensors map[string]*Tensor
}

// Set associates the tensor to the given name. A new name is appended
// to the insertion order; an existing one keeps its position.
func (m *NamedTensorMap) Set(name string, t Tensor) {
	m.set(name, &t)
}

func (m *NamedTensorMap) set(name string, t *Tensor) {
	if m.tensors == nil {
		m.tensors = make(map[string]*Tensor)
	}
	if _, ok := m.tensors[name]; !ok {
		m.names = append(m.names, name)
	}
	m.tensors[name] = t
}

// Lookup returns the tensor associated to the name. The returned boolean
// flag is false if the name is unknown, or if it has no tensor.
func (m NamedTensorMap) Lookup(name string) (Tensor, bool) {
	t := m.tensors[name]
	if t == nil {
		return Tensor{}, false
	}
	return *t, true
}

// Names returns all names, tensor-less ones included, in insertion order.
//
// If there are no names it returns nil, otherwise a new slice of
// strings is allocated and returned.
func (m NamedTensorMap) Names() []string {
	if len(m.names) == 0 {
		return nil
	}
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// SortedNames is similar to Names, but the result is sorted
// lexicographically.
func (m NamedTensorMap) SortedNames() []string {
	names := m.Names()
	sort.Strings(names)
	return names
}

// Len returns how many names are stored, tensor-less ones included.
func (m NamedTensorMap) Len() int {
	return len(m.names)
}

// Tensors returns all the present tensors, in insertion order.
func (m NamedTensorMap) Tensors() []NamedTensor {
	out := make([]NamedTensor, 0, len(m.names))
	for _, name := range m.names {
		if t := m.tensors[name]; t != nil {
			out = append(out, NamedTensor{Name: name, Tensor: *t})
		}
	}
	return out
}

// MarshalJSON satisfies json.Marshaler interface, writing the names in
// insertion order.
func (m NamedTensorMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		t := m.tensors[name]
		if t == nil {
			buf.WriteString("null")
			continue
		}
		value, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("failed to JSON-encode tensor %q: %w", name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON satisfies json.Unmarshaler interface. The order of the
// keys in the JSON object is retained.
func (m *NamedTensorMap) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to JSON-decode named tensors: %w", err)
	}
	if tok == nil {
		*m = NamedTensorMap{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("invalid named tensors: expected JSON object, actual %v", tok)
	}

	var out NamedTensorMap
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("failed to JSON-decode named tensors: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("invalid named tensors: unexpected key %v", tok)
		}

		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to JSON-decode tensor %q: %w", name, err)
		}
		if len(raw) == 0 || string(raw) == "null" {
			out.set(name, nil)
			continue
		}
		var t Tensor
		if err = json.Unmarshal(raw, &t); err != nil {
			return fmt.Errorf("failed to JSON-decode tensor %q: %w", name, err)
		}
		out.set(name, &t)
	}
	if _, err = dec.Token(); err != nil {
		return fmt.Errorf("failed to JSON-decode named tensors: %w", err)
	}

	*m = out
	return nil
}
