// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echoviz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PayloadKind identifies which variant a Payload holds.
type PayloadKind uint8

const (
	// EmptyPayload represents absent or zero-length values.
	EmptyPayload PayloadKind = iota
	// FlatPayload represents a flat, row-major sequence of values.
	FlatPayload
	// NestedPayload represents values already arranged in rows.
	NestedPayload
)

var payloadKindToString = [...]string{
	EmptyPayload:  "Empty",
	FlatPayload:   "Flat",
	NestedPayload: "Nested",
}

// String representation of a PayloadKind.
func (k PayloadKind) String() string {
	if int(k) >= len(payloadKindToString) {
		return fmt.Sprintf("PayloadKind(%d)", k)
	}
	return payloadKindToString[k]
}

// Payload holds the numeric values of a Tensor.
//
// It is a tagged variant: a Payload is either Empty, Flat or Nested, and
// the matching accessor reports whether the requested variant is held.
// The zero value is an Empty payload.
//
// Values are NOT copied when a Payload is built: the caller must not
// modify the given slices afterwards.
type Payload struct {
	kind   PayloadKind
	flat   []float64
	nested [][]float64
}

// Flat returns a Payload holding a flat sequence of values.
// A zero-length sequence yields an Empty payload.
func Flat(values []float64) Payload {
	if len(values) == 0 {
		return Payload{}
	}
	return Payload{kind: FlatPayload, flat: values}
}

// Nested returns a Payload holding values arranged in rows.
// A zero-length sequence of rows yields an Empty payload. Rows are
// expected to share the same length; this is not verified.
func Nested(rows [][]float64) Payload {
	if len(rows) == 0 {
		return Payload{}
	}
	return Payload{kind: NestedPayload, nested: rows}
}

// Kind reports which variant the Payload holds.
func (p Payload) Kind() PayloadKind {
	return p.kind
}

// FlatValues returns the flat values and true if the Payload is Flat.
func (p Payload) FlatValues() ([]float64, bool) {
	return p.flat, p.kind == FlatPayload
}

// Rows returns the rows and true if the Payload is Nested.
func (p Payload) Rows() ([][]float64, bool) {
	return p.nested, p.kind == NestedPayload
}

// Len returns the total number of values held.
func (p Payload) Len() int {
	switch p.kind {
	case FlatPayload:
		return len(p.flat)
	case NestedPayload:
		n := 0
		for _, row := range p.nested {
			n += len(row)
		}
		return n
	}
	return 0
}

// IsEmpty reports whether the Payload holds no values at all.
func (p Payload) IsEmpty() bool {
	return p.Len() == 0
}

// MarshalJSON satisfies json.Marshaler interface.
// An Empty payload is serialized as "null".
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case FlatPayload:
		return json.Marshal(p.flat)
	case NestedPayload:
		return json.Marshal(p.nested)
	}
	return []byte("null"), nil
}

// UnmarshalJSON satisfies json.Unmarshaler interface.
//
// A JSON null yields an Empty payload, an array of numbers a Flat one,
// and an array of arrays of numbers a Nested one. Arrays nested more
// deeply are flattened row-major into a Flat payload.
func (p *Payload) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*p = Payload{}
		return nil
	}

	var flat []float64
	if err := json.Unmarshal(b, &flat); err == nil {
		*p = Flat(flat)
		return nil
	}

	var rows [][]float64
	if err := json.Unmarshal(b, &rows); err == nil {
		*p = Nested(rows)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to JSON-decode tensor values: %w", err)
	}
	values, err := flattenRaw(raw, nil)
	if err != nil {
		return fmt.Errorf("invalid tensor values: %w", err)
	}
	*p = Flat(values)
	return nil
}

func flattenRaw(raw any, out []float64) ([]float64, error) {
	switch v := raw.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return nil, fmt.Errorf("failed to convert value %q to float: %w", v.String(), err)
		}
		return append(out, f), nil
	case []any:
		var err error
		for _, item := range v {
			if out, err = flattenRaw(item, out); err != nil {
				return nil, err
			}
		}
		return out, nil
	case nil:
		return append(out, 0), nil
	}
	return nil, fmt.Errorf("unexpected value of type %T", raw)
}

// Tensor is a numeric payload with its declared shape.
//
// When Shape has exactly two items, their product is expected to match the
// number of values. This is not enforced: malformed tensors are handled
// with best-effort policies by the consumers.
type Tensor struct {
	Shape  []int   `json:"shape"`
	Values Payload `json:"values"`
}

// ShapeString joins the shape items with " x ", or returns "Unknown"
// if the shape is empty.
func (t Tensor) ShapeString() string {
	if len(t.Shape) == 0 {
		return "Unknown"
	}
	parts := make([]string, len(t.Shape))
	for i, v := range t.Shape {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " x ")
}

// NamedTensor is a pair of a Tensor and its name.
type NamedTensor struct {
	Name   string
	Tensor Tensor
}
