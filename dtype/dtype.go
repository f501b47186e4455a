// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dtype describes the element types of activation snapshots and
// decodes their little-endian binary representation.
package dtype

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"
)

// DType is the data type of tensor elements.
type DType uint8

// Supported data types.
const (
	Bool DType = iota + 1
	U8
	I8
	U16
	I16
	// F16 is IEEE 754 half-precision floating point.
	F16
	// BF16 is bfloat16: the upper half of a float32.
	BF16
	U32
	I32
	F32
	U64
	I64
	F64
)

type descriptor struct {
	name   string
	size   int
	decode func(b []byte) float64
}

var descriptors = [...]descriptor{
	Bool: {"BOOL", 1, func(b []byte) float64 {
		if b[0] != 0 {
			return 1
		}
		return 0
	}},
	U8: {"U8", 1, func(b []byte) float64 { return float64(b[0]) }},
	I8: {"I8", 1, func(b []byte) float64 { return float64(int8(b[0])) }},
	U16: {"U16", 2, func(b []byte) float64 {
		return float64(binary.LittleEndian.Uint16(b))
	}},
	I16: {"I16", 2, func(b []byte) float64 {
		return float64(int16(binary.LittleEndian.Uint16(b)))
	}},
	F16: {"F16", 2, func(b []byte) float64 {
		return float64(float16.Frombits(binary.LittleEndian.Uint16(b)).Float32())
	}},
	BF16: {"BF16", 2, func(b []byte) float64 {
		return float64(math.Float32frombits(uint32(binary.LittleEndian.Uint16(b)) << 16))
	}},
	U32: {"U32", 4, func(b []byte) float64 {
		return float64(binary.LittleEndian.Uint32(b))
	}},
	I32: {"I32", 4, func(b []byte) float64 {
		return float64(int32(binary.LittleEndian.Uint32(b)))
	}},
	F32: {"F32", 4, func(b []byte) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}},
	U64: {"U64", 8, func(b []byte) float64 {
		return float64(binary.LittleEndian.Uint64(b))
	}},
	I64: {"I64", 8, func(b []byte) float64 {
		return float64(int64(binary.LittleEndian.Uint64(b)))
	}},
	F64: {"F64", 8, func(b []byte) float64 {
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}},
}

var byName = func() map[string]DType {
	m := make(map[string]DType, len(descriptors))
	for dt := Bool; dt <= F64; dt++ {
		m[descriptors[dt].name] = dt
	}
	return m
}()

// Parse returns the DType with the given name, such as "F32".
func Parse(name string) (DType, error) {
	if dt, ok := byName[name]; ok {
		return dt, nil
	}
	return 0, fmt.Errorf("unknown DType %q", name)
}

// Validate returns an error if the DType is not valid, otherwise nil.
func (dt DType) Validate() error {
	if dt == 0 || dt > F64 {
		return fmt.Errorf("invalid DType(%d)", dt)
	}
	return nil
}

// String returns the name of the DType.
func (dt DType) String() string {
	if err := dt.Validate(); err != nil {
		return err.Error()
	}
	return descriptors[dt].name
}

// Size returns the size in bytes of one element of this data type,
// or -1 if the DType value is invalid.
func (dt DType) Size() int {
	if dt.Validate() != nil {
		return -1
	}
	return descriptors[dt].size
}

// MarshalText satisfies encoding.TextMarshaler interface.
// JSON encoding relies on it as well.
func (dt DType) MarshalText() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(descriptors[dt].name), nil
}

// UnmarshalText satisfies encoding.TextUnmarshaler interface.
// JSON decoding relies on it as well.
func (dt *DType) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*dt = v
	return nil
}

// Float64 decodes one little-endian element from the beginning of b,
// which must hold at least Size() bytes. It panics on invalid DType.
func (dt DType) Float64(b []byte) float64 {
	if err := dt.Validate(); err != nil {
		panic(err)
	}
	return descriptors[dt].decode(b)
}

// Decode converts a little-endian buffer of elements to float64 values.
// The buffer length must be a multiple of Size().
func (dt DType) Decode(b []byte) ([]float64, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	d := descriptors[dt]
	if len(b)%d.size != 0 {
		return nil, fmt.Errorf("%d bytes are not a multiple of %s size %d", len(b), d.name, d.size)
	}
	out := make([]float64, len(b)/d.size)
	for i := range out {
		out[i] = d.decode(b[i*d.size:])
	}
	return out, nil
}
