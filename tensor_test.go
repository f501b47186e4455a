// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echoviz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ json.Marshaler = Payload{}
var _ json.Unmarshaler = &Payload{}

func TestPayload_Constructors(t *testing.T) {
	t.Run("flat", func(t *testing.T) {
		p := Flat([]float64{1, 2, 3})
		assert.Equal(t, FlatPayload, p.Kind())
		v, ok := p.FlatValues()
		assert.True(t, ok)
		assert.Equal(t, []float64{1, 2, 3}, v)
		_, ok = p.Rows()
		assert.False(t, ok)
		assert.Equal(t, 3, p.Len())
		assert.False(t, p.IsEmpty())
	})

	t.Run("nested", func(t *testing.T) {
		p := Nested([][]float64{{1, 2}, {3, 4}})
		assert.Equal(t, NestedPayload, p.Kind())
		rows, ok := p.Rows()
		assert.True(t, ok)
		assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, rows)
		_, ok = p.FlatValues()
		assert.False(t, ok)
		assert.Equal(t, 4, p.Len())
	})

	t.Run("empty", func(t *testing.T) {
		for _, p := range []Payload{{}, Flat(nil), Flat([]float64{}), Nested(nil)} {
			assert.Equal(t, EmptyPayload, p.Kind())
			assert.True(t, p.IsEmpty())
			assert.Equal(t, 0, p.Len())
		}
	})

	t.Run("nested with empty row", func(t *testing.T) {
		p := Nested([][]float64{{}})
		assert.Equal(t, NestedPayload, p.Kind())
		assert.True(t, p.IsEmpty())
	})
}

func TestPayloadKind_String(t *testing.T) {
	assert.Equal(t, "Empty", EmptyPayload.String())
	assert.Equal(t, "Flat", FlatPayload.String())
	assert.Equal(t, "Nested", NestedPayload.String())
	assert.Equal(t, "PayloadKind(42)", PayloadKind(42).String())
}

func TestPayload_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name string
		json string
		want Payload
	}{
		{"null", `null`, Payload{}},
		{"empty array", `[]`, Payload{}},
		{"flat", `[1, -2.5, 3e2]`, Flat([]float64{1, -2.5, 300})},
		{"nested", `[[1, 2], [3, 4]]`, Nested([][]float64{{1, 2}, {3, 4}})},
		{"deeper nesting", `[[[1, 2], [3, 4]], [[5, 6], [7, 8]]]`, Flat([]float64{1, 2, 3, 4, 5, 6, 7, 8})},
		{"padding", " \n[1]\t", Flat([]float64{1})},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var p Payload
			require.NoError(t, json.Unmarshal([]byte(tc.json), &p))
			assert.Equal(t, tc.want, p)
		})
	}

	t.Run("invalid values", func(t *testing.T) {
		values := []string{`"foo"`, `[1, "2"]`, `{"a": 1}`, `[[[1, "x"]]]`}
		for _, v := range values {
			var p Payload
			assert.Error(t, json.Unmarshal([]byte(v), &p), v)
		}
	})
}

func TestPayload_MarshalJSON(t *testing.T) {
	testCases := []struct {
		payload Payload
		json    string
	}{
		{Payload{}, `null`},
		{Flat([]float64{1, 2.5}), `[1,2.5]`},
		{Nested([][]float64{{1}, {2}}), `[[1],[2]]`},
	}
	for _, tc := range testCases {
		b, err := tc.payload.MarshalJSON()
		assert.NoError(t, err)
		assert.Equal(t, tc.json, string(b))
	}
}

func TestTensor_UnmarshalJSON(t *testing.T) {
	t.Run("flat values with shape", func(t *testing.T) {
		var tensor Tensor
		require.NoError(t, json.Unmarshal([]byte(`{"shape": [2, 2], "values": [0, -4, 4, 2]}`), &tensor))
		assert.Equal(t, Tensor{Shape: []int{2, 2}, Values: Flat([]float64{0, -4, 4, 2})}, tensor)
	})

	t.Run("nested values without shape", func(t *testing.T) {
		var tensor Tensor
		require.NoError(t, json.Unmarshal([]byte(`{"values": [[1], [2]]}`), &tensor))
		assert.Nil(t, tensor.Shape)
		assert.Equal(t, NestedPayload, tensor.Values.Kind())
	})

	t.Run("missing values", func(t *testing.T) {
		var tensor Tensor
		require.NoError(t, json.Unmarshal([]byte(`{"shape": [3]}`), &tensor))
		assert.True(t, tensor.Values.IsEmpty())
	})

	t.Run("invalid shape", func(t *testing.T) {
		var tensor Tensor
		assert.Error(t, json.Unmarshal([]byte(`{"shape": "2x2", "values": []}`), &tensor))
	})
}

func TestTensor_ShapeString(t *testing.T) {
	assert.Equal(t, "Unknown", Tensor{}.ShapeString())
	assert.Equal(t, "128", Tensor{Shape: []int{128}}.ShapeString())
	assert.Equal(t, "64 x 128", Tensor{Shape: []int{64, 128}}.ShapeString())
}
