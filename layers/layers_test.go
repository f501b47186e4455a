// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layers

import (
	"encoding/json"
	"testing"

	"github.com/nlpodyssey/echoviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tensor(v float64) echoviz.Tensor {
	return echoviz.Tensor{Shape: []int{1, 1}, Values: echoviz.Flat([]float64{v})}
}

func TestSplit(t *testing.T) {
	t1, t2, t3 := tensor(1), tensor(2), tensor(3)

	var m echoviz.NamedTensorMap
	m.Set("conv1", t1)
	m.Set("conv1.bn", t2)
	m.Set("conv2", t3)

	h := Split(m)
	assert.Equal(t, []echoviz.NamedTensor{{Name: "conv1", Tensor: t1}, {Name: "conv2", Tensor: t3}}, h.Main)
	assert.Equal(t, map[string][]echoviz.NamedTensor{"conv1": {{Name: "conv1.bn", Tensor: t2}}}, h.Internals)
}

func TestSplit_Details(t *testing.T) {
	data := `{
		"layer1": {"values": [1]},
		"layer1.conv.relu": {"values": [2]},
		"layer1.bn": {"values": [3]},
		"layer2.conv": {"values": [4]},
		"layer3": null,
		"layer1.skip": null,
		".orphan": {"values": [5]}
	}`
	var m echoviz.NamedTensorMap
	require.NoError(t, json.Unmarshal([]byte(data), &m))

	h := Split(m)

	mainNames := make([]string, len(h.Main))
	for i, nt := range h.Main {
		mainNames[i] = nt.Name
	}
	assert.Equal(t, []string{"layer1"}, mainNames)

	require.Len(t, h.Internals["layer1"], 2)
	assert.Equal(t, "layer1.conv.relu", h.Internals["layer1"][0].Name)
	assert.Equal(t, "layer1.bn", h.Internals["layer1"][1].Name)

	require.Len(t, h.Internals["layer2"], 1, "sub-layers without a top-level layer")
	require.Len(t, h.Internals[""], 1)
	assert.NotContains(t, h.Internals, "layer3")
}

func TestSplit_Empty(t *testing.T) {
	h := Split(echoviz.NamedTensorMap{})
	assert.Empty(t, h.Main)
	assert.Empty(t, h.Internals)
}

func TestHierarchy_SortedInternals(t *testing.T) {
	var m echoviz.NamedTensorMap
	m.Set("conv1", tensor(0))
	m.Set("conv1.relu", tensor(1))
	m.Set("conv1.bn", tensor(2))
	m.Set("conv1.act", tensor(3))

	h := Split(m)
	sorted := h.SortedInternals("conv1")
	require.Len(t, sorted, 3)
	assert.Equal(t, "conv1.act", sorted[0].Name)
	assert.Equal(t, "conv1.bn", sorted[1].Name)
	assert.Equal(t, "conv1.relu", sorted[2].Name)

	assert.Equal(t, "conv1.relu", h.Internals["conv1"][0].Name, "input order must be preserved")
	assert.Nil(t, h.SortedInternals("missing"))
}

func TestParentName(t *testing.T) {
	testCases := []struct {
		name     string
		parent   string
		internal bool
	}{
		{"conv1", "conv1", false},
		{"conv1.bn", "conv1", true},
		{"layer1.block.conv", "layer1", true},
		{".x", "", true},
		{"", "", false},
	}
	for _, tc := range testCases {
		parent, internal := ParentName(tc.name)
		assert.Equal(t, tc.parent, parent, tc.name)
		assert.Equal(t, tc.internal, internal, tc.name)
	}
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "bn", ShortName("conv1", "conv1.bn"))
	assert.Equal(t, "block.relu", ShortName("layer1", "layer1.block.relu"))
	assert.Equal(t, "other.bn", ShortName("conv1", "other.bn"))
}

func TestExplain(t *testing.T) {
	assert.Equal(t, spectrogramExplanation, Explain("conv1", true))
	assert.Equal(t, convExplanation, Explain("conv1", false))
	assert.Equal(t, convExplanation, Explain("layer1.Conv2d", false))
	assert.Equal(t, activationExplanation, Explain("layer1.bn", false))
	assert.Equal(t, activationExplanation, Explain("CONV", false))
}
