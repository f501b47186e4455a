// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layers organizes named tensors into a two-tier hierarchy of
// top-level layers and their internal sub-layers.
package layers

import (
	"sort"
	"strings"

	"github.com/nlpodyssey/echoviz"
)

// Separator divides the name of a top-level layer from the name of one of
// its internal sub-layers.
const Separator = "."

// Hierarchy is the result of Split.
type Hierarchy struct {
	// Main lists top-level layers, in input order.
	Main []echoviz.NamedTensor
	// Internals maps the name of a top-level layer to its internal
	// sub-layers, in input order. Sub-layers keep their full name.
	Internals map[string][]echoviz.NamedTensor
}

// ParentName returns the name of the top-level layer an internal
// sub-layer belongs to, that is the part of the name before the first
// Separator. The returned boolean flag is false for top-level names.
func ParentName(name string) (string, bool) {
	parent, _, found := strings.Cut(name, Separator)
	return parent, found
}

// Split partitions named tensors into top-level layers and internal
// sub-layers. Names without a tensor are skipped.
//
// A sub-layer is listed under its parent name even if no top-level layer
// with that name exists.
func Split(m echoviz.NamedTensorMap) Hierarchy {
	h := Hierarchy{Internals: make(map[string][]echoviz.NamedTensor)}
	for _, name := range m.Names() {
		t, ok := m.Lookup(name)
		if !ok {
			continue
		}
		nt := echoviz.NamedTensor{Name: name, Tensor: t}
		if parent, internal := ParentName(name); internal {
			h.Internals[parent] = append(h.Internals[parent], nt)
		} else {
			h.Main = append(h.Main, nt)
		}
	}
	return h
}

// SortedInternals returns a copy of the internal sub-layers of parent,
// sorted lexicographically by full name.
func (h Hierarchy) SortedInternals(parent string) []echoviz.NamedTensor {
	internals := h.Internals[parent]
	if len(internals) == 0 {
		return nil
	}
	out := make([]echoviz.NamedTensor, len(internals))
	copy(out, internals)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// ShortName strips the parent prefix from the full name of an internal
// sub-layer.
func ShortName(parent, name string) string {
	return strings.TrimPrefix(name, parent+Separator)
}
