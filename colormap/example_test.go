// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colormap_test

import (
	"fmt"

	"github.com/nlpodyssey/echoviz/colormap"
)

func ExampleColorize() {
	for _, v := range []float64{-4, -2, 0, 1, 4} {
		c := colormap.Colorize(colormap.Normalize(v, 4))
		fmt.Printf("%+.0f => %s %s\n", v, c.Hex(), c.CSS())
	}

	// Output:
	// -4 => #0000ff rgb(0,0,255)
	// -2 => #8080ff rgb(128,128,255)
	// +0 => #ffffff rgb(255,255,255)
	// +1 => #ffbfbf rgb(255,191,191)
	// +4 => #ff0000 rgb(255,0,0)
}

func ExampleLegend() {
	for _, s := range colormap.Legend(5) {
		fmt.Printf("%+.1f %s\n", s.Value, s.Hex)
	}

	// Output:
	// -1.0 #0000ff
	// -0.5 #8080ff
	// +0.0 #ffffff
	// +0.5 #ff8080
	// +1.0 #ff0000
}
