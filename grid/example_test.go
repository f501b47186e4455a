// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid_test

import (
	"fmt"

	"github.com/nlpodyssey/echoviz"
	"github.com/nlpodyssey/echoviz/grid"
)

func ExampleReshape() {
	values := echoviz.Flat([]float64{1, 2, 3, 4, 5, 6})

	fmt.Println(grid.Reshape(values, []int{2, 3}))
	fmt.Println(grid.Reshape(values, []int{4, 2}))
	fmt.Println(grid.Reshape(values, nil))
	fmt.Println(grid.Reshape(echoviz.Flat([]float64{1, 2, 3, 4}), nil))

	// Output:
	// [[1 2 3] [4 5 6]]
	// [[1 2] [3 4] [5 6]]
	// [[1 2 3 4 5 6]]
	// [[1 2] [3 4]]
}

func ExampleSummarize() {
	g := grid.Grid{{0, -4}, {4, 2}}
	s, _ := grid.Summarize(g)
	fmt.Printf("min=%g max=%g mean=%g absMax=%g\n", s.Min, s.Max, s.Mean, s.AbsMax)

	// Output:
	// min=-4 max=4 mean=0.5 absMax=4
}
