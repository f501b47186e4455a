// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layers

import "strings"

// Explanation describes what the extreme values of a feature map mean.
type Explanation struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

var (
	spectrogramExplanation = Explanation{
		Min: "Lowest audio intensity/frequency in this time-frequency region",
		Max: "Highest audio intensity/frequency in this time-frequency region",
	}
	convExplanation = Explanation{
		Min: "Areas where this filter detected very little of its target pattern",
		Max: "Areas where this filter strongly detected its target pattern",
	}
	activationExplanation = Explanation{
		Min: "Lowest activation value in this feature map",
		Max: "Highest activation value in this feature map",
	}
)

// Explain returns the Explanation for a feature map.
func Explain(name string, spectrogram bool) Explanation {
	switch {
	case spectrogram:
		return spectrogramExplanation
	case strings.Contains(name, "conv") || strings.Contains(name, "Conv"):
		return convExplanation
	default:
		return activationExplanation
	}
}
