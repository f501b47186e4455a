// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package training

import (
	"fmt"
	"strings"
)

// FormatAnalysis returns a human-readable summary of an Analysis, one
// topic per line.
func FormatAnalysis(a Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Epochs: %d\n", a.TotalEpochs)
	fmt.Fprintf(&b, "Loss: Train %.4f | Validation %.4f\n", a.FinalTrainLoss, a.FinalValLoss)
	fmt.Fprintf(&b, "Accuracy: Final %.2f%% | Best %.2f%% (step %d)\n",
		a.FinalValAccuracy, a.BestValAccuracy, a.BestValAccuracyStep)
	fmt.Fprintf(&b, "Learning rate: Initial %g | Final %g", a.LearningRateDecay.Initial, a.LearningRateDecay.Final)
	if a.LearningRateDecay.Factor != nil {
		fmt.Fprintf(&b, " | Decay %.4fx", *a.LearningRateDecay.Factor)
	}
	b.WriteString("\n")
	if o := a.Overfitting; o != nil {
		fmt.Fprintf(&b, "Overfitting: Train %.4f | Validation %.4f | Gap %.4f | %s\n",
			o.TrainTrend, o.ValTrend, o.Gap, yesNo(o.IsOverfitting))
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
