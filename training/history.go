// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package training

// TensorBoard tags of the metrics making up a History.
const (
	TrainLossTag    = "Loss/Train"
	ValLossTag      = "Loss/Validation"
	ValAccuracyTag  = "Accuracy/Validation"
	LearningRateTag = "Learning_Rate"
)

// History is the per-epoch record of a training run. All series have the
// same length.
type History struct {
	Steps        []int     `json:"steps"`
	TrainLoss    []float64 `json:"train_loss"`
	ValLoss      []float64 `json:"val_loss"`
	ValAccuracy  []float64 `json:"val_accuracy"`
	LearningRate []float64 `json:"learning_rate"`
	WallTime     []float64 `json:"wall_time"`
}

// HistoryFromRun builds a History out of the well-known metrics of a run.
// Steps and wall times are the ones of TrainLossTag. All series are
// trimmed to the length of the shortest one.
func HistoryFromRun(run Run) History {
	train := run.Metrics[TrainLossTag]
	h := History{
		Steps:        train.Steps,
		TrainLoss:    train.Values,
		ValLoss:      run.Metrics[ValLossTag].Values,
		ValAccuracy:  run.Metrics[ValAccuracyTag].Values,
		LearningRate: run.Metrics[LearningRateTag].Values,
		WallTime:     train.WallTimes,
	}
	return h.Trim()
}

// Len returns the length of the shortest series, wall times excluded.
func (h History) Len() int {
	return min(len(h.Steps), len(h.TrainLoss), len(h.ValLoss), len(h.ValAccuracy), len(h.LearningRate))
}

// Trim returns a History with all series cut to Len(). Wall times are
// kept only if they cover every step.
func (h History) Trim() History {
	n := h.Len()
	out := History{
		Steps:        h.Steps[:n:n],
		TrainLoss:    h.TrainLoss[:n:n],
		ValLoss:      h.ValLoss[:n:n],
		ValAccuracy:  h.ValAccuracy[:n:n],
		LearningRate: h.LearningRate[:n:n],
	}
	if len(h.WallTime) >= n {
		out.WallTime = h.WallTime[:n:n]
	}
	return out
}

// stepsAsFloats converts the steps for plotting.
func (h History) stepsAsFloats() []float64 {
	out := make([]float64, len(h.Steps))
	for i, s := range h.Steps {
		out[i] = float64(s)
	}
	return out
}
