// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package training

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// overfittingWindow is how many final epochs are compared.
	overfittingWindow = 10
	// overfittingThreshold is the ratio of validation to train loss
	// above which a run is considered overfitting.
	overfittingThreshold = 1.1
	// trendWindow is how many final values determine a Trend.
	trendWindow = 5
)

// LearningRateDecay compares the initial and final learning rates.
type LearningRateDecay struct {
	Initial float64 `json:"initial_lr"`
	Final   float64 `json:"final_lr"`
	// Factor is Final / Initial; nil when Initial is not positive.
	Factor *float64 `json:"decay_factor"`
}

// Overfitting compares the mean train and validation losses over the
// final epochs.
type Overfitting struct {
	TrainTrend    float64 `json:"train_trend"`
	ValTrend      float64 `json:"val_trend"`
	Gap           float64 `json:"gap"`
	IsOverfitting bool    `json:"is_overfitting"`
}

// Analysis summarizes the performance of a training run.
type Analysis struct {
	TotalEpochs         int               `json:"total_epochs"`
	FinalTrainLoss      float64           `json:"final_train_loss"`
	FinalValLoss        float64           `json:"final_val_loss"`
	FinalValAccuracy    float64           `json:"final_val_accuracy"`
	BestValAccuracy     float64           `json:"best_val_accuracy"`
	BestValAccuracyStep int               `json:"best_val_accuracy_step"`
	LearningRateDecay   LearningRateDecay `json:"learning_rate_decay"`
	// Overfitting is nil for runs with too few epochs.
	Overfitting *Overfitting `json:"overfitting_analysis,omitempty"`
}

// Report pairs a History with its Analysis.
type Report struct {
	TrainingData History  `json:"training_data"`
	Analysis     Analysis `json:"analysis"`
}

// Analyze computes the Analysis of a History, trimmed first.
// The returned boolean flag is false when there are no epochs.
func Analyze(h History) (Analysis, bool) {
	h = h.Trim()
	n := h.Len()
	if n == 0 {
		return Analysis{}, false
	}

	best := floats.MaxIdx(h.ValAccuracy)
	a := Analysis{
		TotalEpochs:         n,
		FinalTrainLoss:      h.TrainLoss[n-1],
		FinalValLoss:        h.ValLoss[n-1],
		FinalValAccuracy:    h.ValAccuracy[n-1],
		BestValAccuracy:     h.ValAccuracy[best],
		BestValAccuracyStep: h.Steps[best],
		LearningRateDecay: LearningRateDecay{
			Initial: h.LearningRate[0],
			Final:   h.LearningRate[n-1],
		},
	}
	if initial := h.LearningRate[0]; initial > 0 {
		f := h.LearningRate[n-1] / initial
		a.LearningRateDecay.Factor = &f
	}

	if n > overfittingWindow {
		train := stat.Mean(h.TrainLoss[n-overfittingWindow:], nil)
		val := stat.Mean(h.ValLoss[n-overfittingWindow:], nil)
		a.Overfitting = &Overfitting{
			TrainTrend:    train,
			ValTrend:      val,
			Gap:           val - train,
			IsOverfitting: val > train*overfittingThreshold,
		}
	}
	return a, true
}

// Direction is the tendency of a series of values.
type Direction int8

// Directions returned by Trend.
const (
	Flat Direction = iota
	Up
	Down
)

// String returns a string representation of the Direction.
func (d Direction) String() string {
	switch d {
	case Flat:
		return "flat"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// Trend compares the last value of a series with the value trendWindow-1
// positions before it (or the first value of shorter series).
func Trend(values []float64) Direction {
	if len(values) < 2 {
		return Flat
	}
	recent := values[max(0, len(values)-trendWindow):]
	switch delta := recent[len(recent)-1] - recent[0]; {
	case delta > 0:
		return Up
	case delta < 0:
		return Down
	}
	return Flat
}
