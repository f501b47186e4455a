// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package training

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var (
	historyCSVHeader = []string{"Step", "Train Loss", "Validation Loss", "Validation Accuracy", "Learning Rate"}
	metricCSVHeader  = []string{"Step", "Value", "Wall Time"}
)

// WriteHistoryCSV writes one record per epoch of the trimmed History.
func WriteHistoryCSV(w io.Writer, h History) error {
	h = h.Trim()
	records := make([][]string, 0, h.Len()+1)
	records = append(records, historyCSVHeader)
	for i, step := range h.Steps {
		records = append(records, []string{
			strconv.Itoa(step),
			formatFloat(h.TrainLoss[i]),
			formatFloat(h.ValLoss[i]),
			formatFloat(h.ValAccuracy[i]),
			formatFloat(h.LearningRate[i]),
		})
	}
	return writeCSV(w, records)
}

// WriteMetricCSV writes one record per point of the Metric. Wall times
// are formatted as RFC 3339, or left empty if missing.
func WriteMetricCSV(w io.Writer, m Metric) error {
	n := m.Len()
	records := make([][]string, 0, n+1)
	records = append(records, metricCSVHeader)
	for i := 0; i < n; i++ {
		wallTime := ""
		if t := m.WallTime(i); !t.IsZero() {
			wallTime = t.Format(time.RFC3339)
		}
		records = append(records, []string{
			strconv.Itoa(m.Steps[i]),
			formatFloat(m.Values[i]),
			wallTime,
		})
	}
	return writeCSV(w, records)
}

func writeCSV(w io.Writer, records [][]string) error {
	if err := csv.NewWriter(w).WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
