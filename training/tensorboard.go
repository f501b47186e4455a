// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package training analyzes and charts the metrics of training runs,
// exported from TensorBoard as a static JSON snapshot.
package training

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// Metric is the series of values logged for a TensorBoard tag.
type Metric struct {
	Steps  []int     `json:"steps"`
	Values []float64 `json:"values"`
	// WallTimes are seconds since the Unix epoch.
	WallTimes []float64 `json:"wall_times"`
}

// Len returns the amount of points having both a step and a value.
func (m Metric) Len() int {
	return min(len(m.Steps), len(m.Values))
}

// WallTime returns the wall time of the i-th point, or the zero Time if
// it is not available.
func (m Metric) WallTime(i int) time.Time {
	if i < 0 || i >= len(m.WallTimes) {
		return time.Time{}
	}
	return unixSeconds(m.WallTimes[i])
}

// RunMetadata describes the extent of a run.
type RunMetadata struct {
	TotalSteps int     `json:"total_steps"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
}

// Run holds the metrics of a training run, by tag.
type Run struct {
	Metrics  map[string]Metric `json:"metrics"`
	Metadata RunMetadata       `json:"metadata"`
}

// MetricNames returns the tags of the run, sorted.
func (r Run) MetricNames() []string {
	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DateRange is the time span covered by all runs, in seconds since the
// Unix epoch.
type DateRange struct {
	Earliest float64 `json:"earliest"`
	Latest   float64 `json:"latest"`
}

// Summary is the overview of a Snapshot.
type Summary struct {
	TotalRuns        int       `json:"total_runs"`
	AvailableMetrics []string  `json:"available_metrics"`
	Runs             []string  `json:"runs"`
	DateRange        DateRange `json:"date_range"`
}

// Snapshot is a static export of TensorBoard logs.
type Snapshot struct {
	Runs    map[string]Run `json:"runs"`
	Summary Summary        `json:"summary"`
}

// ReadSnapshot reads and JSON-decodes a whole Snapshot from r.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to JSON-decode TensorBoard snapshot: %w", err)
	}
	return &s, nil
}

// RunNames returns the run names listed in the summary, or, if the
// summary lists none, all run names sorted.
func (s *Snapshot) RunNames() []string {
	if len(s.Summary.Runs) > 0 {
		return s.Summary.Runs
	}
	names := make([]string, 0, len(s.Runs))
	for name := range s.Runs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultSelection returns the first run, and the first available metric.
// The returned boolean flag is false if the snapshot has no runs.
func (s *Snapshot) DefaultSelection() (run, metric string, ok bool) {
	runs := s.RunNames()
	if len(runs) == 0 {
		return "", "", false
	}
	run = runs[0]
	if len(s.Summary.AvailableMetrics) > 0 {
		metric = s.Summary.AvailableMetrics[0]
	} else if names := s.Runs[run].MetricNames(); len(names) > 0 {
		metric = names[0]
	}
	return run, metric, true
}

func unixSeconds(sec float64) time.Time {
	return time.UnixMicro(int64(sec * 1e6)).UTC()
}
