// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nlpodyssey/echoviz/training"
	"github.com/spf13/cobra"
)

func newTrainingCmd(a *app) *cobra.Command {
	var (
		runName string
		outDir  string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "training <snapshot.json>",
		Short: "Analyze and chart the metrics of a training run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var chartFormat training.ChartFormat
			switch format {
			case "png":
				chartFormat = training.PNG
			case "svg":
				chartFormat = training.SVG
			default:
				return fmt.Errorf("invalid chart format %q", format)
			}

			snap, err := readTrainingSnapshot(args[0])
			if err != nil {
				return err
			}
			if runName == "" {
				var ok bool
				if runName, _, ok = snap.DefaultSelection(); !ok {
					return errors.New("the snapshot has no runs")
				}
			}
			run, ok := snap.Runs[runName]
			if !ok {
				return fmt.Errorf("run %q not found", runName)
			}

			if err = os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			t := trainingWriter{outDir: outDir, format: chartFormat, logger: a.logger}
			if err = t.writeHistory(cmd.OutOrStdout(), runName, run); err != nil {
				return err
			}
			return t.writeMetrics(run)
		},
	}
	cmd.Flags().StringVar(&runName, "run", "", "run to analyze (default: the first by name)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "training", "output directory")
	cmd.Flags().StringVar(&format, "format", "png", "chart format: png or svg")
	return cmd
}

func readTrainingSnapshot(path string) (*training.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training snapshot: %w", err)
	}
	defer f.Close()
	return training.ReadSnapshot(f)
}

type trainingWriter struct {
	outDir string
	format training.ChartFormat
	logger *slog.Logger
}

// writeHistory prints the analysis of the run and writes the report,
// the history CSV and the summary charts.
func (t trainingWriter) writeHistory(stdout io.Writer, runName string, run training.Run) error {
	h := training.HistoryFromRun(run)
	analysis, ok := training.Analyze(h)
	if !ok {
		t.logger.Warn("run has no complete epochs", "run", runName)
		return nil
	}
	fmt.Fprintf(stdout, "Run: %s\n%s", runName, training.FormatAnalysis(analysis))

	report := training.Report{TrainingData: h, Analysis: analysis}
	if err := writeJSON(filepath.Join(t.outDir, "training_analysis.json"), report); err != nil {
		return err
	}
	err := writeFile(filepath.Join(t.outDir, "training_history.csv"), func(w io.Writer) error {
		return training.WriteHistoryCSV(w, h)
	})
	if err != nil {
		return err
	}

	charts := map[string]training.ChartSpec{
		"loss":          training.LossChart(h, t.format),
		"accuracy":      training.AccuracyChart(h, t.format),
		"learning_rate": training.LearningRateChart(h, t.format),
	}
	for _, name := range []string{"loss", "accuracy", "learning_rate"} {
		if err = t.writeChart(name, charts[name]); err != nil {
			return err
		}
	}
	return nil
}

// writeMetrics writes the CSV and the chart of every metric of the run.
func (t trainingWriter) writeMetrics(run training.Run) error {
	dir := filepath.Join(t.outDir, "metrics")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, name := range run.MetricNames() {
		m := run.Metrics[name]
		base := fileName(name)
		err := writeFile(filepath.Join(dir, base+".csv"), func(w io.Writer) error {
			return training.WriteMetricCSV(w, m)
		})
		if err != nil {
			return err
		}
		if err = t.writeChart(filepath.Join("metrics", base), training.MetricChart(name, m, t.format)); err != nil {
			return err
		}
	}
	return nil
}

// writeChart renders a chart to base plus the format extension, relative
// to the output directory. Charts with too few points are skipped.
func (t trainingWriter) writeChart(base string, spec training.ChartSpec) error {
	path := filepath.Join(t.outDir, base+t.format.Extension())
	err := writeFile(path, func(w io.Writer) error {
		return training.RenderChart(w, spec)
	})
	if errors.Is(err, training.ErrTooFewPoints) {
		t.logger.Warn("chart skipped", "chart", spec.Title, "error", err)
		return os.Remove(path)
	}
	return err
}
