// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nlpodyssey/echoviz"
	"github.com/nlpodyssey/echoviz/dashboard"
	"github.com/nlpodyssey/echoviz/grid"
	"github.com/nlpodyssey/echoviz/layers"
	"github.com/nlpodyssey/echoviz/render"
	"github.com/nlpodyssey/echoviz/snapshot"
	"github.com/spf13/cobra"
)

// Box the pixel scale of feature map images is fitted to.
const (
	boxWidth  = 500
	boxHeight = 300
)

// layersDir holds the feature maps, apart from the top-level files.
const layersDir = "layers"

type renderOptions struct {
	outDir string
	// scale is the amount of pixels per value; zero fits the box.
	scale int
	csv   bool
	svg   bool
}

func (a *app) renderOptions() renderOptions {
	return renderOptions{
		outDir: a.v.GetString(keyRenderOutDir),
		scale:  a.v.GetInt(keyRenderScale),
	}
}

func newRenderCmd(a *app) *cobra.Command {
	var csv, svg bool
	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a response (.json) or activation dump (.safetensors) to files",
		Long: "Render loads an inference response or a safetensors activation dump, " +
			"optionally zstd-compressed, and writes the dashboard JSON, the " +
			"spectrogram, the waveform and one image per layer.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := snapshot.Open(args[0], a.snapshotOptions())
			if err != nil {
				return err
			}
			opts := a.renderOptions()
			opts.csv, opts.svg = csv, svg
			return renderResponse(resp, opts, a.logger)
		},
	}
	cmd.Flags().StringP("out", "o", "out", "output directory")
	cmd.Flags().Int("scale", 0, "pixels per value (0 fits a 500x300 box)")
	cmd.Flags().BoolVar(&csv, "csv", false, "also write the values of each feature map as CSV")
	cmd.Flags().BoolVar(&svg, "svg", false, "also write each feature map as SVG")
	a.bindFlag(cmd, keyRenderOutDir, "out")
	a.bindFlag(cmd, keyRenderScale, "scale")
	return cmd
}

func renderResponse(resp *echoviz.Response, opts renderOptions, logger *slog.Logger) error {
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	d := dashboard.Build(resp, dashboard.Options{})
	if err := writeJSON(filepath.Join(opts.outDir, "dashboard.json"), d); err != nil {
		return err
	}

	if nt, ok := dashboard.Spectrogram(resp); ok {
		if err := writeFeatureMap(opts, "spectrogram", grid.ReshapeTensor(nt.Tensor)); err != nil {
			return err
		}
	} else {
		logger.Warn(dashboard.NoSpectrogram)
	}

	if d.Waveform != nil {
		err := writeFile(filepath.Join(opts.outDir, "waveform.svg"), func(w io.Writer) error {
			return render.WriteWaveformSVG(w, resp.Waveform, 0)
		})
		if err != nil {
			return err
		}
	}

	h := layers.Split(resp.Visualization)
	count := 0
	for _, nt := range h.Main {
		parent := filepath.Join(layersDir, fileName(nt.Name))
		if err := writeFeatureMap(opts, parent, grid.ReshapeTensor(nt.Tensor)); err != nil {
			return err
		}
		count++
		for _, in := range h.SortedInternals(nt.Name) {
			base := filepath.Join(parent, fileName(layers.ShortName(nt.Name, in.Name)))
			if err := writeFeatureMap(opts, base, grid.ReshapeTensor(in.Tensor)); err != nil {
				return err
			}
			count++
		}
	}
	logger.Info("rendered", "dir", opts.outDir, "layers", count, "predictions", len(d.Predictions))
	return nil
}

// writeFeatureMap writes the images of a grid to base plus the extension,
// relative to the output directory. Empty grids are skipped.
func writeFeatureMap(opts renderOptions, base string, g grid.Grid) error {
	if g.IsEmpty() {
		return nil
	}
	path := filepath.Join(opts.outDir, base)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	scale := render.AbsMax(g)
	pixelScale := opts.scale
	if pixelScale <= 0 {
		pixelScale = render.PixelScale(g.Rows(), g.Cols(), boxWidth, boxHeight)
	}
	err := writeFile(path+".png", func(w io.Writer) error {
		return render.WritePNG(w, g, scale, pixelScale)
	})
	if err != nil {
		return err
	}
	if opts.svg {
		err = writeFile(path+".svg", func(w io.Writer) error {
			return render.WriteSVG(w, g, scale, boxWidth, boxHeight)
		})
		if err != nil {
			return err
		}
	}
	if opts.csv {
		err = writeFile(path+".csv", func(w io.Writer) error {
			return render.WriteCSV(w, g)
		})
	}
	return err
}

// fileName turns a tensor or metric name into a single path element.
func fileName(name string) string {
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

func writeJSON(path string, v any) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", e)
		}
	}()
	if err = write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
