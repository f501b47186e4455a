// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nlpodyssey/echoviz"
	"github.com/nlpodyssey/echoviz/colormap"
	"github.com/nlpodyssey/echoviz/dashboard"
	"github.com/nlpodyssey/echoviz/grid"
	"github.com/nlpodyssey/echoviz/layers"
	"github.com/nlpodyssey/echoviz/render"
)

// Box the pixel scale of exported feature maps is fitted to.
const (
	exportBoxWidth  = 500
	exportBoxHeight = 300
)

func handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func decodeBody(c *fiber.Ctx) (*echoviz.Response, error) {
	resp, err := echoviz.DecodeResponse(bytes.NewReader(c.Body()))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return resp, nil
}

func handleDashboard(c *fiber.Ctx) error {
	resp, err := decodeBody(c)
	if err != nil {
		return err
	}
	return c.JSON(dashboard.Build(resp, dashboard.Options{
		TopK:        c.QueryInt("top_k", dashboard.DefaultTopK),
		IncludeGrid: c.QueryBool("grid", false),
	}))
}

// featureMap returns the grid of the tensor named by the "layer" query
// parameter, or of the input spectrogram if the parameter is empty.
func featureMap(c *fiber.Ctx) (string, grid.Grid, error) {
	resp, err := decodeBody(c)
	if err != nil {
		return "", nil, err
	}

	nt, ok := echoviz.NamedTensor{}, false
	if name := c.Query("layer"); name != "" {
		nt.Name = name
		if nt.Tensor, ok = resp.Visualization.Lookup(name); !ok {
			return "", nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("layer %q not found", name))
		}
	} else if nt, ok = dashboard.Spectrogram(resp); !ok {
		return "", nil, fiber.NewError(fiber.StatusNotFound, dashboard.NoSpectrogram)
	}

	g := grid.ReshapeTensor(nt.Tensor)
	if g.IsEmpty() {
		return "", nil, fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("layer %q has no values", nt.Name))
	}
	return nt.Name, g, nil
}

func handleFeatureMapPNG(c *fiber.Ctx) error {
	_, g, err := featureMap(c)
	if err != nil {
		return err
	}
	scale := c.QueryInt("scale", 0)
	if scale <= 0 {
		scale = render.PixelScale(g.Rows(), g.Cols(), exportBoxWidth, exportBoxHeight)
	}
	var buf bytes.Buffer
	if err = render.WritePNG(&buf, g, render.AbsMax(g), scale); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

func handleFeatureMapSVG(c *fiber.Ctx) error {
	_, g, err := featureMap(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = render.WriteSVG(&buf, g, render.AbsMax(g), exportBoxWidth, exportBoxHeight); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(buf.Bytes())
}

func handleFeatureMapCSV(c *fiber.Ctx) error {
	name, g, err := featureMap(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = render.WriteCSV(&buf, g); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Attachment(name + ".csv")
	return c.Send(buf.Bytes())
}

func handleWaveformSVG(c *fiber.Ctx) error {
	resp, err := decodeBody(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = render.WriteWaveformSVG(&buf, resp.Waveform, c.QueryFloat("t", 0)); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(buf.Bytes())
}

// handleCompare compares the comma-separated layers of the "layers" query
// parameter, or all top-level layers if it is empty.
func handleCompare(c *fiber.Ctx) error {
	resp, err := decodeBody(c)
	if err != nil {
		return err
	}
	var tensors []echoviz.NamedTensor
	if names := c.Query("layers"); names != "" {
		for _, name := range strings.Split(names, ",") {
			t, ok := resp.Visualization.Lookup(name)
			if !ok {
				return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("layer %q not found", name))
			}
			tensors = append(tensors, echoviz.NamedTensor{Name: name, Tensor: t})
		}
	} else {
		for _, nt := range resp.Visualization.Tensors() {
			if _, internal := layers.ParentName(nt.Name); !internal {
				tensors = append(tensors, nt)
			}
		}
	}
	return c.JSON(render.Compare(tensors))
}

type colorBody struct {
	R   uint8  `json:"r"`
	G   uint8  `json:"g"`
	B   uint8  `json:"b"`
	Hex string `json:"hex"`
}

func handleColormap(c *fiber.Ctx) error {
	v, err := strconv.ParseFloat(c.Query("v"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid value %q", c.Query("v")))
	}
	rgb := colormap.Colorize(v)
	return c.JSON(colorBody{R: rgb.R, G: rgb.G, B: rgb.B, Hex: rgb.Hex()})
}

func handleLegend(c *fiber.Ctx) error {
	n := c.QueryInt("n", 11)
	if n < 2 || n > 256 {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid number of stops %d", n))
	}
	return c.JSON(colormap.Legend(n))
}
