// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"predictions": [{"class": "dog", "confidence": 0.9}, {"class": "rain", "confidence": 0.05}],
	"visualization": {
		"conv1": {"shape": [2, 2], "values": [0, -4, 4, 2]},
		"conv1.bn": {"shape": [1, 2], "values": [1, 2]},
		"conv2": {"shape": [1, 1], "values": []},
		"enc/out": {"shape": [1, 1], "values": [3]}
	},
	"input_spectrogram": {"shape": [1, 3], "values": [1, 2, 3]},
	"waveform": {"values": [-1, 0, 1], "sample_rate": 22050, "duration": 5}
}`

const sampleTrainingSnapshot = `{
	"runs": {
		"run_a": {
			"metrics": {
				"Loss/Train": {"steps": [1, 2, 3], "values": [2.0, 1.5, 1.0], "wall_times": [1, 2, 3]},
				"Loss/Validation": {"steps": [1, 2, 3], "values": [2.2, 1.7, 1.3], "wall_times": [1, 2, 3]},
				"Accuracy/Validation": {"steps": [1, 2, 3], "values": [40, 60, 55], "wall_times": [1, 2, 3]},
				"Learning_Rate": {"steps": [1, 2, 3], "values": [0.001, 0.001, 0.001], "wall_times": [1, 2, 3]},
				"Single": {"steps": [1], "values": [1], "wall_times": [1]}
			},
			"metadata": {"total_steps": 3, "start_time": 1, "end_time": 3}
		}
	},
	"summary": {"total_runs": 1, "available_metrics": [], "runs": []}
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRender(t *testing.T) {
	input := writeTemp(t, "response.json", sampleResponse)
	out := t.TempDir()

	_, err := execute(t, "render", input, "--out", out, "--csv", "--svg", "--scale", "2")
	require.NoError(t, err)

	for _, name := range []string{
		"dashboard.json",
		"spectrogram.png",
		"spectrogram.svg",
		"waveform.svg",
		"layers/conv1.png",
		"layers/conv1.csv",
		"layers/conv1/bn.png",
		"layers/enc_out.png",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.NoFileExists(t, filepath.Join(out, "layers", "conv2.png"), "empty layer")

	csv, err := os.ReadFile(filepath.Join(out, "layers", "conv1.csv"))
	require.NoError(t, err)
	assert.Equal(t, "0,-4\n4,2\n", string(csv))

	var d struct {
		Predictions []json.RawMessage `json:"predictions"`
		Layers      []json.RawMessage `json:"layers"`
	}
	data, err := os.ReadFile(filepath.Join(out, "dashboard.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Len(t, d.Predictions, 2)
	assert.Len(t, d.Layers, 3)
}

func TestRender_LayerNamedSpectrogram(t *testing.T) {
	input := writeTemp(t, "response.json", `{
		"visualization": {"spectrogram": {"shape": [1, 1], "values": [5]}},
		"input_spectrogram": {"shape": [1, 3], "values": [1, 2, 3]}
	}`)
	out := t.TempDir()

	_, err := execute(t, "render", input, "--out", out, "--scale", "2")
	require.NoError(t, err)

	assert.Equal(t, 6, pngWidth(t, filepath.Join(out, "spectrogram.png")))
	assert.Equal(t, 2, pngWidth(t, filepath.Join(out, "layers", "spectrogram.png")))
}

func pngWidth(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width
}

func TestRender_Errors(t *testing.T) {
	_, err := execute(t, "render")
	assert.Error(t, err)

	_, err = execute(t, "render", writeTemp(t, "response.txt", sampleResponse))
	assert.Error(t, err)

	_, err = execute(t, "render", writeTemp(t, "response.json", sampleResponse), "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestRender_ConfigFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "from-config")
	config := writeTemp(t, "echoviz.yaml", "log:\n  level: debug\nrender:\n  out_dir: "+out+"\n")

	_, err := execute(t, "--config", config, "render", writeTemp(t, "response.json", sampleResponse))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "layers", "conv1.png"))

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "render", "x.json")
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer srv.Close()

	audio := writeTemp(t, "clip.wav", "RIFF")
	output := filepath.Join(t.TempDir(), "saved.json")
	out := t.TempDir()
	t.Setenv("ECHOVIZ_RENDER_OUT_DIR", out)

	stdout, err := execute(t, "analyze", audio, "--endpoint", srv.URL, "--output", output, "--render", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "🐕 dog: 90.0%\n🌧️ rain: 5.0%\n", stdout)
	assert.FileExists(t, output)
	assert.FileExists(t, filepath.Join(out, "spectrogram.png"))

	_, err = execute(t, "analyze", audio)
	assert.ErrorContains(t, err, "inference endpoint not configured")
}

func TestTraining(t *testing.T) {
	input := writeTemp(t, "tensorboard.json", sampleTrainingSnapshot)
	out := t.TempDir()

	stdout, err := execute(t, "training", input, "--out", out, "--format", "svg")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Run: run_a\nEpochs: 3\n")

	for _, name := range []string{
		"training_analysis.json",
		"training_history.csv",
		"loss.svg",
		"accuracy.svg",
		"learning_rate.svg",
		"metrics/Loss_Train.csv",
		"metrics/Loss_Train.svg",
		"metrics/Single.csv",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.NoFileExists(t, filepath.Join(out, "metrics/Single.svg"), "too few points")

	_, err = execute(t, "training", input, "--run", "nope", "--out", out)
	assert.ErrorContains(t, err, `run "nope" not found`)

	_, err = execute(t, "training", input, "--format", "gif", "--out", out)
	assert.ErrorContains(t, err, "invalid chart format")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Loss_Train", fileName("Loss/Train"))
	assert.Equal(t, "a_b", fileName(`a\b`))
	assert.Equal(t, "_", fileName(""))
	assert.Equal(t, "_", fileName(".."))
	assert.Equal(t, "conv1.bn", fileName("conv1.bn"))
}
