// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nlpodyssey/echoviz/inference"
	"github.com/nlpodyssey/echoviz/server"
	"github.com/nlpodyssey/echoviz/snapshot"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	keyLogLevel        = "log.level"
	keyServerAddr      = "server.addr"
	keyServerBodyLimit = "server.body_limit"
	keyEndpoint        = "inference.endpoint"
	keyTimeout         = "inference.timeout"
	keyRenderScale     = "render.scale"
	keyRenderOutDir    = "render.out_dir"
	keyHeaderLimit     = "snapshot.header_limit"
)

// app is the state shared by all sub-commands.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

func newApp() *app {
	v := viper.New()
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyServerAddr, ":8080")
	v.SetDefault(keyServerBodyLimit, server.DefaultBodyLimit)
	v.SetDefault(keyEndpoint, "")
	v.SetDefault(keyTimeout, inference.DefaultTimeout)
	v.SetDefault(keyRenderScale, 0)
	v.SetDefault(keyRenderOutDir, "out")
	v.SetDefault(keyHeaderLimit, 100<<20)

	v.SetEnvPrefix("ECHOVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return &app{v: v, logger: slog.Default()}
}

// init reads the optional configuration file and sets up logging.
func (a *app) init(configFile string, logOutput io.Writer) error {
	if configFile != "" {
		a.v.SetConfigFile(configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString(keyLogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	a.logger = slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level}))
	a.logger.Debug("configuration loaded", "file", a.v.ConfigFileUsed())
	return nil
}

// bindFlag makes the named flag of cmd override the configuration key.
func (a *app) bindFlag(cmd *cobra.Command, key, flag string) {
	if err := a.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func (a *app) snapshotOptions() snapshot.Options {
	return snapshot.Options{
		HeaderSizeLimit: a.v.GetInt(keyHeaderLimit),
		Logger:          a.logger,
	}
}

func newRootCmd() *cobra.Command {
	a := newApp()
	var configFile string

	cmd := &cobra.Command{
		Use:          "echoviz",
		Short:        "Visualize the predictions and activations of an audio CNN",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(configFile, cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (YAML, JSON or TOML)")
	cmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	if err := a.v.BindPFlag(keyLogLevel, cmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}

	cmd.AddCommand(
		newRenderCmd(a),
		newServeCmd(a),
		newAnalyzeCmd(a),
		newTrainingCmd(a),
	)
	return cmd
}
