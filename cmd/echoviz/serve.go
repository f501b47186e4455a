// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nlpodyssey/echoviz/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := server.New(server.Config{
				Addr:      a.v.GetString(keyServerAddr),
				BodyLimit: a.v.GetInt(keyServerBodyLimit),
				AccessLog: cmd.ErrOrStderr(),
				Logger:    a.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Listen() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().String("addr", ":8080", "listening address")
	cmd.Flags().Int("body-limit", server.DefaultBodyLimit, "maximum request body size, in bytes")
	a.bindFlag(cmd, keyServerAddr, "addr")
	a.bindFlag(cmd, keyServerBodyLimit, "body-limit")
	return cmd
}
