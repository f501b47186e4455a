// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nlpodyssey/echoviz"
	"github.com/nlpodyssey/echoviz/inference"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		output   string
		doRender bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <audio>",
		Short: "Classify an audio file with the inference endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := a.v.GetString(keyEndpoint)
			if endpoint == "" {
				return errors.New("inference endpoint not configured")
			}
			audio, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read audio file: %w", err)
			}

			c := inference.NewClient(endpoint)
			c.HTTPClient.Timeout = a.v.GetDuration(keyTimeout)
			c.Logger = a.logger
			resp, err := c.Analyze(cmd.Context(), audio)
			if err != nil {
				return err
			}

			if err = writeJSON(output, resp); err != nil {
				return err
			}
			for _, p := range resp.TopPredictions(3) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n",
					echoviz.ClassEmoji(p.Class), echoviz.DisplayClass(p.Class), echoviz.FormatConfidence(p.Confidence))
			}
			if !doRender {
				return nil
			}
			return renderResponse(resp, a.renderOptions(), a.logger)
		},
	}
	cmd.Flags().String("endpoint", "", "URL of the inference endpoint")
	cmd.Flags().Duration("timeout", inference.DefaultTimeout, "inference request timeout")
	cmd.Flags().StringVarP(&output, "output", "o", "response.json", "file the response is saved to")
	cmd.Flags().BoolVar(&doRender, "render", false, "also render the response, like the render command")
	a.bindFlag(cmd, keyEndpoint, "endpoint")
	a.bindFlag(cmd, keyTimeout, "timeout")
	return cmd
}
