/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"layoutbuilder/internal/crash"
	"layoutbuilder/internal/server"
	"layoutbuilder/internal/tui"
	"layoutbuilder/internal/ui"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout over HTTP with a live event stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := c.controller()
			if err != nil {
				return err
			}
			defer crash.Recover(c.cfg.Export.Dir, ctrl)
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			c.log.Info("serving", slog.String("addr", addr))
			fmt.Fprintf(cmd.OutOrStdout(), "Layout Builder API on http://%s/api/layout\n", addr)
			return server.New(ctrl, c.renderOptions()).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Arrange the layout in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctrl, err := c.controller()
			if err != nil {
				return err
			}
			defer crash.Recover(c.cfg.Export.Dir, ctrl)
			return tui.Run(ctrl)
		},
	}
}

func (c *CLI) uiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the desktop builder (requires a build with -tags fyne)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctrl, err := c.controller()
			if err != nil {
				return err
			}
			exp, err := c.exporter("")
			if err != nil {
				return err
			}
			defer func() { _ = exp.Journal.Close() }()
			return ui.Run(ctrl, exp)
		},
	}
}
