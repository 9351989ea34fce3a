/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package cli implements the layoutbuilder command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"layoutbuilder/internal/catalog"
	"layoutbuilder/internal/config"
	"layoutbuilder/internal/dnd"
	"layoutbuilder/internal/export"
	"layoutbuilder/internal/layout"
	applog "layoutbuilder/internal/log"
	"layoutbuilder/internal/storage"
	"layoutbuilder/internal/telemetry"
	"layoutbuilder/internal/version"
)

const appName = "layoutbuilder"

// CLI holds state shared by all commands.
type CLI struct {
	out io.Writer

	configPath  string
	catalogPath string
	verbose     bool

	cfg  config.AppConfig
	ctrl *dnd.Controller
	tel  *telemetry.Client
	log  *slog.Logger
}

// New creates a CLI writing command output to out.
func New(out io.Writer) *CLI {
	return &CLI{out: out, cfg: config.Defaults(), log: applog.WithComponent("cli")}
}

// CommittedDocument returns the layout of the controller built by the running
// command, so crash reports include whatever was on the board.
func (c *CLI) CommittedDocument() layout.Document {
	if c.ctrl == nil {
		return layout.Document{}
	}
	return c.ctrl.CommittedDocument()
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Layout Builder arranges component boxes on a grid",
		Long:              `Layout Builder is a drag-and-drop grid layout tool. Components from a catalog are placed onto a fixed grid from a web API, a terminal UI or a desktop window, and the result can be exported as JSON, SVG, PNG or PDF.`,
		Version:           version.String(),
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, _ []string) { c.teardown(cmd.Context()) },
	}
	root.SetOut(c.out)
	root.SetVersionTemplate(appName + " {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default is the per-user config path)")
	pf.StringVar(&c.catalogPath, "catalog", "", "component catalog file (.yaml, .yml or .json)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.versionCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.uiCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.exportsCommand())
	return root
}

// setup loads configuration and initializes logging and telemetry.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFile(c.configPath)
	} else {
		c.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if c.catalogPath != "" {
		c.cfg.Catalog.Path = c.catalogPath
	}

	lc := c.cfg.Logging
	applog.Init(applog.Options{Level: lc.Level, Format: lc.Format, AddSource: lc.Source, File: lc.File})
	if c.verbose {
		applog.SetLevel("debug")
	}
	c.log = applog.WithComponent("cli")
	c.log.Debug("config loaded", slog.String("command", cmd.Name()), slog.Int("slots", c.cfg.Grid.Slots), slog.Int("columns", c.cfg.Grid.Columns))

	tc := telemetry.FromEnv()
	tc.OptIn = tc.OptIn || c.cfg.General.TelemetryOptIn
	if tc.EventsURL == "" {
		tc.EventsURL = strings.TrimSpace(c.cfg.General.TelemetryURL)
	}
	c.tel = telemetry.NewDefault(tc)
	return nil
}

func (c *CLI) teardown(ctx context.Context) {
	if c.tel == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	c.tel.Flush(ctx)
	c.tel.Close()
}

// controller builds a board from the configured catalog and grid.
func (c *CLI) controller() (*dnd.Controller, error) {
	boxes, err := catalog.Load(c.cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	board, err := layout.NewBoard(boxes, c.cfg.Grid.Slots, c.cfg.Grid.Columns)
	if err != nil {
		return nil, err
	}
	c.ctrl = dnd.NewController(board)
	if c.tel != nil {
		c.tel.Attach(c.ctrl)
	}
	return c.ctrl, nil
}

func (c *CLI) renderOptions() export.Options {
	o := export.DefaultOptions()
	e := c.cfg.Export
	o.CellWidth, o.CellHeight, o.Gap = e.CellWidth, e.CellHeight, e.Gap
	o.Guides = !e.NoGuides
	o.FontFile = e.Font
	return o
}

// exporter returns an exporter writing into dir. The caller closes the journal.
func (c *CLI) exporter(dir string) (*export.Exporter, error) {
	if dir == "" {
		dir = c.cfg.Export.Dir
	}
	db, err := storage.OpenJournal(dir)
	if err != nil {
		return nil, fmt.Errorf("open export journal: %w", err)
	}
	return &export.Exporter{Dir: dir, Options: c.renderOptions(), Journal: db}, nil
}
