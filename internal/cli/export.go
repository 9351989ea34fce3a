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
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"layoutbuilder/internal/dnd"
	"layoutbuilder/internal/export"
	"layoutbuilder/internal/storage"
)

// ErrPlacement is returned by export --strict when a placement is rejected.
var ErrPlacement = errors.New("placement rejected")

// placement is one --place id=slot-N argument.
type placement struct {
	ID, Slot string
}

func parsePlacements(args []string) ([]placement, error) {
	out := make([]placement, 0, len(args))
	for _, a := range args {
		id, slot, ok := strings.Cut(a, "=")
		id, slot = strings.TrimSpace(id), strings.TrimSpace(slot)
		if !ok || id == "" || slot == "" {
			return nil, fmt.Errorf("invalid --place %q: want id=slot-N", a)
		}
		out = append(out, placement{ID: id, Slot: slot})
	}
	return out, nil
}

// apply replays placements as drag gestures. Rejected drops are reported and skipped.
func apply(ctrl *dnd.Controller, ps []placement, strict bool, warn func(string)) error {
	for _, p := range ps {
		if !ctrl.GestureStart(p.ID) {
			if strict {
				return fmt.Errorf("%w: unknown component %q", ErrPlacement, p.ID)
			}
			warn(fmt.Sprintf("skipped %s: unknown component", p.ID))
			continue
		}
		res := ctrl.GestureEnd(p.ID, p.Slot)
		if res.Outcome.Committed() || res.Outcome == dnd.OutcomeUnchanged {
			continue
		}
		if strict {
			return fmt.Errorf("%w: %s at %s (%s)", ErrPlacement, p.ID, p.Slot, res.Outcome)
		}
		warn(fmt.Sprintf("skipped %s at %s: %s", p.ID, p.Slot, res.Outcome))
	}
	return nil
}

func (c *CLI) exportCommand() *cobra.Command {
	var (
		places   []string
		format   string
		dir      string
		name     string
		strict   bool
		noGuides bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build a layout from placements and export it",
		Long: `Export places components with --place id=slot-N (applied in order, as drag gestures)
and writes the layout in one format (json, svg, png, pdf, bundle) or a preset (web, print, all).`,
		Example: `  layoutbuilder export --place header-1=slot-0 --place hero-1=slot-3 --format web`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ps, err := parsePlacements(places)
			if err != nil {
				return err
			}
			ctrl, err := c.controller()
			if err != nil {
				return err
			}
			errw := cmd.ErrOrStderr()
			if err := apply(ctrl, ps, strict, func(s string) { fmt.Fprintln(errw, s) }); err != nil {
				return err
			}

			exp, err := c.exporter(dir)
			if err != nil {
				return err
			}
			defer func() { _ = exp.Journal.Close() }()
			exp.Name = name
			if noGuides {
				exp.Options.Guides = false
			}

			var entries []storage.Entry
			if f, ferr := export.ParseFormat(format); ferr == nil {
				e, err := exp.Export(cmd.Context(), ctrl.Document(), f)
				if err != nil {
					return err
				}
				entries = append(entries, e)
			} else {
				var guides *bool
				if cmd.Flags().Changed("no-guides") {
					g := !noGuides
					guides = &g
				}
				entries, err = exp.ExportPreset(cmd.Context(), ctrl.Document(), export.PresetName(format), guides)
				if err != nil {
					return err
				}
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\n", e.Path, e.Bytes)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&places, "place", nil, "place a component: id=slot-N (repeatable)")
	f.StringVarP(&format, "format", "f", "json", "json, svg, png, pdf, bundle, or a preset: web, print, all")
	f.StringVar(&dir, "dir", "", "output directory (default from config)")
	f.StringVar(&name, "name", "layout", "base file name")
	f.BoolVar(&strict, "strict", false, "fail when a placement is rejected")
	f.BoolVar(&noGuides, "no-guides", false, "omit empty slot outlines")
	return cmd
}

func (c *CLI) exportsCommand() *cobra.Command {
	var (
		dir   string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "List recent exports from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = c.cfg.Export.Dir
			}
			db, err := storage.OpenJournal(dir)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			entries, err := storage.ListExports(cmd.Context(), db, limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CREATED\tFORMAT\tPLACED\tBYTES\tPATH")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Format, e.Placed, e.Bytes, e.Path)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "export directory (default from config)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	return cmd
}
