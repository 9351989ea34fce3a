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

	"github.com/spf13/cobra"

	"layoutbuilder/internal/catalog"
	"layoutbuilder/internal/layout"
	"layoutbuilder/internal/version"
)

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version.String())
			return err
		},
	}
}

func (c *CLI) catalogCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the components of the catalog grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			boxes, err := catalog.Load(c.cfg.Catalog.Path)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if format != "" {
				data, err := catalog.Marshal(boxes, catalog.Format(format))
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			}
			for _, g := range layout.GroupByCategory(boxes) {
				fmt.Fprintln(w, g.Category)
				for _, b := range g.Boxes {
					label := b.Label
					if ind := b.Footprint.Indicator(); ind != "" {
						label += " " + ind
					}
					fmt.Fprintf(w, "  %-12s %s\n", b.ID, label)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "dump the catalog as yaml or json instead of a listing")
	return cmd
}
