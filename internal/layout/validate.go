/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package layout

import "layoutbuilder/internal/domain"

// CanPlace reports whether a box with footprint fp may be anchored at target.
// The target must be empty; a wide box additionally needs an empty cell to its right
// in the same row. The grid is never modified.
func CanPlace(g *Grid, target int, fp domain.Footprint) bool {
	s, ok := g.Slot(target)
	if !ok || s.State != SlotEmpty {
		return false
	}
	if fp != domain.FootprintWide {
		return true
	}
	row, col := IndexToPosition(target, g.columns)
	if col >= g.columns-1 {
		return false
	}
	right, ok := g.Slot(PositionToIndex(row, col+1, g.columns))
	return ok && right.State == SlotEmpty
}
