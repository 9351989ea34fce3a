/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import "layoutbuilder/internal/layout"

// metrics is the fixed board geometry in device-independent pixels.
type metrics struct {
	cellW, cellH, gap float32
}

var defaultMetrics = metrics{cellW: 148, cellH: 84, gap: 10}

type frame struct {
	X, Y, W, H float32
}

func (f frame) contains(x, y float32) bool {
	return x >= f.X && x < f.X+f.W && y >= f.Y && y < f.Y+f.H
}

// boardSize is the area needed for the full grid including outer gaps.
func (m metrics) boardSize(columns, rows int) (float32, float32) {
	return m.gap + float32(columns)*(m.cellW+m.gap), m.gap + float32(rows)*(m.cellH+m.gap)
}

// cellFrame is the rectangle of a tile anchored at index covering span cells.
func (m metrics) cellFrame(index, span, columns int) frame {
	row, col := layout.IndexToPosition(index, columns)
	return frame{
		X: m.gap + float32(col)*(m.cellW+m.gap),
		Y: m.gap + float32(row)*(m.cellH+m.gap),
		W: float32(span)*m.cellW + float32(span-1)*m.gap,
		H: m.cellH,
	}
}

// slotAt returns the drop target id under the board-relative point, or "" when the
// point is outside every slot, including the gaps between slots.
func (m metrics) slotAt(x, y float32, doc layout.Document) string {
	if doc.Columns <= 0 || x < 0 || y < 0 {
		return ""
	}
	for _, s := range doc.Slots {
		if m.cellFrame(s.Index, 1, doc.Columns).contains(x, y) {
			return s.ID
		}
	}
	return ""
}
