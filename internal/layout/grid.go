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

import (
	"errors"
	"fmt"

	"layoutbuilder/internal/domain"
)

// ErrInvalidDimensions is returned for grids without at least one slot and one column.
var ErrInvalidDimensions = errors.New("grid needs a positive size and column count")

// SlotState describes what occupies a slot.
type SlotState int

const (
	SlotEmpty SlotState = iota
	SlotPrimary
	SlotSecondary
)

func (s SlotState) String() string {
	switch s {
	case SlotPrimary:
		return "primary"
	case SlotSecondary:
		return "secondary"
	default:
		return "empty"
	}
}

// Slot is one grid cell. Box is only meaningful for Primary slots; Anchor is the
// primary index for Secondary slots and -1 otherwise.
type Slot struct {
	Index  int
	State  SlotState
	Box    domain.Box
	Anchor int
}

func emptySlot(i int) Slot { return Slot{Index: i, State: SlotEmpty, Anchor: -1} }

// Grid is a fixed-size sequence of slots laid out row-major over Columns columns.
type Grid struct {
	columns int
	slots   []Slot
}

// NewGrid creates an empty grid.
func NewGrid(size, columns int) (*Grid, error) {
	if size <= 0 || columns <= 0 {
		return nil, fmt.Errorf("%w: size=%d columns=%d", ErrInvalidDimensions, size, columns)
	}
	g := &Grid{columns: columns, slots: make([]Slot, size)}
	for i := range g.slots {
		g.slots[i] = emptySlot(i)
	}
	return g, nil
}

func (g *Grid) Columns() int { return g.columns }
func (g *Grid) Size() int    { return len(g.slots) }

// Rows returns the number of rows, counting a partial last row.
func (g *Grid) Rows() int { return (len(g.slots) + g.columns - 1) / g.columns }

// InRange reports whether index names a slot of this grid.
func (g *Grid) InRange(index int) bool { return index >= 0 && index < len(g.slots) }

// Slot returns the slot at index.
func (g *Grid) Slot(index int) (Slot, bool) {
	if !g.InRange(index) {
		return Slot{}, false
	}
	return g.slots[index], true
}

// Slots returns a copy of all slots in index order.
func (g *Grid) Slots() []Slot { return append([]Slot(nil), g.slots...) }

// Clone returns an independent copy for hypothetical checks and snapshots.
func (g *Grid) Clone() *Grid {
	return &Grid{columns: g.columns, slots: append([]Slot(nil), g.slots...)}
}

// Equal reports whether both grids have identical dimensions and occupancy.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.columns != o.columns || len(g.slots) != len(o.slots) {
		return false
	}
	for i := range g.slots {
		if g.slots[i] != o.slots[i] {
			return false
		}
	}
	return true
}

// PrimaryOf returns the primary slot index holding boxID.
func (g *Grid) PrimaryOf(boxID string) (int, bool) {
	for _, s := range g.slots {
		if s.State == SlotPrimary && s.Box.ID == boxID {
			return s.Index, true
		}
	}
	return -1, false
}

// Placed returns the boxes held by primary slots in slot order.
func (g *Grid) Placed() []domain.Box {
	var out []domain.Box
	for _, s := range g.slots {
		if s.State == SlotPrimary {
			out = append(out, s.Box)
		}
	}
	return out
}

// OccupiedCells returns the cells covered by a box anchored at anchor.
func OccupiedCells(anchor int, fp domain.Footprint, columns int) []int {
	if fp != domain.FootprintWide {
		return []int{anchor}
	}
	row, col := IndexToPosition(anchor, columns)
	return []int{anchor, PositionToIndex(row, col+1, columns)}
}

// put writes box at anchor and marks its secondary cell. Callers validate first.
func (g *Grid) put(anchor int, box domain.Box) {
	g.slots[anchor] = Slot{Index: anchor, State: SlotPrimary, Box: box, Anchor: -1}
	for _, c := range OccupiedCells(anchor, box.Footprint, g.columns)[1:] {
		g.slots[c] = Slot{Index: c, State: SlotSecondary, Anchor: anchor}
	}
}

// clear empties every cell of the box whose primary is anchor.
func (g *Grid) clear(anchor int) {
	s := g.slots[anchor]
	if s.State != SlotPrimary {
		return
	}
	for _, c := range OccupiedCells(anchor, s.Box.Footprint, g.columns) {
		if g.InRange(c) {
			g.slots[c] = emptySlot(c)
		}
	}
}

// Without returns a copy of the grid with the box at anchor removed.
func (g *Grid) Without(anchor int) *Grid {
	c := g.Clone()
	if c.InRange(anchor) {
		c.clear(anchor)
	}
	return c
}
