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

// Rejection reasons. An invalid placement is an expected input, so callers usually
// treat these as a silent no-op; they exist for debug logging and telemetry.
var (
	ErrDuplicateBox = errors.New("duplicate box id in catalog")
	ErrNotInPool    = errors.New("box is not in the pool")
	ErrNotPlaced    = errors.New("box is not on the grid")
	ErrNotPrimary   = errors.New("slot does not hold a box")
	ErrSameSlot     = errors.New("source and target slot are the same")
	ErrCannotPlace  = errors.New("box does not fit at target slot")
)

// Board owns the grid and the pool for one editing session.
// It is not safe for concurrent use.
type Board struct {
	catalog []domain.Box
	grid    *Grid
	pool    *Pool
}

// NewBoard creates a board with every catalog box in the pool and an empty grid.
func NewBoard(catalog []domain.Box, size, columns int) (*Board, error) {
	seen := make(map[string]struct{}, len(catalog))
	for _, b := range catalog {
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBox, b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	g, err := NewGrid(size, columns)
	if err != nil {
		return nil, err
	}
	return &Board{catalog: append([]domain.Box(nil), catalog...), grid: g, pool: NewPool(catalog)}, nil
}

// Grid returns a copy of the live grid.
func (b *Board) Grid() *Grid { return b.grid.Clone() }

// Pool returns a copy of the live pool.
func (b *Board) Pool() *Pool { return b.pool.Clone() }

// Catalog returns the boxes the board was created with.
func (b *Board) Catalog() []domain.Box { return append([]domain.Box(nil), b.catalog...) }

// Columns is a shorthand for the grid column count.
func (b *Board) Columns() int { return b.grid.columns }

// Restore replaces the live state with copies of grid and pool.
func (b *Board) Restore(grid *Grid, pool *Pool) {
	b.grid = grid.Clone()
	b.pool = pool.Clone()
}

// Vacate empties the cells of the box anchored at slot in the live grid without
// returning it to the pool. Drag sessions use it for the speculative clear and must
// Restore afterwards.
func (b *Board) Vacate(slot int) {
	if b.grid.InRange(slot) {
		b.grid.clear(slot)
	}
}

// PlaceFromPool moves a pool box onto the grid anchored at target.
func (b *Board) PlaceFromPool(boxID string, target int) error {
	box, ok := b.pool.Find(boxID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInPool, boxID)
	}
	if !CanPlace(b.grid, target, box.Footprint) {
		return fmt.Errorf("%w: %s at %s", ErrCannotPlace, boxID, SlotID(target))
	}
	b.pool.Take(boxID)
	b.grid.put(target, box)
	return nil
}

// MoveWithinGrid relocates the box anchored at from so that it is anchored at to.
// The target is validated against the grid with the box's own cells already cleared,
// so a box may shift onto cells it currently covers.
func (b *Board) MoveWithinGrid(from, to int) error {
	src, ok := b.grid.Slot(from)
	if !ok || src.State != SlotPrimary {
		return fmt.Errorf("%w: %s", ErrNotPrimary, SlotID(from))
	}
	if from == to {
		return ErrSameSlot
	}
	hypo := b.grid.Without(from)
	if !CanPlace(hypo, to, src.Box.Footprint) {
		return fmt.Errorf("%w: %s at %s", ErrCannotPlace, src.Box.ID, SlotID(to))
	}
	hypo.put(to, src.Box)
	b.grid = hypo
	return nil
}

// RemoveFromGrid empties the cells of a placed box and appends it to the pool.
func (b *Board) RemoveFromGrid(boxID string) error {
	anchor, ok := b.grid.PrimaryOf(boxID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotPlaced, boxID)
	}
	box := b.grid.slots[anchor].Box
	b.grid.clear(anchor)
	b.pool.Append(box)
	return nil
}

// Verify checks that every catalog box is in exactly one place and that every
// secondary cell sits directly right of a wide primary in the same row.
func (b *Board) Verify() error {
	where := make(map[string]string, len(b.catalog))
	for _, box := range b.pool.boxes {
		if prev, dup := where[box.ID]; dup {
			return fmt.Errorf("box %s in pool and %s", box.ID, prev)
		}
		where[box.ID] = "pool"
	}
	cols := b.grid.columns
	for _, s := range b.grid.slots {
		switch s.State {
		case SlotPrimary:
			if prev, dup := where[s.Box.ID]; dup {
				return fmt.Errorf("box %s at %s and %s", s.Box.ID, SlotID(s.Index), prev)
			}
			where[s.Box.ID] = SlotID(s.Index)
			if s.Box.Footprint == domain.FootprintWide {
				_, col := IndexToPosition(s.Index, cols)
				right, ok := b.grid.Slot(s.Index + 1)
				if col >= cols-1 || !ok || right.State != SlotSecondary || right.Anchor != s.Index {
					return fmt.Errorf("wide box %s at %s has no secondary cell", s.Box.ID, SlotID(s.Index))
				}
			}
		case SlotSecondary:
			p, ok := b.grid.Slot(s.Anchor)
			if !ok || s.Anchor != s.Index-1 || p.State != SlotPrimary || p.Box.Footprint != domain.FootprintWide {
				return fmt.Errorf("secondary %s has no wide primary on its left", SlotID(s.Index))
			}
		}
	}
	for _, box := range b.catalog {
		if _, ok := where[box.ID]; !ok {
			return fmt.Errorf("box %s lost", box.ID)
		}
	}
	if len(where) != len(b.catalog) {
		return fmt.Errorf("board holds %d boxes, catalog has %d", len(where), len(b.catalog))
	}
	return nil
}
