/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package dnd turns drag-gesture signals into board transitions.
//
// A gesture starts with GestureStart(itemID) and ends with GestureEnd(activeID, targetID),
// where targetID is the drop target under the pointer or empty for a cancel. The
// controller snapshots the board when a gesture begins and restores that snapshot on
// every path that does not commit, so an invalid drop is indistinguishable from
// releasing the box where it started.
package dnd

import (
	"errors"
	"log/slog"

	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/layout"
	applog "layoutbuilder/internal/log"
)

// OriginKind says where a dragged box came from.
type OriginKind int

const (
	FromPool OriginKind = iota
	FromGrid
)

// Origin is the source of a drag session. Slot is only set for FromGrid.
type Origin struct {
	Kind OriginKind
	Slot int
}

func (o Origin) String() string {
	if o.Kind == FromGrid {
		return layout.SlotID(o.Slot)
	}
	return "pool"
}

// session exists only between gesture start and end.
type session struct {
	box    domain.Box
	origin Origin
	grid   *layout.Grid
	pool   *layout.Pool
}

// Outcome classifies how a gesture ended.
type Outcome int

const (
	// OutcomeIdle means there was no gesture to end.
	OutcomeIdle Outcome = iota
	// OutcomeRolledBack means no slot was targeted; the pre-drag state was restored.
	OutcomeRolledBack
	// OutcomeUnchanged means the box was dropped onto its own slot.
	OutcomeUnchanged
	// OutcomeRejected means the target slot could not take the box.
	OutcomeRejected
	OutcomePlaced
	OutcomeMoved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRolledBack:
		return "rolled_back"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeRejected:
		return "rejected"
	case OutcomePlaced:
		return "placed"
	case OutcomeMoved:
		return "moved"
	default:
		return "idle"
	}
}

// Committed reports whether the board changed.
func (o Outcome) Committed() bool { return o == OutcomePlaced || o == OutcomeMoved }

// Result describes a finished gesture. From and To are slot indexes, -1 when not applicable.
type Result struct {
	Outcome Outcome
	BoxID   string
	From    int
	To      int
	Reason  error
}

// Controller owns the board and the drag session. It is not safe for concurrent
// use; transports serialize calls.
type Controller struct {
	board     *layout.Board
	active    *session
	listeners []func(Event)
	log       *slog.Logger
}

// NewController wraps a board.
func NewController(board *layout.Board) *Controller {
	return &Controller{board: board, log: applog.WithComponent("dnd")}
}

// Board exposes the underlying board for read-only callers such as exporters.
func (c *Controller) Board() *layout.Board { return c.board }

// Dragging returns the box of the open session for the floating overlay.
func (c *Controller) Dragging() (domain.Box, bool) {
	if c.active == nil {
		return domain.Box{}, false
	}
	return c.active.box, true
}

// Origin returns where the dragged box came from.
func (c *Controller) Origin() (Origin, bool) {
	if c.active == nil {
		return Origin{}, false
	}
	return c.active.origin, true
}

// Document is the board document plus the drag overlay.
func (c *Controller) Document() layout.Document {
	doc := c.board.Document()
	if c.active != nil {
		doc.Dragging = &layout.DragView{Box: c.active.box, Origin: c.active.origin.String()}
	}
	return doc
}

// CommittedDocument is the layout without the open gesture: the pre-drag snapshot
// while dragging (a lifted wide box is still in its slots), the live board otherwise.
func (c *Controller) CommittedDocument() layout.Document {
	if c.active != nil {
		return layout.DocumentOf(c.active.grid, c.active.pool)
	}
	return c.board.Document()
}

// GestureStart opens a drag session for itemID. It resolves the pool first, then grid
// primaries, and reports false when the item is unknown. A wide box on the grid is
// lifted off its cells for the duration of the drag.
func (c *Controller) GestureStart(itemID string) bool {
	l := applog.WithOperation(c.log, "gesture_start").With(slog.String("item", itemID))
	if c.active != nil {
		l.Debug("stale session rolled back", slog.String("stale", c.active.box.ID))
		c.rollback()
	}
	pool := c.board.Pool()
	grid := c.board.Grid()
	s := &session{grid: grid, pool: pool}
	if b, ok := pool.Find(itemID); ok {
		s.box, s.origin = b, Origin{Kind: FromPool, Slot: -1}
	} else if at, ok := grid.PrimaryOf(itemID); ok {
		slot, _ := grid.Slot(at)
		s.box, s.origin = slot.Box, Origin{Kind: FromGrid, Slot: at}
		if slot.Box.Footprint == domain.FootprintWide {
			c.board.Vacate(at)
		}
	} else {
		l.Debug("unknown item")
		return false
	}
	c.active = s
	l.Debug("dragging", slog.String("origin", s.origin.String()))
	return true
}

// Cancel ends the open gesture without a drop target.
func (c *Controller) Cancel() Result {
	if c.active == nil {
		return Result{Outcome: OutcomeIdle, From: -1, To: -1}
	}
	return c.GestureEnd(c.active.box.ID, "")
}

// GestureEnd closes the session. targetID is the drop target under the pointer or
// empty. The pre-drag snapshot is restored first and the transition is then applied
// atomically to it, so every non-committing path leaves the board exactly as it was.
func (c *Controller) GestureEnd(activeID, targetID string) Result {
	s := c.active
	if s == nil {
		return Result{Outcome: OutcomeIdle, BoxID: activeID, From: -1, To: -1}
	}
	c.active = nil
	c.board.Restore(s.grid, s.pool)

	res := Result{BoxID: s.box.ID, From: s.origin.Slot, To: -1}
	target, isSlot := layout.ParseSlotID(targetID)
	switch {
	case activeID != s.box.ID:
		res.Outcome = OutcomeRolledBack
		res.Reason = errUnknownItem
	case targetID == "" || !isSlot || !s.grid.InRange(target):
		res.Outcome = OutcomeRolledBack
	case s.origin.Kind == FromPool:
		res.To = target
		if err := c.board.PlaceFromPool(s.box.ID, target); err != nil {
			res.Outcome, res.Reason = OutcomeRejected, err
		} else {
			res.Outcome = OutcomePlaced
		}
	case target == s.origin.Slot:
		res.To = target
		res.Outcome = OutcomeUnchanged
	default:
		res.To = target
		if err := c.board.MoveWithinGrid(s.origin.Slot, target); err != nil {
			res.Outcome, res.Reason = OutcomeRejected, err
		} else {
			res.Outcome = OutcomeMoved
		}
	}

	l := applog.WithOperation(c.log, "gesture_end").With(
		slog.String("item", res.BoxID), slog.String("target", targetID), slog.String("outcome", res.Outcome.String()))
	if res.Reason != nil {
		l.Debug("drop ignored", slog.Any("reason", res.Reason))
	} else {
		l.Debug("drop handled")
	}
	c.emit(eventFor(res))
	return res
}

// Remove takes a placed box off the grid and returns it to the pool. A box that is
// currently being dragged cannot be removed.
func (c *Controller) Remove(boxID string) bool {
	if c.active != nil && c.active.box.ID == boxID {
		return false
	}
	grid := c.board.Grid()
	from, _ := grid.PrimaryOf(boxID)
	placed, _ := grid.Slot(from)
	if err := c.board.RemoveFromGrid(boxID); err != nil {
		c.log.Debug("remove ignored", slog.String("item", boxID), slog.Any("reason", err))
		return false
	}
	if c.active != nil {
		// Keep the open session's snapshot consistent with the removal.
		c.active.grid = c.active.grid.Without(from)
		c.active.pool.Append(placed.Box)
	}
	c.emit(Event{Kind: EventRemoved, BoxID: boxID, From: from, To: -1})
	return true
}

func (c *Controller) rollback() {
	if c.active == nil {
		return
	}
	c.board.Restore(c.active.grid, c.active.pool)
	c.active = nil
}

var errUnknownItem = errors.New("gesture ended for an item that is not being dragged")
