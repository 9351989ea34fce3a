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

// SlotView is the serializable form of a slot.
type SlotView struct {
	ID     string      `json:"id"`
	Index  int         `json:"index"`
	Row    int         `json:"row"`
	Col    int         `json:"col"`
	State  string      `json:"state"`
	Box    *domain.Box `json:"box,omitempty"`
	Anchor *int        `json:"anchor,omitempty"`
}

// DragView describes the box being dragged, if any.
type DragView struct {
	Box    domain.Box `json:"box"`
	Origin string     `json:"origin"` // "pool" or a slot id
}

// Document is a read-only snapshot of a board used by transports, views and exporters.
type Document struct {
	Columns  int        `json:"columns"`
	Rows     int        `json:"rows"`
	Slots    []SlotView `json:"slots"`
	Pool     []Group    `json:"pool"`
	Dragging *DragView  `json:"dragging,omitempty"`
}

// Document captures the current grid and the grouped pool.
func (b *Board) Document() Document {
	return newDocument(b.grid, b.pool)
}

// DocumentOf builds the document of a grid and pool snapshot.
func DocumentOf(g *Grid, p *Pool) Document { return newDocument(g, p) }

func newDocument(g *Grid, p *Pool) Document {
	doc := Document{
		Columns: g.columns,
		Rows:    g.Rows(),
		Slots:   make([]SlotView, 0, len(g.slots)),
		Pool:    GroupByCategory(p.boxes),
	}
	if doc.Pool == nil {
		doc.Pool = []Group{}
	}
	for _, s := range g.slots {
		row, col := IndexToPosition(s.Index, g.columns)
		v := SlotView{ID: SlotID(s.Index), Index: s.Index, Row: row, Col: col, State: s.State.String()}
		switch s.State {
		case SlotPrimary:
			box := s.Box
			v.Box = &box
		case SlotSecondary:
			a := s.Anchor
			v.Anchor = &a
		}
		doc.Slots = append(doc.Slots, v)
	}
	return doc
}

// PoolSize counts the boxes in every pool group.
func (d Document) PoolSize() int {
	n := 0
	for _, g := range d.Pool {
		n += len(g.Boxes)
	}
	return n
}

// Placed returns the primary slot views in slot order.
func (d Document) Placed() []SlotView {
	var out []SlotView
	for _, s := range d.Slots {
		if s.Box != nil {
			out = append(out, s)
		}
	}
	return out
}
