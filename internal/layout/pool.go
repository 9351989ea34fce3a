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

// Pool is the ordered set of boxes not placed on the grid.
type Pool struct {
	boxes []domain.Box
}

// NewPool creates a pool holding boxes in the given order.
func NewPool(boxes []domain.Box) *Pool {
	return &Pool{boxes: append([]domain.Box(nil), boxes...)}
}

func (p *Pool) Len() int { return len(p.boxes) }

// Boxes returns a copy of the pool contents in order.
func (p *Pool) Boxes() []domain.Box { return append([]domain.Box(nil), p.boxes...) }

// Find returns the box with id if it is in the pool.
func (p *Pool) Find(id string) (domain.Box, bool) {
	for _, b := range p.boxes {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Box{}, false
}

func (p *Pool) Contains(id string) bool {
	_, ok := p.Find(id)
	return ok
}

// Take removes and returns the box with id, keeping the order of the rest.
func (p *Pool) Take(id string) (domain.Box, bool) {
	for i, b := range p.boxes {
		if b.ID == id {
			p.boxes = append(p.boxes[:i:i], p.boxes[i+1:]...)
			return b, true
		}
	}
	return domain.Box{}, false
}

// Append returns a box to the end of the pool.
func (p *Pool) Append(b domain.Box) { p.boxes = append(p.boxes, b) }

func (p *Pool) Clone() *Pool { return NewPool(p.boxes) }

// Equal compares contents and order.
func (p *Pool) Equal(o *Pool) bool {
	if len(p.boxes) != len(o.boxes) {
		return false
	}
	for i := range p.boxes {
		if p.boxes[i] != o.boxes[i] {
			return false
		}
	}
	return true
}
