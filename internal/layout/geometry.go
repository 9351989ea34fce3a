/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package layout holds the grid-placement core of the builder: slot geometry, the
// placement validator, grid and pool state, and the board transitions that move boxes
// between them. Everything here is synchronous and owned by a single caller.
package layout

import (
	"strconv"
	"strings"
)

// SlotIDPrefix prefixes every drop-target identifier that refers to a grid slot.
const SlotIDPrefix = "slot-"

// IndexToPosition converts a linear slot index to its row and column.
func IndexToPosition(index, columns int) (row, col int) {
	return index / columns, index % columns
}

// PositionToIndex converts a row and column to a linear slot index.
func PositionToIndex(row, col, columns int) int {
	return row*columns + col
}

// SlotID returns the drop-target identifier of a slot index.
func SlotID(index int) string { return SlotIDPrefix + strconv.Itoa(index) }

// ParseSlotID extracts the slot index from a drop-target identifier.
// It reports false for identifiers that do not name a slot.
func ParseSlotID(id string) (int, bool) {
	if !strings.HasPrefix(id, SlotIDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(SlotIDPrefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
