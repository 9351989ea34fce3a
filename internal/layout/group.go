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

// Group is one category section of the pool display.
type Group struct {
	Category string       `json:"category"`
	Boxes    []domain.Box `json:"boxes"`
}

// GroupByCategory partitions boxes by category. Categories appear in the order of their
// first box and boxes keep their relative order inside a group.
func GroupByCategory(boxes []domain.Box) []Group {
	idx := make(map[string]int)
	var out []Group
	for _, b := range boxes {
		i, ok := idx[b.Category]
		if !ok {
			i = len(out)
			idx[b.Category] = i
			out = append(out, Group{Category: b.Category})
		}
		out[i].Boxes = append(out[i].Boxes, b)
	}
	return out
}
