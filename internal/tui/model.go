/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package tui is a keyboard-driven terminal front end for the drag controller.
// A gesture is started with space/enter on a pool item or a placed box and
// finished with space/enter on a grid slot; esc cancels it.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"layoutbuilder/internal/dnd"
	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/layout"
)

// Pane is the part of the screen that has keyboard focus.
type Pane int

const (
	PanePool Pane = iota
	PaneGrid
)

// poolTarget is the drop target id used when a drag ends over the sidebar.
const poolTarget = "pool"

// Model is the bubbletea model.
type Model struct {
	ctrl   *dnd.Controller
	focus  Pane
	pool   int // index into the flattened pool
	slot   int
	status string
	failed bool
}

// New creates a model with the pool focused.
func New(ctrl *dnd.Controller) Model {
	return Model{ctrl: ctrl, focus: PanePool, status: "space: pick up  tab: switch pane  x: remove  q: quit"}
}

// Run starts the program on the terminal.
func Run(ctrl *dnd.Controller) error {
	_, err := tea.NewProgram(New(ctrl), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

// Focus reports the focused pane.
func (m Model) Focus() Pane { return m.focus }

// Cursor returns the pool and slot cursor positions.
func (m Model) Cursor() (pool, slot int) { return m.pool, m.slot }

// Status is the last status line message.
func (m Model) Status() string { return m.status }

func (m Model) poolBoxes() []domain.Box {
	var out []domain.Box
	for _, g := range m.ctrl.Document().Pool {
		out = append(out, g.Boxes...)
	}
	return out
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	doc := m.ctrl.Document()
	switch key.String() {
	case "q", "ctrl+c":
		m.ctrl.Cancel()
		return m, tea.Quit
	case "tab":
		if m.focus == PanePool {
			m.focus = PaneGrid
		} else {
			m.focus = PanePool
		}
	case "up", "k":
		if m.focus == PanePool {
			if m.pool > 0 {
				m.pool--
			}
		} else if m.slot-doc.Columns >= 0 {
			m.slot -= doc.Columns
		}
	case "down", "j":
		if m.focus == PanePool {
			if m.pool < len(m.poolBoxes())-1 {
				m.pool++
			}
		} else if m.slot+doc.Columns < len(doc.Slots) {
			m.slot += doc.Columns
		}
	case "left", "h":
		if m.focus == PaneGrid && m.slot%doc.Columns > 0 {
			m.slot--
		}
	case "right", "l":
		if m.focus == PaneGrid && m.slot%doc.Columns < doc.Columns-1 && m.slot+1 < len(doc.Slots) {
			m.slot++
		}
	case " ", "space", "enter":
		m = m.activate(doc)
	case "esc":
		if res := m.ctrl.Cancel(); res.Outcome != dnd.OutcomeIdle {
			m.setStatus(false, "drag cancelled")
		}
	case "x", "delete":
		m = m.remove(doc)
	}
	m.clampPool()
	return m, nil
}

// activate starts a gesture on the item under the cursor, or drops the dragged box.
func (m Model) activate(doc layout.Document) Model {
	if box, dragging := m.ctrl.Dragging(); dragging {
		target := poolTarget
		if m.focus == PaneGrid {
			target = layout.SlotID(m.slot)
		}
		res := m.ctrl.GestureEnd(box.ID, target)
		switch res.Outcome {
		case dnd.OutcomePlaced, dnd.OutcomeMoved:
			m.setStatus(true, fmt.Sprintf("%s placed at %s", box.Label, target))
		case dnd.OutcomeRejected:
			m.setStatus(false, fmt.Sprintf("%s does not fit at %s", box.Label, target))
		default:
			m.setStatus(false, fmt.Sprintf("%s returned", box.Label))
		}
		return m
	}
	id := m.itemUnderCursor(doc)
	if id == "" {
		return m
	}
	if m.ctrl.GestureStart(id) {
		box, _ := m.ctrl.Dragging()
		m.setStatus(true, fmt.Sprintf("dragging %s: move to a slot and press space", box.Label))
		if m.focus == PanePool {
			m.focus = PaneGrid
		}
	}
	return m
}

func (m Model) remove(doc layout.Document) Model {
	if m.focus != PaneGrid {
		return m
	}
	id := m.itemUnderCursor(doc)
	if id == "" {
		return m
	}
	if m.ctrl.Remove(id) {
		m.setStatus(true, fmt.Sprintf("%s returned to the pool", id))
	}
	return m
}

// itemUnderCursor resolves the box id at the focused cursor; a secondary cell
// resolves to its wide box.
func (m Model) itemUnderCursor(doc layout.Document) string {
	if m.focus == PanePool {
		boxes := m.poolBoxes()
		if m.pool < len(boxes) {
			return boxes[m.pool].ID
		}
		return ""
	}
	if m.slot >= len(doc.Slots) {
		return ""
	}
	s := doc.Slots[m.slot]
	if s.Anchor != nil {
		s = doc.Slots[*s.Anchor]
	}
	if s.Box == nil {
		return ""
	}
	return s.Box.ID
}

func (m *Model) clampPool() {
	if n := len(m.poolBoxes()); m.pool >= n {
		m.pool = n - 1
	}
	if m.pool < 0 {
		m.pool = 0
	}
}

func (m *Model) setStatus(ok bool, s string) {
	m.status, m.failed = s, !ok
}

func (m Model) View() string {
	doc := m.ctrl.Document()
	var b strings.Builder
	b.WriteString(styleTitle.Render("Layout Builder"))
	if d := doc.Dragging; d != nil {
		b.WriteString("  ")
		b.WriteString(tileStyle(d.Box.Fill.Hex(), d.Box.Border.Hex(), 1).Render(d.Box.Label + " " + d.Box.Footprint.Indicator()))
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.viewGrid(doc), "  ", m.viewPool(doc)))
	b.WriteString("\n")
	st := styleStatusOK
	if m.failed {
		st = styleStatusNo
	}
	b.WriteString(st.Render(m.status))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewGrid(doc layout.Document) string {
	rows := make([]string, 0, doc.Rows)
	for r := 0; r < doc.Rows; r++ {
		var cells []string
		for c := 0; c < doc.Columns; c++ {
			i := layout.PositionToIndex(r, c, doc.Columns)
			if i >= len(doc.Slots) {
				break
			}
			s := doc.Slots[i]
			if s.State == layout.SlotSecondary.String() {
				continue
			}
			cells = append(cells, m.viewSlot(s))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) viewSlot(s layout.SlotView) string {
	var st lipgloss.Style
	text := s.ID
	if s.Box != nil {
		st = tileStyle(s.Box.Fill.Hex(), s.Box.Border.Hex(), s.Box.Footprint.Cells())
		text = s.Box.Label
		if ind := s.Box.Footprint.Indicator(); ind != "" {
			text += " " + ind
		}
	} else {
		st = styleEmptyCell
	}
	covers := m.slot == s.Index || (s.Box != nil && s.Box.Footprint == domain.FootprintWide && m.slot == s.Index+1)
	if m.focus == PaneGrid && covers {
		st = cursorStyle(st)
	}
	return st.Render(text)
}

func (m Model) viewPool(doc layout.Document) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Components"))
	b.WriteString("\n")
	if len(doc.Pool) == 0 {
		b.WriteString(styleDim.Render("All components have been used"))
		return styleSidebar.Render(b.String())
	}
	n := 0
	for _, g := range doc.Pool {
		b.WriteString("\n")
		b.WriteString(styleCategory.Render(g.Category))
		b.WriteString("\n")
		for _, box := range g.Boxes {
			cursor := "  "
			if m.focus == PanePool && n == m.pool {
				cursor = "▸ "
			}
			line := cursor + box.Label
			if ind := box.Footprint.Indicator(); ind != "" {
				line += " " + ind
			}
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(box.Border.Hex())).Render("■ ")
			b.WriteString(swatch + line + "\n")
			n++
		}
	}
	return styleSidebar.Render(strings.TrimRight(b.String(), "\n"))
}
