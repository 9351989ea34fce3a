/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
	colorInk   = lipgloss.Color("#1f2937")
)

const cellWidth = 16

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleCategory = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	styleStatusOK = lipgloss.NewStyle().Foreground(colorGreen)
	styleStatusNo = lipgloss.NewStyle().Foreground(colorRed)

	styleEmptyCell = lipgloss.NewStyle().
			Width(cellWidth).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Foreground(colorDim).
			Align(lipgloss.Center)

	styleSidebar = lipgloss.NewStyle().
			Width(34).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// tileStyle colors a tile from its box palette. span is 1 or 2 cells.
func tileStyle(fill, border string, span int) lipgloss.Style {
	// two cells plus the border columns between them
	w := span*cellWidth + (span-1)*2
	return lipgloss.NewStyle().
		Width(w).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Background(lipgloss.Color(fill)).
		Foreground(colorInk).
		Bold(true).
		Align(lipgloss.Center)
}

func cursorStyle(s lipgloss.Style) lipgloss.Style {
	return s.BorderForeground(colorCyan).BorderStyle(lipgloss.ThickBorder())
}
