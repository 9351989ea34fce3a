/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders a layout document to JSON, SVG, PNG, PDF or a zip bundle of
// several formats. Renderers are pure; Exporter writes their output atomically into a
// directory and records each file in that directory's export journal.
package export

import (
	"errors"
	"fmt"
	"strings"

	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/layout"
)

// Format names an output format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatSVG    Format = "svg"
	FormatPNG    Format = "png"
	FormatPDF    Format = "pdf"
	FormatBundle Format = "bundle"
)

// Formats lists every single-file format in a stable order.
var Formats = []Format{FormatJSON, FormatSVG, FormatPNG, FormatPDF, FormatBundle}

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == FormatBundle {
		return ".zip"
	}
	return "." + string(f)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatBundle:
		return "application/zip"
	}
	return "application/octet-stream"
}

// Options controls the drawing geometry shared by the image renderers. Sizes are
// pixels for PNG and SVG and points for PDF.
type Options struct {
	CellWidth  int
	CellHeight int
	Gap        int
	// Guides draws dashed outlines for empty slots.
	Guides     bool
	Background domain.Color
	GuideColor domain.Color
	// FontFile is a TrueType/OpenType font for PNG labels; empty uses a bitmap face.
	FontFile string
}

// DefaultOptions matches the 160x96 tiles of the desktop view.
func DefaultOptions() Options {
	return Options{
		CellWidth:  160,
		CellHeight: 96,
		Gap:        16,
		Guides:     true,
		Background: domain.RGB(0xf9, 0xfa, 0xfb),
		GuideColor: domain.RGB(0xd1, 0xd5, 0xdb),
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.CellWidth <= 0 {
		o.CellWidth = d.CellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = d.CellHeight
	}
	if o.Gap < 0 {
		o.Gap = 0
	}
	if o.Background.IsZero() {
		o.Background = d.Background
	}
	if o.GuideColor.IsZero() {
		o.GuideColor = d.GuideColor
	}
	return o
}

// rect is an axis-aligned box in output units with the origin top-left.
type rect struct{ X, Y, W, H int }

// canvas returns the full drawing size for doc.
func canvas(doc layout.Document, o Options) (w, h int) {
	w = doc.Columns*o.CellWidth + (doc.Columns+1)*o.Gap
	h = doc.Rows*o.CellHeight + (doc.Rows+1)*o.Gap
	return w, h
}

// cellRect returns the area covered by a tile anchored at (row, col) spanning span cells.
func cellRect(row, col, span int, o Options) rect {
	return rect{
		X: o.Gap + col*(o.CellWidth+o.Gap),
		Y: o.Gap + row*(o.CellHeight+o.Gap),
		W: span*o.CellWidth + (span-1)*o.Gap,
		H: o.CellHeight,
	}
}

// tile is a placed box with its drawing rectangle.
type tile struct {
	Slot layout.SlotView
	Box  domain.Box
	Rect rect
}

// tiles returns placed boxes in slot order.
func tiles(doc layout.Document, o Options) []tile {
	var out []tile
	for _, s := range doc.Placed() {
		out = append(out, tile{Slot: s, Box: *s.Box, Rect: cellRect(s.Row, s.Col, s.Box.Footprint.Cells(), o)})
	}
	return out
}

// empties returns the rectangles of empty slots.
func empties(doc layout.Document, o Options) []rect {
	var out []rect
	for _, s := range doc.Slots {
		if s.State == layout.SlotEmpty.String() {
			out = append(out, cellRect(s.Row, s.Col, 1, o))
		}
	}
	return out
}

// Render produces f for doc in memory.
func Render(doc layout.Document, f Format, opt Options) ([]byte, error) {
	switch f {
	case FormatJSON:
		return RenderJSON(doc)
	case FormatSVG:
		return RenderSVG(doc, opt)
	case FormatPNG:
		return RenderPNG(doc, opt)
	case FormatPDF:
		return RenderPDF(doc, opt)
	case FormatBundle:
		return RenderBundle(doc, opt)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
