/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the component model of the layout builder: the boxes that live in
// the palette and on the grid. Boxes are values; a box never changes after the catalog
// is loaded.

import (
	"fmt"
	"strconv"
	"strings"
)

// Footprint is the arrangement of grid cells a box occupies.
type Footprint int

const (
	// FootprintNormal occupies exactly one cell.
	FootprintNormal Footprint = iota
	// FootprintWide occupies two horizontally adjacent cells in the same row,
	// anchored at the leftmost one.
	FootprintWide
)

// ParseFootprint converts "normal" or "wide" (case-insensitive) to a Footprint.
func ParseFootprint(s string) (Footprint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return FootprintNormal, nil
	case "wide":
		return FootprintWide, nil
	default:
		return FootprintNormal, fmt.Errorf("unknown footprint %q", s)
	}
}

func (f Footprint) String() string {
	if f == FootprintWide {
		return "wide"
	}
	return "normal"
}

// Cells returns the number of grid cells covered.
func (f Footprint) Cells() int {
	if f == FootprintWide {
		return 2
	}
	return 1
}

// Indicator is the small glyph shown on wide tiles.
func (f Footprint) Indicator() string {
	if f == FootprintWide {
		return "↔"
	}
	return ""
}

func (f Footprint) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Footprint) UnmarshalText(b []byte) error {
	v, err := ParseFootprint(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Box is a component tile. ID is unique within a catalog.
type Box struct {
	ID        string    `json:"id" yaml:"id"`
	Category  string    `json:"category" yaml:"category"`
	Label     string    `json:"label" yaml:"label"`
	Footprint Footprint `json:"footprint" yaml:"footprint"`
	Fill      Color     `json:"fill" yaml:"fill"`
	Border    Color     `json:"border" yaml:"border"`
}

// Color is an 8-bit RGBA color; it serializes as #rrggbb (or #rrggbbaa when not opaque).
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

// IsZero reports whether the color was never set.
func (c Color) IsZero() bool { return c == Color{} }

// Hex formats the color as #rrggbb, appending alpha only when it is not 0xff.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor accepts #rgb, #rrggbb and #rrggbbaa.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(h) == 6 {
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Swatch pairs the fill and border color of a category.
type Swatch struct {
	Fill   Color
	Border Color
}

var palette = map[string]Swatch{
	"layout": {Fill: RGB(0xdb, 0xea, 0xfe), Border: RGB(0x93, 0xc5, 0xfd)},
	"ui":     {Fill: RGB(0xdc, 0xfc, 0xe7), Border: RGB(0x86, 0xef, 0xac)},
	"data":   {Fill: RGB(0xf3, 0xe8, 0xff), Border: RGB(0xd8, 0xb4, 0xfe)},
	"forms":  {Fill: RGB(0xff, 0xed, 0xd5), Border: RGB(0xfd, 0xba, 0x74)},
}

// Palette returns the default swatch for a category; unknown categories get grey.
func Palette(category string) Swatch {
	if s, ok := palette[strings.ToLower(strings.TrimSpace(category))]; ok {
		return s
	}
	return Swatch{Fill: RGB(0xf3, 0xf4, 0xf6), Border: RGB(0xd1, 0xd5, 0xdb)}
}

// WithPalette fills unset colors from the category palette.
func (b Box) WithPalette() Box {
	sw := Palette(b.Category)
	if b.Fill.IsZero() {
		b.Fill = sw.Fill
	}
	if b.Border.IsZero() {
		b.Border = sw.Border
	}
	return b
}

func newBox(id, category, label string, fp Footprint) Box {
	return Box{ID: id, Category: category, Label: label, Footprint: fp}.WithPalette()
}

// DefaultCatalog returns the built-in sample palette of components.
func DefaultCatalog() []Box {
	return []Box{
		newBox("header-1", "Layout", "Header", FootprintNormal),
		newBox("nav-1", "Layout", "Navigation", FootprintNormal),
		newBox("hero-1", "Layout", "Hero Section", FootprintWide),
		newBox("footer-1", "Layout", "Footer", FootprintNormal),
		newBox("button-1", "UI", "Button", FootprintNormal),
		newBox("input-1", "UI", "Text Input", FootprintNormal),
		newBox("card-1", "UI", "Card", FootprintNormal),
		newBox("modal-1", "UI", "Modal", FootprintNormal),
		newBox("chart-1", "Data", "Chart", FootprintWide),
		newBox("table-1", "Data", "Data Table", FootprintNormal),
		newBox("form-1", "Forms", "Contact Form", FootprintNormal),
		newBox("search-1", "Forms", "Search Bar", FootprintNormal),
	}
}
