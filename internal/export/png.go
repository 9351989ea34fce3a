/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/layout"
)

// RenderPNG rasterizes the grid. Labels use the 7x13 bitmap face, so output is
// identical on every platform, unless Options.FontFile names a TrueType or
// OpenType font.
func RenderPNG(doc layout.Document, opt Options) ([]byte, error) {
	o := opt.normalized()
	face, err := labelFace(o.FontFile)
	if err != nil {
		return nil, err
	}
	w, h := canvas(doc, o)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toRGBA(o.Background)}, image.Point{}, draw.Src)

	if o.Guides {
		gc := toRGBA(o.GuideColor)
		for _, r := range empties(doc, o) {
			dashedRect(img, r, gc)
		}
	}
	for _, t := range tiles(doc, o) {
		r := t.Rect
		fillRect(img, r.X, r.Y, r.X+r.W-1, r.Y+r.H-1, toRGBA(t.Box.Fill))
		for i := 0; i < 2; i++ {
			strokeRect(img, r.X+i, r.Y+i, r.X+r.W-1-i, r.Y+r.H-1-i, toRGBA(t.Box.Border))
		}
		label := fitText(face, t.Box.Label, r.W-12)
		cy := r.Y + r.H/2
		drawText(img, face, label, r.X+r.W/2, cy, color.RGBA{0x1f, 0x29, 0x37, 0xff})
		caption := t.Box.Category
		if t.Box.Footprint == domain.FootprintWide {
			// the bitmap face has no arrows
			caption += " <->"
		}
		drawText(img, face, fitText(face, caption, r.W-12), r.X+r.W/2, cy+16, color.RGBA{0x6b, 0x72, 0x80, 0xff})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// labelFace loads path as a 12pt face, or returns the bitmap face for an empty path.
func labelFace(path string) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 12, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face %s: %w", path, err)
	}
	return face, nil
}

// drawText centers s horizontally on cx with its baseline at y.
func drawText(img *image.RGBA, face font.Face, s string, cx, y int, col color.RGBA) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	adv := d.MeasureString(s)
	d.Dot = fixed.Point26_6{X: fixed.I(cx) - adv/2, Y: fixed.I(y)}
	d.DrawString(s)
}

// fitText shortens s with an ellipsis until it is at most maxW pixels wide.
func fitText(face font.Face, s string, maxW int) string {
	limit := fixed.I(maxW)
	if font.MeasureString(face, s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		cand := string(r) + "..."
		if font.MeasureString(face, cand) <= limit {
			return cand
		}
	}
	return ""
}

func toRGBA(c domain.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

// dashedRect strokes r with 6px dashes and 4px gaps.
func dashedRect(img *image.RGBA, r rect, col color.RGBA) {
	on := func(i int) bool { return i%10 < 6 }
	x1, y1 := r.X+r.W-1, r.Y+r.H-1
	for x := r.X; x <= x1; x++ {
		if on(x - r.X) {
			img.SetRGBA(x, r.Y, col)
			img.SetRGBA(x, y1, col)
		}
	}
	for y := r.Y; y <= y1; y++ {
		if on(y - r.Y) {
			img.SetRGBA(r.X, y, col)
			img.SetRGBA(x1, y, col)
		}
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	draw.Draw(img, image.Rect(x0, y0, x1+1, y1+1), &image.Uniform{C: col}, image.Point{}, draw.Src)
}
