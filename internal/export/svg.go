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
	"strings"

	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/layout"
)

// RenderSVG draws the grid as an SVG document: one rounded rectangle per placed box
// with its label, and dashed outlines for empty slots when guides are on.
func RenderSVG(doc layout.Document, opt Options) ([]byte, error) {
	o := opt.normalized()
	w, h := canvas(doc, o)

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n", w, h, w, h)
	wf("  <rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", w, h, svgColor(o.Background))

	if o.Guides {
		gc := svgColor(o.GuideColor)
		for _, r := range empties(doc, o) {
			wf("  <rect class=\"slot-empty\" x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" rx=\"8\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-dasharray=\"6 4\"/>\n",
				r.X, r.Y, r.W, r.H, gc)
		}
	}

	fontSize := o.CellHeight / 6
	if fontSize < 8 {
		fontSize = 8
	}
	for _, t := range tiles(doc, o) {
		r := t.Rect
		wf("  <g id=\"%s\" data-box=\"%s\">\n", escAttr(t.Slot.ID), escAttr(t.Box.ID))
		wf("    <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" rx=\"8\" fill=\"%s\" stroke=\"%s\" stroke-width=\"2\"/>\n",
			r.X, r.Y, r.W, r.H, svgColor(t.Box.Fill), svgColor(t.Box.Border))
		cx := r.X + r.W/2
		wf("    <text x=\"%d\" y=\"%d\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%d\" font-weight=\"600\" text-anchor=\"middle\" fill=\"#1f2937\">%s</text>\n",
			cx, r.Y+r.H/2, fontSize, escText(t.Box.Label))
		caption := t.Box.Category
		if ind := t.Box.Footprint.Indicator(); ind != "" {
			caption += " " + ind
		}
		wf("    <text x=\"%d\" y=\"%d\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%d\" text-anchor=\"middle\" fill=\"#6b7280\">%s</text>\n",
			cx, r.Y+r.H/2+fontSize+4, fontSize*3/4, escText(caption))
		wf("  </g>\n")
	}
	wf("</svg>\n")
	if werr != nil {
		return nil, fmt.Errorf("write svg: %w", werr)
	}
	return buf.Bytes(), nil
}

func svgColor(c domain.Color) string {
	if c.A == 255 || c.IsZero() {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", c.R, c.G, c.B, float64(c.A)/255.0)
}

var (
	attrEscaper = strings.NewReplacer("&", "&amp;", "\"", "&quot;", "<", "&lt;", ">", "&gt;")
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

func escAttr(s string) string { return attrEscaper.Replace(s) }

func escText(s string) string { return textEscaper.Replace(s) }
