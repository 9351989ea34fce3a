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

	"github.com/jung-kurt/gofpdf"

	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/layout"
	"layoutbuilder/internal/version"
)

// RenderPDF writes a single page sized to the grid. Units are points; text uses the
// built-in Helvetica so nothing is embedded.
func RenderPDF(doc layout.Document, opt Options) ([]byte, error) {
	o := opt.normalized()
	w, h := canvas(doc, o)
	pw, ph := float64(w), float64(h)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	pdf.SetTitle("Layout", false)
	pdf.SetCreator("layoutbuilder "+version.String(), false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: pw, Ht: ph})
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	setFillColor(pdf, o.Background)
	pdf.Rect(0, 0, pw, ph, "F")

	if o.Guides {
		setDrawColor(pdf, o.GuideColor)
		pdf.SetLineWidth(1)
		pdf.SetDashPattern([]float64{6, 4}, 0)
		for _, r := range empties(doc, o) {
			pdf.Rect(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), "D")
		}
		pdf.SetDashPattern([]float64{}, 0)
	}

	fontSize := float64(o.CellHeight) / 6
	if fontSize < 8 {
		fontSize = 8
	}
	pdf.SetLineWidth(1.5)
	for _, t := range tiles(doc, o) {
		r := t.Rect
		x, y, rw, rh := float64(r.X), float64(r.Y), float64(r.W), float64(r.H)
		setFillColor(pdf, t.Box.Fill)
		setDrawColor(pdf, t.Box.Border)
		pdf.Rect(x, y, rw, rh, "FD")

		pdf.SetTextColor(0x1f, 0x29, 0x37)
		pdf.SetFont("Helvetica", "B", fontSize)
		centerText(pdf, tr(t.Box.Label), x+rw/2, y+rh/2)

		caption := t.Box.Category
		if t.Box.Footprint == domain.FootprintWide {
			caption += " <->"
		}
		pdf.SetTextColor(0x6b, 0x72, 0x80)
		pdf.SetFont("Helvetica", "", fontSize*0.75)
		centerText(pdf, tr(caption), x+rw/2, y+rh/2+fontSize+4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func centerText(pdf *gofpdf.Fpdf, s string, cx, baseline float64) {
	pdf.Text(cx-pdf.GetStringWidth(s)/2, baseline, s)
}

func setDrawColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
