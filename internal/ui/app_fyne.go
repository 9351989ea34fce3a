//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"layoutbuilder/internal/crash"
	"layoutbuilder/internal/dnd"
	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/export"
	"layoutbuilder/internal/layout"
	applog "layoutbuilder/internal/log"
)

// Run opens the desktop builder for ctrl. exp may be nil, which hides the export actions.
func Run(ctrl *dnd.Controller, exp *export.Exporter) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	crashDir := ""
	if exp != nil {
		crashDir = exp.Dir
	}
	defer crash.Recover(crashDir, ctrl)

	fyneApp := app.NewWithID("layoutbuilder")
	w := fyneApp.NewWindow("Layout Builder")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1100)
	winH := prefs.IntWithFallback("window.height", 760)
	w.Resize(fyne.NewSize(float32(max(winW, 800)), float32(max(winH, 600))))

	a := newBuilder(ctrl, w, exp, l)
	w.SetContent(a.content())
	a.refresh()

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

// builder wires the widgets to the controller. All callbacks run on the Fyne
// main goroutine, which serializes access to the controller.
type builder struct {
	ctrl *dnd.Controller
	win  fyne.Window
	exp  *export.Exporter
	log  *slog.Logger
	m    metrics

	board   *fyne.Container
	pool    *fyne.Container
	overlay *fyne.Container
	ghost   *fyne.Container
	status  *widget.Label

	dragID  string
	lastPos fyne.Position
	tiles   map[string]*tile
}

func newBuilder(ctrl *dnd.Controller, w fyne.Window, exp *export.Exporter, l *slog.Logger) *builder {
	b := &builder{
		ctrl:    ctrl,
		win:     w,
		exp:     exp,
		log:     l,
		m:       defaultMetrics,
		board:   container.NewWithoutLayout(),
		pool:    container.NewVBox(),
		overlay: container.NewWithoutLayout(),
		status:  widget.NewLabel("Drag a component onto the grid"),
		tiles:   map[string]*tile{},
	}
	ctrl.Subscribe(b.onEvent)
	return b
}

func (b *builder) content() fyne.CanvasObject {
	var top fyne.CanvasObject
	if b.exp != nil {
		top = widget.NewToolbar(
			widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { b.exportPreset(export.PresetWeb) }),
			widget.NewToolbarAction(theme.DocumentPrintIcon(), func() { b.exportPreset(export.PresetPrint) }),
		)
	}
	poolScroll := container.NewVScroll(b.pool)
	poolScroll.SetMinSize(fyne.NewSize(b.m.cellW+40, 0))
	main := container.NewBorder(top, b.status, poolScroll, nil, container.NewScroll(b.board))
	return container.NewStack(main, b.overlay)
}

// refresh rebuilds board and pool from the current document.
func (b *builder) refresh() {
	doc := b.ctrl.Document()
	b.tiles = map[string]*tile{}

	w, h := b.m.boardSize(doc.Columns, doc.Rows)
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(w, h))
	spacer.Resize(fyne.NewSize(w, h))

	objs := make([]fyne.CanvasObject, 0, len(doc.Slots)*2+1)
	objs = append(objs, spacer)
	for _, s := range doc.Slots {
		f := b.m.cellFrame(s.Index, 1, doc.Columns)
		bg := canvas.NewRectangle(color.NRGBA{R: 0xf9, G: 0xfa, B: 0xfb, A: 0xff})
		bg.StrokeColor = color.NRGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}
		bg.StrokeWidth = 1
		bg.CornerRadius = 6
		place(bg, f)
		objs = append(objs, bg)
	}
	for _, s := range doc.Placed() {
		t := newTile(b, *s.Box, s.ID)
		place(t, b.m.cellFrame(s.Index, s.Box.Footprint.Cells(), doc.Columns))
		b.tiles[s.Box.ID] = t
		objs = append(objs, t)
	}
	b.board.Objects = objs
	b.board.Resize(fyne.NewSize(w, h))
	b.board.Refresh()

	b.pool.Objects = b.poolObjects(doc)
	b.pool.Refresh()
}

func (b *builder) poolObjects(doc layout.Document) []fyne.CanvasObject {
	if doc.PoolSize() == 0 {
		return []fyne.CanvasObject{widget.NewLabel("All components have been used")}
	}
	var objs []fyne.CanvasObject
	for _, g := range doc.Pool {
		objs = append(objs, widget.NewLabelWithStyle(g.Category, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		for _, box := range g.Boxes {
			objs = append(objs, newTile(b, box, ""))
		}
	}
	return objs
}

// dragMove opens the gesture on the first drag event and keeps the ghost under
// the pointer afterwards.
func (b *builder) dragMove(t *tile, abs fyne.Position) {
	if b.dragID == "" {
		if !b.ctrl.GestureStart(t.box.ID) {
			return
		}
		b.dragID = t.box.ID
		if t.slot != "" {
			t.Hide()
		}
		b.ghost = ghostFor(t.box, t.Size())
		b.overlay.Objects = []fyne.CanvasObject{b.ghost}
	}
	if b.dragID != t.box.ID {
		return
	}
	b.lastPos = abs
	origin := b.absolute(b.overlay)
	sz := b.ghost.Size()
	b.ghost.Move(fyne.NewPos(abs.X-origin.X-sz.Width/2, abs.Y-origin.Y-sz.Height/2))
	b.overlay.Refresh()
}

func (b *builder) dragEnd(t *tile) {
	if b.dragID == "" || b.dragID != t.box.ID {
		return
	}
	origin := b.absolute(b.board)
	target := b.m.slotAt(b.lastPos.X-origin.X, b.lastPos.Y-origin.Y, b.ctrl.Document())
	res := b.ctrl.GestureEnd(b.dragID, target)
	b.log.Debug("drop", slog.String("item", res.BoxID), slog.String("target", target), slog.String("outcome", res.Outcome.String()))
	b.dragID = ""
	b.ghost = nil
	b.overlay.Objects = nil
	b.overlay.Refresh()
	b.refresh()
}

func (b *builder) remove(t *tile) {
	if t.slot == "" || b.dragID != "" {
		return
	}
	if b.ctrl.Remove(t.box.ID) {
		b.refresh()
	}
}

func (b *builder) onEvent(e dnd.Event) {
	switch e.Kind {
	case dnd.EventPlaced:
		b.status.SetText(fmt.Sprintf("Placed %s at %s", e.BoxID, layout.SlotID(e.To)))
	case dnd.EventMoved:
		b.status.SetText(fmt.Sprintf("Moved %s to %s", e.BoxID, layout.SlotID(e.To)))
	case dnd.EventRemoved:
		b.status.SetText(fmt.Sprintf("Returned %s to the pool", e.BoxID))
	default:
		// rejected and cancelled drops snap back silently
	}
}

func (b *builder) exportPreset(p export.PresetName) {
	entries, err := b.exp.ExportPreset(context.Background(), b.ctrl.CommittedDocument(), p, nil)
	if err != nil {
		b.log.Error("export failed", slog.String("preset", string(p)), slog.Any("err", err))
		dialog.ShowError(err, b.win)
		return
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	dialog.ShowInformation("Export", "Written:\n"+strings.Join(paths, "\n"), b.win)
}

func (b *builder) absolute(o fyne.CanvasObject) fyne.Position {
	return fyne.CurrentApp().Driver().AbsolutePositionForObject(o)
}

func place(o fyne.CanvasObject, f frame) {
	o.Move(fyne.NewPos(f.X, f.Y))
	o.Resize(fyne.NewSize(f.W, f.H))
}

func nrgba(c domain.Color) color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

func tileLabel(box domain.Box) string {
	if ind := box.Footprint.Indicator(); ind != "" {
		return box.Label + " " + ind
	}
	return box.Label
}

func ghostFor(box domain.Box, sz fyne.Size) *fyne.Container {
	bg := canvas.NewRectangle(nrgba(box.Fill))
	bg.StrokeColor = nrgba(box.Border)
	bg.StrokeWidth = 2
	bg.CornerRadius = 6
	txt := canvas.NewText(tileLabel(box), color.Black)
	txt.Alignment = fyne.TextAlignCenter
	g := container.NewStack(bg, container.NewCenter(txt))
	g.Resize(sz.Max(fyne.NewSize(defaultMetrics.cellW, defaultMetrics.cellH/2)))
	return g
}

// tile is a draggable box, either in the pool (slot == "") or anchored on the grid.
type tile struct {
	widget.BaseWidget
	b    *builder
	box  domain.Box
	slot string
}

var (
	_ fyne.Draggable         = (*tile)(nil)
	_ fyne.SecondaryTappable = (*tile)(nil)
)

func newTile(b *builder, box domain.Box, slot string) *tile {
	t := &tile{b: b, box: box, slot: slot}
	t.ExtendBaseWidget(t)
	return t
}

func (t *tile) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(nrgba(t.box.Fill))
	bg.StrokeColor = nrgba(t.box.Border)
	bg.StrokeWidth = 2
	bg.CornerRadius = 6
	txt := canvas.NewText(tileLabel(t.box), color.Black)
	txt.Alignment = fyne.TextAlignCenter
	return widget.NewSimpleRenderer(container.NewStack(bg, container.NewCenter(txt)))
}

func (t *tile) MinSize() fyne.Size {
	if t.slot == "" {
		return fyne.NewSize(t.b.m.cellW, t.b.m.cellH/2)
	}
	return t.BaseWidget.MinSize()
}

func (t *tile) Dragged(e *fyne.DragEvent) { t.b.dragMove(t, e.AbsolutePosition) }
func (t *tile) DragEnd()                  { t.b.dragEnd(t) }

// TappedSecondary returns a placed tile to the pool.
func (t *tile) TappedSecondary(*fyne.PointEvent) { t.b.remove(t) }
