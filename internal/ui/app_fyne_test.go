//go:build fyne && cgo

// These tests need the Fyne toolchain; run them with:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"layoutbuilder/internal/dnd"
	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/layout"
	applog "layoutbuilder/internal/log"
)

func newTestBuilder(t *testing.T) *builder {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	board, err := layout.NewBoard(domain.DefaultCatalog(), 6, 3)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	w := a.NewWindow("test")
	b := newBuilder(dnd.NewController(board), w, nil, applog.WithComponent("ui"))
	w.SetContent(b.content())
	w.Resize(fyne.NewSize(900, 600))
	b.refresh()
	return b
}

func TestBuilder_PoolListsEveryBox(t *testing.T) {
	b := newTestBuilder(t)
	tiles := 0
	for _, o := range b.pool.Objects {
		if _, ok := o.(*tile); ok {
			tiles++
		}
	}
	if tiles != len(domain.DefaultCatalog()) {
		t.Fatalf("expected %d pool tiles, got %d", len(domain.DefaultCatalog()), tiles)
	}
}

func TestBuilder_DropOutsideSnapsBack(t *testing.T) {
	b := newTestBuilder(t)
	before := b.ctrl.Document()
	tl := newTile(b, domain.DefaultCatalog()[0], "")
	b.dragMove(tl, fyne.NewPos(-50, -50))
	if _, ok := b.ctrl.Dragging(); !ok {
		t.Fatalf("expected an open gesture after the first drag event")
	}
	b.dragEnd(tl)
	if _, ok := b.ctrl.Dragging(); ok {
		t.Fatalf("gesture should be closed")
	}
	if got := b.ctrl.Document(); got.PoolSize() != before.PoolSize() {
		t.Fatalf("pool changed after a drop outside the board")
	}
	if len(b.overlay.Objects) != 0 {
		t.Fatalf("ghost should be gone after drag end")
	}
}
