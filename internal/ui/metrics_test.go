package ui

import (
	"testing"

	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/layout"
)

func testDocument(t *testing.T, size, cols int) layout.Document {
	t.Helper()
	b, err := layout.NewBoard(domain.DefaultCatalog(), size, cols)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return b.Document()
}

func TestMetrics_CellFrame(t *testing.T) {
	m := metrics{cellW: 100, cellH: 50, gap: 10}
	f := m.cellFrame(4, 1, 3)
	if f != (frame{X: 120, Y: 70, W: 100, H: 50}) {
		t.Fatalf("unexpected frame for slot 4: %+v", f)
	}
	wide := m.cellFrame(0, 2, 3)
	if wide.W != 210 {
		t.Fatalf("wide tile should span two cells and one gap, got %v", wide.W)
	}
	w, h := m.boardSize(3, 2)
	if w != 340 || h != 130 {
		t.Fatalf("unexpected board size %vx%v", w, h)
	}
}

func TestMetrics_SlotAt(t *testing.T) {
	m := metrics{cellW: 100, cellH: 50, gap: 10}
	doc := testDocument(t, 6, 3)
	cases := []struct {
		x, y float32
		want string
	}{
		{15, 15, "slot-0"},
		{219, 119, "slot-4"},
		{329, 119, "slot-5"},
		{115, 15, ""}, // gap between columns
		{5, 5, ""},    // outer margin
		{-1, 20, ""},
		{15, 500, ""},
	}
	for _, tc := range cases {
		if got := m.slotAt(tc.x, tc.y, doc); got != tc.want {
			t.Errorf("slotAt(%v,%v) = %q, want %q", tc.x, tc.y, got, tc.want)
		}
	}
}
