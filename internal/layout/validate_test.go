package layout

import (
	"testing"

	"layoutbuilder/internal/domain"
)

const (
	normal = domain.FootprintNormal
	wide   = domain.FootprintWide
)

func box(id string, fp domain.Footprint) domain.Box {
	return domain.Box{ID: id, Category: "Test", Label: id, Footprint: fp}
}

func mustGrid(t *testing.T, size, cols int) *Grid {
	t.Helper()
	g, err := NewGrid(size, cols)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestCanPlace(t *testing.T) {
	g := mustGrid(t, 18, 3)
	g.put(1, box("hero", wide)) // occupies 1 and 2
	g.put(6, box("btn", normal))

	cases := []struct {
		name   string
		target int
		fp     domain.Footprint
		want   bool
	}{
		{"normal on empty", 0, normal, true},
		{"normal on primary", 1, normal, false},
		{"normal on secondary", 2, normal, false},
		{"wide on empty row", 3, wide, true},
		{"wide in last column", 5, wide, false},
		{"wide with occupied right", 0, wide, false},
		{"wide next to normal", 7, wide, true},
		{"wide left of normal", 5, wide, false},
		{"out of range", 18, normal, false},
		{"negative", -1, normal, false},
	}
	for _, c := range cases {
		if got := CanPlace(g, c.target, c.fp); got != c.want {
			t.Errorf("%s: CanPlace(%d,%v) = %v, want %v", c.name, c.target, c.fp, got, c.want)
		}
	}
}

func TestCanPlaceShortLastRow(t *testing.T) {
	g := mustGrid(t, 7, 3) // last row has a single cell at index 6
	if CanPlace(g, 6, wide) {
		t.Fatalf("wide box must not extend past the end of a short row")
	}
	if !CanPlace(g, 6, normal) {
		t.Fatalf("normal box should fit in the short row")
	}
}

func TestCanPlaceDoesNotMutate(t *testing.T) {
	g := mustGrid(t, 6, 3)
	g.put(0, box("a", wide))
	before := g.Clone()
	_ = CanPlace(g, 3, wide)
	_ = CanPlace(g, 0, normal)
	if !g.Equal(before) {
		t.Fatalf("CanPlace changed the grid")
	}
}

func TestNewGridRejectsBadDimensions(t *testing.T) {
	if _, err := NewGrid(0, 3); err == nil {
		t.Fatalf("expected error for zero size")
	}
	if _, err := NewGrid(6, 0); err == nil {
		t.Fatalf("expected error for zero columns")
	}
}
