package layout

import "testing"

func TestIndexPositionRoundTrip(t *testing.T) {
	const cols = 3
	for i := 0; i < 18; i++ {
		r, c := IndexToPosition(i, cols)
		if c < 0 || c >= cols {
			t.Fatalf("col out of range for %d: %d", i, c)
		}
		if got := PositionToIndex(r, c, cols); got != i {
			t.Fatalf("PositionToIndex(%d,%d) = %d, want %d", r, c, got, i)
		}
	}
	if r, c := IndexToPosition(3, cols); r != 1 || c != 0 {
		t.Fatalf("index 3 -> (%d,%d), want (1,0)", r, c)
	}
}

func TestParseSlotID(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"slot-0", 0, true},
		{"slot-17", 17, true},
		{SlotID(5), 5, true},
		{"slot--1", 0, false},
		{"slot-x", 0, false},
		{"sidebar", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseSlotID(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParseSlotID(%q) = %d,%v want %d,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestOccupiedCells(t *testing.T) {
	if got := OccupiedCells(4, normal, 3); len(got) != 1 || got[0] != 4 {
		t.Fatalf("normal cells = %v", got)
	}
	if got := OccupiedCells(4, wide, 3); len(got) != 2 || got[0] != 4 || got[1] != 5 {
		t.Fatalf("wide cells = %v", got)
	}
}
