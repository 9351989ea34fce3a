package layout

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"layoutbuilder/internal/domain"
)

func propCatalog() []domain.Box {
	return []domain.Box{
		box("n1", normal), box("n2", normal), box("n3", normal), box("n4", normal),
		box("w1", wide), box("w2", wide), box("w3", wide),
	}
}

// apply decodes an int into one board operation.
func apply(b *Board, op int) {
	cat := b.catalog
	size := b.grid.Size()
	target := (op / 3) % size
	id := cat[(op/(3*size))%len(cat)].ID
	switch op % 3 {
	case 0:
		_ = b.PlaceFromPool(id, target)
	case 1:
		if from, ok := b.grid.PrimaryOf(id); ok {
			_ = b.MoveWithinGrid(from, target)
		}
	case 2:
		_ = b.RemoveFromGrid(id)
	}
}

func TestBoardInvariantsHoldUnderRandomOperations(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("boxes are never lost or duplicated", prop.ForAll(
		func(ops []int) bool {
			b, err := NewBoard(propCatalog(), 18, 3)
			if err != nil {
				return false
			}
			for _, op := range ops {
				apply(b, op)
				if err := b.Verify(); err != nil {
					t.Logf("after op %d: %v", op, err)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1<<20)),
	))

	properties.Property("wide move right succeeds iff the new right cell is free", prop.ForAll(
		func(ops []int, anchor int) bool {
			b, err := NewBoard(propCatalog(), 18, 3)
			if err != nil {
				return false
			}
			for _, op := range ops {
				apply(b, op)
			}
			from, ok := b.grid.PrimaryOf("w1")
			if !ok {
				if b.PlaceFromPool("w1", anchor%18) != nil {
					return true
				}
				from = anchor % 18
			}
			_, col := IndexToPosition(from+1, 3)
			hypo := b.grid.Without(from)
			right, inRange := hypo.Slot(from + 2)
			want := col < 2 && inRange && right.State == SlotEmpty
			got := b.MoveWithinGrid(from, from+1) == nil
			return got == want && b.Verify() == nil
		},
		gen.SliceOf(gen.IntRange(0, 1<<20)),
		gen.IntRange(0, 17),
	))

	properties.TestingRun(t)
}
