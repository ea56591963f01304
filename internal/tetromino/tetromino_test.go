package tetromino

import "testing"

// TestEveryRotationHasFourBlocks verifies each kind/rotation pattern
// occupies exactly four distinct cells.
func TestEveryRotationHasFourBlocks(t *testing.T) {
	for _, k := range Kinds {
		for rot := 0; rot < 4; rot++ {
			seen := map[Cell]bool{}
			for _, c := range CellsFor(k, rot) {
				if c.X < 0 || c.X > 3 || c.Y < 0 || c.Y > 3 {
					t.Errorf("%v rot %d: cell %v outside bounding box", k, rot, c)
				}
				seen[c] = true
			}
			if len(seen) != 4 {
				t.Errorf("%v rot %d: expected 4 distinct cells, got %d", k, rot, len(seen))
			}
		}
	}
}

// TestOPieceSymmetric verifies the O piece has identical cells in every
// rotation state.
func TestOPieceSymmetric(t *testing.T) {
	base := CellsFor(O, 0)
	for rot := 1; rot < 4; rot++ {
		if CellsFor(O, rot) != base {
			t.Errorf("O rot %d differs from rot 0", rot)
		}
	}
}

// TestPieceCells verifies anchor translation into board coordinates.
func TestPieceCells(t *testing.T) {
	p := Piece{Kind: O, X: 3, Y: 5}
	want := [4]Cell{{4, 5}, {5, 5}, {4, 6}, {5, 6}}
	if got := p.Cells(); got != want {
		t.Errorf("Cells() = %v, want %v", got, want)
	}
}

// TestTranslatedDoesNotMutate verifies Piece value semantics.
func TestTranslatedDoesNotMutate(t *testing.T) {
	p := Piece{Kind: T, X: 2, Y: 2}
	q := p.Translated(1, -1)
	if p.X != 2 || p.Y != 2 {
		t.Error("Translated mutated the receiver")
	}
	if q.X != 3 || q.Y != 1 {
		t.Errorf("Translated = (%d,%d), want (3,1)", q.X, q.Y)
	}
}

// TestKindString covers the display names.
func TestKindString(t *testing.T) {
	names := map[Kind]string{I: "I", O: "O", T: "T", S: "S", Z: "Z", J: "J", L: "L"}
	for k, want := range names {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}
