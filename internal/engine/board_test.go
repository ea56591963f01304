package engine

import (
	"testing"

	"blockfall/internal/tetromino"
)

// setCell marks a cell occupied directly, bypassing the lock path.
func setCell(b *Board, x, y int) {
	b.cells[y*b.Width+x] = Cell{Occupied: true, Kind: tetromino.L}
}

// fillRow occupies a whole row except the listed gap columns.
func fillRow(b *Board, y int, gaps ...int) {
	skip := map[int]bool{}
	for _, g := range gaps {
		skip[g] = true
	}
	for x := 0; x < b.Width; x++ {
		if !skip[x] {
			setCell(b, x, y)
		}
	}
}

func TestBlocking(t *testing.T) {
	b := NewBoard(10, 22)
	setCell(&b, 4, 10)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"empty cell", 0, 0, false},
		{"occupied cell", 4, 10, true},
		{"left of board", -1, 5, true},
		{"right of board", 10, 5, true},
		{"below bottom", 4, 22, true},
		{"above top is open", 4, -1, false},
		{"above top outside width still blocks", -1, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Blocking(tt.x, tt.y); got != tt.want {
				t.Errorf("Blocking(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestMergeWritesPieceKind(t *testing.T) {
	b := NewBoard(10, 22)
	p := tetromino.Piece{Kind: tetromino.O, X: 0, Y: 20}
	merged := b.Merge(p)

	for _, c := range p.Cells() {
		cell := merged.At(c.X, c.Y)
		if !cell.Occupied || cell.Kind != tetromino.O {
			t.Errorf("cell (%d,%d) = %+v, want occupied O", c.X, c.Y, cell)
		}
	}
	// The receiver is untouched.
	if b.At(1, 20).Occupied {
		t.Error("Merge mutated the original board")
	}
}

func TestMergeDropsOutOfBoundsCells(t *testing.T) {
	b := NewBoard(10, 22)
	// Anchor above the top: the upper O cells land at y=-1 and are dropped.
	merged := b.Merge(tetromino.Piece{Kind: tetromino.O, X: 0, Y: -1})
	if !merged.At(1, 0).Occupied {
		t.Error("in-bounds cell missing after merge")
	}
	for x := 0; x < 10; x++ {
		for y := 1; y < 22; y++ {
			if merged.At(x, y).Occupied {
				t.Fatalf("unexpected occupied cell at (%d,%d)", x, y)
			}
		}
	}
}

func TestFullRowsTopToBottom(t *testing.T) {
	b := NewBoard(10, 22)
	fillRow(&b, 21)
	fillRow(&b, 19)
	fillRow(&b, 20, 3) // gap, not full

	got := b.FullRows()
	if len(got) != 2 || got[0] != 19 || got[1] != 21 {
		t.Errorf("FullRows() = %v, want [19 21]", got)
	}
}

func TestCollapse(t *testing.T) {
	b := NewBoard(4, 6)
	fillRow(&b, 5)
	fillRow(&b, 3)
	setCell(&b, 1, 4) // survivor between the cleared rows
	setCell(&b, 2, 2) // survivor above

	collapsed := b.Collapse([]int{3, 5})

	if collapsed.Width != 4 || collapsed.Height != 6 {
		t.Fatal("collapse changed dimensions")
	}
	// Two fresh empty rows on top.
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if collapsed.At(x, y).Occupied {
				t.Errorf("expected empty cell at (%d,%d)", x, y)
			}
		}
	}
	// Survivors keep relative order: (2,2) above (1,4) becomes (2,4) above (1,5).
	if !collapsed.At(2, 4).Occupied {
		t.Error("upper survivor not at (2,4)")
	}
	if !collapsed.At(1, 5).Occupied {
		t.Error("lower survivor not at (1,5)")
	}
	if len(collapsed.FullRows()) != 0 {
		t.Error("cleared rows still present")
	}
}

func TestCollapseEmptyListIsIdentity(t *testing.T) {
	b := NewBoard(10, 22)
	setCell(&b, 5, 21)
	same := b.Collapse(nil)
	if !same.At(5, 21).Occupied {
		t.Error("identity collapse lost a cell")
	}
}

func TestMarkRows(t *testing.T) {
	b := NewBoard(10, 22)
	fillRow(&b, 21)
	marked := b.MarkRows([]int{21})
	for x := 0; x < 10; x++ {
		if !marked.At(x, 21).Marked {
			t.Errorf("cell (%d,21) not marked", x)
		}
	}
	if b.At(0, 21).Marked {
		t.Error("MarkRows mutated the original board")
	}
}
