// Package engine implements the pure falling-block game state machine: the
// locked-cell board, collision and wall-kick resolution, bag randomization,
// scoring and the per-action session state transitions. The engine performs
// no I/O and owns no clock; gravity is driven by the host calling Tick.
package engine

import "blockfall/internal/tetromino"

// Cell is a single board cell. A zero Cell is empty.
type Cell struct {
	Occupied bool
	Kind     tetromino.Kind
	Marked   bool // row is pending clear; presentation hint only
}

// Board is the locked-cell grid. Height includes the hidden spawn buffer
// rows above the visible play area. Board values share their backing cells
// slice; every mutating operation returns a fresh copy (copy-on-write).
type Board struct {
	Width  int
	Height int
	cells  []Cell
}

// NewBoard returns an empty Width×Height board.
func NewBoard(width, height int) Board {
	return Board{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
}

// At returns the cell at (x, y). Out-of-range coordinates return an empty
// cell; game logic must use Blocking for legality checks instead.
func (b Board) At(x, y int) Cell {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Cell{}
	}
	return b.cells[y*b.Width+x]
}

// Blocking reports whether (x, y) blocks piece placement: outside the
// horizontal bounds, at or past the bottom, or occupied. Cells above the top
// are never blocking so pieces may overhang the board while spawning.
func (b Board) Blocking(x, y int) bool {
	if x < 0 || x >= b.Width || y >= b.Height {
		return true
	}
	if y < 0 {
		return false
	}
	return b.cells[y*b.Width+x].Occupied
}

// Merge returns a new board with the piece's cells written as locked cells
// of the piece's kind. Cells falling outside the grid are silently dropped;
// that cannot happen when collision was checked first.
func (b Board) Merge(p tetromino.Piece) Board {
	next := b.clone()
	for _, c := range p.Cells() {
		if c.X < 0 || c.X >= b.Width || c.Y < 0 || c.Y >= b.Height {
			continue
		}
		next.cells[c.Y*b.Width+c.X] = Cell{Occupied: true, Kind: p.Kind}
	}
	return next
}

// FullRows returns the indices of completely occupied rows, top to bottom.
func (b Board) FullRows() []int {
	var rows []int
	for y := 0; y < b.Height; y++ {
		full := true
		for x := 0; x < b.Width; x++ {
			if !b.cells[y*b.Width+x].Occupied {
				full = false
				break
			}
		}
		if full {
			rows = append(rows, y)
		}
	}
	return rows
}

// MarkRows returns a new board with every cell of the listed rows flagged as
// pending clear. Locked state is otherwise unchanged.
func (b Board) MarkRows(rows []int) Board {
	if len(rows) == 0 {
		return b
	}
	next := b.clone()
	for _, y := range rows {
		if y < 0 || y >= b.Height {
			continue
		}
		for x := 0; x < b.Width; x++ {
			next.cells[y*b.Width+x].Marked = true
		}
	}
	return next
}

// Collapse returns a new board with the listed rows removed and an equal
// number of fresh empty rows inserted at the top. The relative order of all
// remaining rows is preserved. Identity on an empty row list.
func (b Board) Collapse(rows []int) Board {
	if len(rows) == 0 {
		return b
	}
	drop := make(map[int]bool, len(rows))
	for _, y := range rows {
		drop[y] = true
	}

	next := NewBoard(b.Width, b.Height)
	dst := b.Height - 1
	for src := b.Height - 1; src >= 0; src-- {
		if drop[src] {
			continue
		}
		copy(next.cells[dst*b.Width:(dst+1)*b.Width], b.cells[src*b.Width:(src+1)*b.Width])
		dst--
	}
	return next
}

func (b Board) clone() Board {
	next := Board{Width: b.Width, Height: b.Height, cells: make([]Cell, len(b.cells))}
	copy(next.cells, b.cells)
	return next
}

// Row returns a copy of row y, for rendering and tests.
func (b Board) Row(y int) []Cell {
	if y < 0 || y >= b.Height {
		return nil
	}
	row := make([]Cell, b.Width)
	copy(row, b.cells[y*b.Width:(y+1)*b.Width])
	return row
}
