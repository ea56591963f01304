// Package tetromino defines the seven piece kinds, their rotation states and
// the wall-kick offset tables. Everything here is immutable shared data;
// pieces themselves are small value types.
package tetromino

// Kind identifies one of the seven piece shapes.
type Kind uint8

// The seven kinds, in canonical bag order.
const (
	I Kind = iota
	O
	T
	S
	Z
	J
	L
)

// Kinds is an ordered array of all piece kinds, used to build bags.
var Kinds = [7]Kind{I, O, T, S, Z, J, L}

func (k Kind) String() string {
	switch k {
	case I:
		return "I"
	case O:
		return "O"
	case T:
		return "T"
	case S:
		return "S"
	case Z:
		return "Z"
	case J:
		return "J"
	case L:
		return "L"
	}
	return "?"
}

// Cell is a (column, row) offset inside a piece's bounding box, or an
// absolute board coordinate once a piece position has been applied.
// Rows grow downward.
type Cell struct {
	X, Y int
}

// cells holds the occupied offsets for every kind and rotation state.
// [kind][rotation][block]. The O piece repeats its single state so that
// rotation indices stay valid for every kind.
var cells = [7][4][4]Cell{
	I: {
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
		{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	},
	O: {
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
	},
	T: {
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	S: {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 1}, {2, 1}, {0, 2}, {1, 2}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	Z: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{2, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	J: {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	L: {
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
}

// CellsFor returns the occupied bounding-box offsets for a kind at a
// rotation state. The returned array is a copy; callers may not mutate the
// shared tables through it.
func CellsFor(k Kind, rotation int) [4]Cell {
	return cells[k][rotation&3]
}

// Piece is an active piece pose: a kind, a rotation state index and the
// bounding-box anchor position in board coordinates. Piece is a value type
// and is replaced wholesale, never mutated in place across a lock.
type Piece struct {
	Kind     Kind
	Rotation int
	X, Y     int
}

// Cells returns the absolute board cells occupied by the piece.
func (p Piece) Cells() [4]Cell {
	abs := cells[p.Kind][p.Rotation&3]
	for i := range abs {
		abs[i].X += p.X
		abs[i].Y += p.Y
	}
	return abs
}

// Translated returns the piece shifted by (dx, dy).
func (p Piece) Translated(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

// WithRotation returns the piece at the given rotation state.
func (p Piece) WithRotation(rotation int) Piece {
	p.Rotation = rotation & 3
	return p
}
