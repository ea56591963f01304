package tetromino

// Rotation directions.
const (
	Clockwise        = 1
	CounterClockwise = -1
)

// Kick is a positional offset tried when a rotation's default pose collides.
// Offsets are in board coordinates with rows growing downward.
type Kick struct {
	DX, DY int
}

// kickKey indexes a kick table by (from, to) rotation states.
type kickKey struct {
	from, to int
}

// jlstzKicks is the shared wall-kick table for the J, L, S, T and Z kinds.
// Offsets are tried strictly left to right; the first legal pose wins.
var jlstzKicks = map[kickKey][]Kick{
	{0, 1}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{1, 0}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{1, 2}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{2, 1}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{2, 3}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{3, 2}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{3, 0}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{0, 3}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
}

// iKicks is the wall-kick table for the I kind. Its bounding box geometry
// differs enough from the other kinds to need its own offsets.
var iKicks = map[kickKey][]Kick{
	{0, 1}: {{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
	{1, 0}: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
	{1, 2}: {{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
	{2, 1}: {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
	{2, 3}: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
	{3, 2}: {{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
	{3, 0}: {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
	{0, 3}: {{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
}

// oKicks: the O piece never changes shape, so the only candidate is the
// unmoved pose.
var oKicks = []Kick{{0, 0}}

// KicksFor returns the ordered kick offsets for rotating a kind from one
// rotation state to another.
func KicksFor(k Kind, from, to int) []Kick {
	key := kickKey{from & 3, to & 3}
	switch k {
	case O:
		return oKicks
	case I:
		return iKicks[key]
	default:
		return jlstzKicks[key]
	}
}
