package engine

import "blockfall/internal/tetromino"

// Collides reports whether any occupied cell of the piece's pose maps to a
// blocking board cell. This is the single source of truth for legality;
// movement, rotation, spawning and dropping are all expressed through it.
func Collides(b Board, p tetromino.Piece) bool {
	for _, c := range p.Cells() {
		if b.Blocking(c.X, c.Y) {
			return true
		}
	}
	return false
}

// ResolveRotation computes the target rotation state (current + dir) mod 4
// and tries the kick offsets for the (from, to) pair in declared order. It
// returns the first non-colliding pose, or ok=false if every offset fails.
func ResolveRotation(b Board, p tetromino.Piece, dir int) (tetromino.Piece, bool) {
	from := p.Rotation & 3
	to := (from + dir + 4) & 3
	for _, k := range tetromino.KicksFor(p.Kind, from, to) {
		candidate := p.WithRotation(to).Translated(k.DX, k.DY)
		if !Collides(b, candidate) {
			return candidate, true
		}
	}
	return p, false
}

// DropDistance returns how many rows the piece can advance downward before
// the next row becomes illegal.
func DropDistance(b Board, p tetromino.Piece) int {
	dist := 0
	for !Collides(b, p.Translated(0, dist+1)) {
		dist++
	}
	return dist
}
