package engine

import (
	"time"

	"blockfall/internal/tetromino"
)

// Status is the session lifecycle state.
type Status uint8

const (
	StatusIdle Status = iota
	StatusPlaying
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "game_over"
	}
	return "unknown"
}

// NoCombo is the combo counter sentinel meaning no active streak. The
// counter is incremented on every clearing lock and reset to NoCombo on any
// non-clearing lock.
const NoCombo = -1

// Stats are monotonically non-decreasing counters for a single run.
type Stats struct {
	Singles     int `json:"singles"`
	Doubles     int `json:"doubles"`
	Triples     int `json:"triples"`
	Tetrises    int `json:"tetrises"`
	ComboEvents int `json:"comboEvents"`
	MaxCombo    int `json:"maxCombo"`
}

// Rules holds the fixed geometry of a session: board size (Height includes
// HiddenRows of spawn buffer above the visible area) and the spawn anchor.
type Rules struct {
	Width      int
	Height     int
	HiddenRows int
	SpawnX     int
	SpawnY     int
}

// DefaultRules is the standard 10-wide well with two hidden buffer rows.
func DefaultRules() Rules {
	return Rules{
		Width:      10,
		Height:     22,
		HiddenRows: 2,
		SpawnX:     3,
		SpawnY:     0,
	}
}

// State is a complete immutable session snapshot. Every operation takes a
// State and returns a new one; callers must treat received values as
// read-only. The bag source is the only shared component, which is safe
// under the single-writer discipline the host enforces.
type State struct {
	Rules  Rules
	Status Status
	Board  Board

	Active tetromino.Piece
	Queue  []tetromino.Kind

	Held    tetromino.Kind
	HasHold bool
	CanHold bool

	Score int
	Level int
	Lines int
	Combo int
	Stats Stats

	// PendingClear holds row indices marked by a clearing lock, awaiting
	// the host-driven collapse. The active piece slot is stale while this
	// is non-empty.
	PendingClear []int

	Fall time.Duration

	bags BagSource
}

// NewState returns an idle session with an empty board.
func NewState(rules Rules, bags BagSource) State {
	return State{
		Rules:  rules,
		Status: StatusIdle,
		Board:  NewBoard(rules.Width, rules.Height),
		Combo:  NoCombo,
		Level:  1,
		Fall:   FallInterval(1),
		bags:   bags,
	}
}

// spawn returns a piece of the given kind at the spawn pose.
func (s State) spawn(k tetromino.Kind) tetromino.Piece {
	return tetromino.Piece{Kind: k, Rotation: 0, X: s.Rules.SpawnX, Y: s.Rules.SpawnY}
}

// acceptsInput reports whether piece-manipulating operations apply: the
// session must be playing and no rows may be awaiting collapse.
func (s State) acceptsInput() bool {
	return s.Status == StatusPlaying && len(s.PendingClear) == 0
}
