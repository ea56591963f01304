package engine

import "blockfall/internal/tetromino"

// Start resets all counters, draws a fresh shuffled queue, spawns the first
// piece and moves the session to playing. Any previous run is discarded.
func (s State) Start() State {
	next := NewState(s.Rules, s.bags)
	var first tetromino.Kind
	first, next.Queue = drawKind(nil, next.bags)
	next.Active = next.spawn(first)
	next.CanHold = true
	next.Status = StatusPlaying
	return next
}

// Tick advances gravity by one row. When the row below is blocked the piece
// locks instead. No-op unless playing and no rows are pending clear.
func (s State) Tick() State {
	if !s.acceptsInput() {
		return s
	}
	if down := s.Active.Translated(0, 1); !Collides(s.Board, down) {
		s.Active = down
		return s
	}
	return s.lock(0)
}

// Move applies the offset if the resulting pose is legal; otherwise the
// state is returned unchanged. Moves are never queued or retried.
func (s State) Move(dx, dy int) State {
	if !s.acceptsInput() {
		return s
	}
	if moved := s.Active.Translated(dx, dy); !Collides(s.Board, moved) {
		s.Active = moved
	}
	return s
}

// Rotate turns the active piece through the kick resolver. On failure the
// state is unchanged.
func (s State) Rotate(dir int) State {
	if !s.acceptsInput() {
		return s
	}
	if rotated, ok := ResolveRotation(s.Board, s.Active, dir); ok {
		s.Active = rotated
	}
	return s
}

// HardDrop advances the active piece to its lowest legal position and locks
// it, scoring 2 points per row of drop distance.
func (s State) HardDrop() State {
	if !s.acceptsInput() {
		return s
	}
	dist := DropDistance(s.Board, s.Active)
	s.Active = s.Active.Translated(0, dist)
	return s.lock(HardDropBonus(dist))
}

// Hold stores the active piece's kind aside. With a piece already held the
// two swap; otherwise the next queue kind becomes active. Hold availability
// is cleared until the next successful lock.
func (s State) Hold() State {
	if !s.acceptsInput() || !s.CanHold {
		return s
	}
	held := s.Active.Kind
	var incoming tetromino.Kind
	if s.HasHold {
		incoming = s.Held
	} else {
		incoming, s.Queue = drawKind(s.Queue, s.bags)
		s.HasHold = true
	}
	s.Held = held
	s.Active = s.spawn(incoming)
	s.CanHold = false
	if Collides(s.Board, s.Active) {
		s.Status = StatusGameOver
	}
	return s
}

// TogglePause flips between playing and paused. No effect from any other
// status.
func (s State) TogglePause() State {
	switch s.Status {
	case StatusPlaying:
		s.Status = StatusPaused
	case StatusPaused:
		s.Status = StatusPlaying
	}
	return s
}

// ApplyPendingClear collapses the rows marked by the previous clearing lock
// and spawns the next piece. The host calls this after whatever visual delay
// it chooses. Valid while playing or paused so a pause during the delay
// cannot strand the session.
func (s State) ApplyPendingClear() State {
	if len(s.PendingClear) == 0 {
		return s
	}
	if s.Status != StatusPlaying && s.Status != StatusPaused {
		return s
	}
	s.Board = s.Board.Collapse(s.PendingClear)
	s.PendingClear = nil

	var next tetromino.Kind
	next, s.Queue = drawKind(s.Queue, s.bags)
	s.Active = s.spawn(next)
	if Collides(s.Board, s.Active) {
		s.Status = StatusGameOver
	}
	return s
}

// lock merges the active piece into the board and resolves the consequences:
// either rows are marked for clearing (two-phase, host collapses later) or
// the next piece spawns immediately. bonus is the hard-drop score bonus.
func (s State) lock(bonus int) State {
	merged := s.Board.Merge(s.Active)
	rows := merged.FullRows()

	if len(rows) > 0 {
		s.Combo++
		if s.Combo > 0 {
			s.Stats.ComboEvents++
		}
		if s.Combo > s.Stats.MaxCombo {
			s.Stats.MaxCombo = s.Combo
		}
		s.Level = Level(s.Lines + len(rows))
		s.Score += ClearScore(len(rows), s.Combo, s.Level) + bonus
		s.Lines += len(rows)
		switch len(rows) {
		case 1:
			s.Stats.Singles++
		case 2:
			s.Stats.Doubles++
		case 3:
			s.Stats.Triples++
		case 4:
			s.Stats.Tetrises++
		}
		s.Board = merged.MarkRows(rows)
		s.PendingClear = rows
		s.CanHold = true
		s.Fall = FallInterval(s.Level)
		// Active piece stays stale until ApplyPendingClear runs.
		return s
	}

	s.Score += bonus
	s.Board = merged
	s.Combo = NoCombo
	s.CanHold = true

	var next tetromino.Kind
	next, s.Queue = drawKind(s.Queue, s.bags)
	s.Active = s.spawn(next)
	if Collides(s.Board, s.Active) {
		// Board is preserved as merged for display.
		s.Status = StatusGameOver
	}
	return s
}
