package session

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"blockfall/internal/engine"
)

// Snapshot is an immutable view of the session handed to readers. The board
// inside the state is copy-on-write, so sharing it outside the lock is safe.
type Snapshot struct {
	State   engine.State
	Version uint64
}

// Config holds everything a Host needs at construction time.
type Config struct {
	Rules      engine.Rules
	Seed       int64         // 0 picks a time-based seed
	ClearDelay time.Duration // Delay between marking rows and collapsing them
	EventLog   *EventLog     // Optional journal; nil disables it

	// OnChange fires after every applied action with the fresh snapshot.
	OnChange func(Snapshot)
	// OnGameOver fires once per run with the final state.
	OnGameOver func(engine.State)
}

// Host owns the engine state and is its single writer. Every mutation,
// whether from a player command or an internal timer, funnels through
// applyLocked under one mutex.
type Host struct {
	mu      sync.Mutex
	state   engine.State
	version uint64
	stopped bool

	rules      engine.Rules
	seed       int64
	clearDelay time.Duration
	eventLog   *EventLog

	// Timers are re-armed after every applied action. The generation
	// counter lets a stale callback detect it lost the race and bail.
	timerGen     uint64
	gravityTimer *time.Timer
	clearTimer   *time.Timer

	onChange   func(Snapshot)
	onGameOver func(engine.State)
}

// NewHost creates a session host in the idle state. No timers run until the
// first StartGame.
func NewHost(cfg Config) *Host {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	clearDelay := cfg.ClearDelay
	if clearDelay <= 0 {
		clearDelay = 300 * time.Millisecond
	}

	h := &Host{
		rules:      cfg.Rules,
		seed:       seed,
		clearDelay: clearDelay,
		eventLog:   cfg.EventLog,
		onChange:   cfg.OnChange,
		onGameOver: cfg.OnGameOver,
	}
	h.state = engine.NewState(cfg.Rules, engine.NewBagSource(seed))
	return h
}

// Stop cancels pending timers and rejects all further mutations.
func (h *Host) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return
	}
	h.stopped = true
	h.timerGen++
	if h.gravityTimer != nil {
		h.gravityTimer.Stop()
		h.gravityTimer = nil
	}
	if h.clearTimer != nil {
		h.clearTimer.Stop()
		h.clearTimer = nil
	}
	log.Println("🛑 Session host stopped")
}

// StartGame begins a fresh run. Each run gets a new seed derived from the
// previous one so restarts do not replay the same piece order.
func (h *Host) StartGame() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return h.snapshotLocked()
	}

	h.seed = rand.New(rand.NewSource(h.seed)).Int63()
	h.state = engine.NewState(h.rules, engine.NewBagSource(h.seed))
	snap := h.applyLocked(engine.State.Start)

	if h.eventLog != nil {
		h.eventLog.EmitSimple(EventTypeGameStart, snap.Version, GameStartPayload{
			Seed:   h.seed,
			Width:  h.rules.Width,
			Height: h.rules.Height,
		})
	}
	log.Printf("🎮 Game started (seed %d)", h.seed)
	return snap
}

// Move shifts the active piece horizontally.
func (h *Host) Move(dx int) Snapshot {
	return h.apply(func(s engine.State) engine.State { return s.Move(dx, 0) })
}

// SoftDrop advances the active piece one row, locking if it cannot move.
func (h *Host) SoftDrop() Snapshot {
	return h.apply(engine.State.Tick)
}

// Rotate turns the active piece in the given direction, kicks included.
func (h *Host) Rotate(dir int) Snapshot {
	return h.apply(func(s engine.State) engine.State { return s.Rotate(dir) })
}

// HardDrop sends the active piece straight to the stack.
func (h *Host) HardDrop() Snapshot {
	return h.apply(engine.State.HardDrop)
}

// Hold stashes the active piece or swaps it with the held one.
func (h *Host) Hold() Snapshot {
	return h.apply(engine.State.Hold)
}

// TogglePause flips between playing and paused.
func (h *Host) TogglePause() Snapshot {
	return h.apply(engine.State.TogglePause)
}

// Snapshot returns the current state and version without mutating anything.
func (h *Host) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

// Version returns the current state version.
func (h *Host) Version() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.version
}

// EventLogStats exposes journal counters for the stats endpoint.
func (h *Host) EventLogStats() map[string]interface{} {
	if h.eventLog == nil {
		return map[string]interface{}{"running": false}
	}
	return h.eventLog.GetStats()
}

func (h *Host) apply(op func(engine.State) engine.State) Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return h.snapshotLocked()
	}
	return h.applyLocked(op)
}

// applyLocked runs one state transition, emits journal events derived from
// the before/after diff, re-arms timers and notifies the change listener.
// Caller holds mu.
func (h *Host) applyLocked(op func(engine.State) engine.State) Snapshot {
	before := h.state
	next := op(before)
	h.state = next
	h.version++
	snap := h.snapshotLocked()

	h.emitDiffLocked(before, next, snap.Version)
	h.scheduleLocked()

	if before.Status != engine.StatusGameOver && next.Status == engine.StatusGameOver {
		log.Printf("💀 Game over: score %d, %d lines, level %d", next.Score, next.Lines, next.Level)
		if h.onGameOver != nil {
			go h.onGameOver(next)
		}
	}
	if h.onChange != nil {
		go h.onChange(snap)
	}
	return snap
}

func (h *Host) snapshotLocked() Snapshot {
	return Snapshot{State: h.state, Version: h.version}
}

// emitDiffLocked derives journal events from a state transition.
func (h *Host) emitDiffLocked(before, next engine.State, version uint64) {
	if h.eventLog == nil {
		return
	}

	// A lock merged cells into the board. Collapses are excluded because
	// they start from a state that already had rows pending.
	if len(before.PendingClear) == 0 && boardsDiffer(before.Board, next.Board) {
		h.eventLog.EmitSimple(EventTypeLock, version, LockPayload{
			Score: next.Score,
			Combo: next.Combo,
		})
	}

	if len(before.PendingClear) == 0 && len(next.PendingClear) > 0 {
		h.eventLog.EmitSimple(EventTypeLineClear, version, LineClearPayload{
			Rows:  next.PendingClear,
			Combo: next.Combo,
			Score: next.Score,
			Lines: next.Lines,
			Level: next.Level,
		})
	}

	if next.Level > before.Level {
		h.eventLog.EmitSimple(EventTypeLevelUp, version, map[string]int{"level": next.Level})
	}

	if before.CanHold && !next.CanHold {
		h.eventLog.EmitSimple(EventTypeHold, version, map[string]string{"held": next.Held.String()})
	}

	pauseFlip := before.Status == engine.StatusPlaying && next.Status == engine.StatusPaused ||
		before.Status == engine.StatusPaused && next.Status == engine.StatusPlaying
	if pauseFlip {
		h.eventLog.EmitSimple(EventTypePause, version, map[string]string{"status": next.Status.String()})
	}

	if before.Status != engine.StatusGameOver && next.Status == engine.StatusGameOver {
		h.eventLog.EmitSimple(EventTypeGameOver, version, GameOverPayload{
			Score:    next.Score,
			Lines:    next.Lines,
			Level:    next.Level,
			MaxCombo: next.Stats.MaxCombo,
		})
	}
}

// scheduleLocked re-arms the session timers for the current state. At most
// one timer is live: the collapse delay while rows are pending, gravity
// otherwise. Paused and finished games run no timers. Caller holds mu.
func (h *Host) scheduleLocked() {
	h.timerGen++
	gen := h.timerGen

	if h.gravityTimer != nil {
		h.gravityTimer.Stop()
		h.gravityTimer = nil
	}
	if h.clearTimer != nil {
		h.clearTimer.Stop()
		h.clearTimer = nil
	}

	if h.stopped || h.state.Status != engine.StatusPlaying {
		return
	}

	if len(h.state.PendingClear) > 0 {
		h.clearTimer = time.AfterFunc(h.clearDelay, func() {
			h.fire(gen, engine.State.ApplyPendingClear)
		})
		return
	}

	h.gravityTimer = time.AfterFunc(h.state.Fall, func() {
		h.fire(gen, engine.State.Tick)
	})
}

// fire runs a timer-driven transition unless a newer action already re-armed
// the timers.
func (h *Host) fire(gen uint64, op func(engine.State) engine.State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped || gen != h.timerGen {
		return
	}
	h.applyLocked(op)
}

func boardsDiffer(a, b engine.Board) bool {
	if a.Width != b.Width || a.Height != b.Height {
		return true
	}
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			if a.At(x, y) != b.At(x, y) {
				return true
			}
		}
	}
	return false
}
