package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"blockfall/internal/engine"
	"blockfall/internal/session"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the full Server.

// pieceJSON is the wire form of the active piece.
type pieceJSON struct {
	Kind     string `json:"kind"`
	Rotation int    `json:"rotation"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// stateResponse is the wire form of a session snapshot. Board rows are
// strings: '.' for empty, the piece letter for settled cells, '#' for rows
// about to collapse. Hidden buffer rows are omitted.
type stateResponse struct {
	Version      uint64     `json:"version"`
	Status       string     `json:"status"`
	Board        []string   `json:"board"`
	Active       *pieceJSON `json:"active,omitempty"`
	Queue        []string   `json:"queue"`
	Hold         string     `json:"hold,omitempty"`
	CanHold      bool       `json:"canHold"`
	Score        int        `json:"score"`
	Level        int        `json:"level"`
	Lines        int        `json:"lines"`
	Combo        int        `json:"combo"`
	PendingClear []int      `json:"pendingClear,omitempty"`
}

func snapshotToJSON(snap session.Snapshot) stateResponse {
	s := snap.State

	rows := make([]string, 0, s.Board.Height-s.Rules.HiddenRows)
	for y := s.Rules.HiddenRows; y < s.Board.Height; y++ {
		row := make([]byte, s.Board.Width)
		for x := 0; x < s.Board.Width; x++ {
			cell := s.Board.At(x, y)
			switch {
			case cell.Marked:
				row[x] = '#'
			case cell.Occupied:
				row[x] = cell.Kind.String()[0]
			default:
				row[x] = '.'
			}
		}
		rows = append(rows, string(row))
	}

	queue := make([]string, 0, len(s.Queue))
	for _, k := range s.Queue {
		queue = append(queue, k.String())
	}

	resp := stateResponse{
		Version:      snap.Version,
		Status:       s.Status.String(),
		Board:        rows,
		Queue:        queue,
		CanHold:      s.CanHold,
		Score:        s.Score,
		Level:        s.Level,
		Lines:        s.Lines,
		Combo:        s.Combo,
		PendingClear: s.PendingClear,
	}

	// The active piece is only meaningful mid-run and while no rows are
	// pending collapse
	if (s.Status == engine.StatusPlaying || s.Status == engine.StatusPaused) && len(s.PendingClear) == 0 {
		resp.Active = &pieceJSON{
			Kind:     s.Active.Kind.String(),
			Rotation: s.Active.Rotation,
			X:        s.Active.X,
			Y:        s.Active.Y,
		}
	}
	if s.HasHold {
		resp.Hold = s.Held.String()
	}
	return resp
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, snapshotToJSON(h.host.Snapshot()))
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	snap := h.host.Snapshot()
	writeJSON(w, map[string]interface{}{
		"status":   snap.State.Status.String(),
		"score":    snap.State.Score,
		"level":    snap.State.Level,
		"lines":    snap.State.Lines,
		"maxCombo": snap.State.Stats.MaxCombo,
		"clears": map[string]int{
			"singles":  snap.State.Stats.Singles,
			"doubles":  snap.State.Stats.Doubles,
			"triples":  snap.State.Stats.Triples,
			"tetrises": snap.State.Stats.Tetrises,
		},
		"comboEvents": snap.State.Stats.ComboEvents,
		"journal":     h.host.EventLogStats(),
	})
}

func (h *routerHandlers) handleGetHighScore(w http.ResponseWriter, r *http.Request) {
	if h.scores == nil {
		writeJSON(w, map[string]int{"score": 0})
		return
	}
	writeJSON(w, h.scores.Best())
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		writeError(w, "frame rendering not configured", http.StatusNotImplemented)
		return
	}

	start := time.Now()
	snap := h.host.Snapshot()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.Frame(snap.State, w); err != nil {
		// Headers are already out; all we can do is log it
		log.Printf("⚠️ Frame render failed: %v", err)
		return
	}
	RecordRender(time.Since(start))
}

func (h *routerHandlers) handleGameStart(w http.ResponseWriter, r *http.Request) {
	snap := h.host.StartGame()
	RecordGameStarted()
	writeJSON(w, snapshotToJSON(snap))
}

// inputRequest is the body of POST /api/game/input.
type inputRequest struct {
	Command string `json:"command"`
}

func (h *routerHandlers) handleGameInput(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	snap, err := ApplyCommand(h.host, req.Command)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	RecordAction(req.Command)
	writeJSON(w, snapshotToJSON(snap))
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
