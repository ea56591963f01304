package session

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeGameStart
	EventTypeLock
	EventTypeLineClear
	EventTypeLevelUp
	EventTypeHold
	EventTypePause
	EventTypeGameOver
)

// EventVersion for backwards compatibility when reading old journals
const EventVersion uint8 = 1

// Event is the core event structure for the session journal
type Event struct {
	Version   uint8     `json:"version"`   // Schema version
	Type      EventType `json:"type"`      // Event type
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence
	StateVer  uint64    `json:"stateVer"`  // Session state version this occurred at
	Payload   []byte    `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeGameStart:
		return "game_start"
	case EventTypeLock:
		return "lock"
	case EventTypeLineClear:
		return "line_clear"
	case EventTypeLevelUp:
		return "level_up"
	case EventTypeHold:
		return "hold"
	case EventTypePause:
		return "pause"
	case EventTypeGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Typed payloads for different event types

// GameStartPayload records the parameters a run began with
type GameStartPayload struct {
	Seed   int64 `json:"seed"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
}

// LockPayload records a piece settling into the stack
type LockPayload struct {
	Score int `json:"score"`
	Combo int `json:"combo"`
}

// LineClearPayload records a clearing lock
type LineClearPayload struct {
	Rows  []int `json:"rows"`
	Combo int   `json:"combo"`
	Score int   `json:"score"`
	Lines int   `json:"lines"`
	Level int   `json:"level"`
}

// GameOverPayload records the final totals of a run
type GameOverPayload struct {
	Score    int `json:"score"`
	Lines    int `json:"lines"`
	Level    int `json:"level"`
	MaxCombo int `json:"maxCombo"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, stateVer uint64, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		StateVer:  stateVer,
		Payload:   EncodePayload(payload),
	}
}
