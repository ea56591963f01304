package session

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestEmitBeforeStartIsDropped(t *testing.T) {
	el := NewEventLog()
	if el.Emit(NewEvent(EventTypeLock, 1, nil)) {
		t.Error("emit succeeded on a log that was never started")
	}
}

func TestEmitAssignsSequence(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatal(err)
	}
	defer el.Stop()

	for i := 0; i < 10; i++ {
		if !el.Emit(NewEvent(EventTypeLock, uint64(i), nil)) {
			t.Fatalf("emit %d rejected", i)
		}
	}
	if got := el.GetTotalCount(); got != 10 {
		t.Errorf("total count = %d, want 10", got)
	}
	if got := el.GetDroppedCount(); got != 0 {
		t.Errorf("dropped count = %d, want 0", got)
	}
}

func TestJournalWritesNewlineDelimitedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	el := NewEventLog()
	if err := el.Start(path); err != nil {
		t.Fatal(err)
	}

	el.EmitSimple(EventTypeGameStart, 1, GameStartPayload{Seed: 7, Width: 10, Height: 22})
	el.EmitSimple(EventTypeLineClear, 2, LineClearPayload{Rows: []int{21}, Score: 100, Lines: 1, Level: 1})
	el.Stop() // final flush

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", len(events)+1, err)
		}
		events = append(events, ev)
	}

	if len(events) != 2 {
		t.Fatalf("journal has %d events, want 2", len(events))
	}
	if events[0].Type != EventTypeGameStart || events[1].Type != EventTypeLineClear {
		t.Errorf("event types = %v, %v", events[0].Type, events[1].Type)
	}
	for i, ev := range events {
		if ev.Type == EventTypeUnknown {
			t.Errorf("event %d flushed as the zero value", i)
		}
	}
	if events[0].Sequence != 1 || events[1].Sequence != 2 {
		t.Errorf("sequences = %d, %d, want 1, 2", events[0].Sequence, events[1].Sequence)
	}

	var payload LineClearPayload
	if err := json.Unmarshal(events[1].Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Score != 100 || len(payload.Rows) != 1 {
		t.Errorf("round-tripped payload = %+v", payload)
	}
}

func TestEventTypeStrings(t *testing.T) {
	tests := []struct {
		typ  EventType
		want string
	}{
		{EventTypeGameStart, "game_start"},
		{EventTypeLineClear, "line_clear"},
		{EventTypeGameOver, "game_over"},
		{EventType(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
