// Package highscore persists the best run across server restarts.
package highscore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileName = "highscore.json"

// Record is the persisted best run.
type Record struct {
	Score    int       `json:"score"`
	Lines    int       `json:"lines"`
	Level    int       `json:"level"`
	MaxCombo int       `json:"maxCombo"`
	SetAt    time.Time `json:"setAt"`
}

// Store keeps the best record in memory and mirrors it to a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
	best Record
}

// Open loads the store from dir, starting from zero if no file exists yet.
func Open(dir string) (*Store, error) {
	s := &Store{path: filepath.Join(dir, fileName)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.best); err != nil {
		// A corrupt file should not take the server down. Start fresh;
		// the next submit overwrites it.
		s.best = Record{}
	}
	return s, nil
}

// Best returns the current best record.
func (s *Store) Best() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best
}

// Submit records a finished run. It returns true when the run beats the
// stored best, in which case the file is rewritten.
func (s *Store) Submit(r Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Score <= s.best.Score {
		return false, nil
	}
	if r.SetAt.IsZero() {
		r.SetAt = time.Now()
	}
	s.best = r
	return true, s.writeLocked()
}

// writeLocked persists the best record with a write-then-rename so a crash
// mid-write never leaves a truncated file behind.
func (s *Store) writeLocked() error {
	data, err := json.MarshalIndent(s.best, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
