// Package checkpoint persists the start time of the last successful
// apply run, used by incremental mode to process only seats created since.
package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const fileName = ".last_run_timestamp"

// Record is the on-disk checkpoint format.
type Record struct {
	LastRun time.Time `json:"last_run"`
	SavedAt time.Time `json:"saved_at"`
}

// Store reads and writes the checkpoint file under a directory.
type Store struct {
	dir string
	now func() time.Time // injectable clock for testing
}

// NewStore creates a Store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, fileName)
}

// Load returns the last-run timestamp. ok is false when no checkpoint
// exists or the file is malformed; both mean "process all seats".
func (s *Store) Load() (last time.Time, ok bool) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return time.Time{}, false
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil || rec.LastRun.IsZero() {
		return time.Time{}, false
	}

	return rec.LastRun, true
}

// Save writes the current time as the new checkpoint, creating the
// directory if needed, and returns the timestamp written.
func (s *Store) Save() (time.Time, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return time.Time{}, err
	}

	now := s.now().UTC()
	rec := Record{LastRun: now, SavedAt: now}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return time.Time{}, err
	}

	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return time.Time{}, err
	}
	return now, nil
}
