// Package history persists the recent-files list.
package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Entry is one remembered file.
type Entry struct {
	Path     string    `json:"path"`
	OpenedAt time.Time `json:"opened_at"`
}

// Store reads and writes the history file. The list is most recent
// first, deduplicated by path, and capped at max entries.
type Store struct {
	path string
	max  int
}

// New creates a store writing to path, keeping at most max entries.
func New(path string, max int) *Store {
	if max <= 0 {
		max = 20
	}
	return &Store{path: path, max: max}
}

// List returns the remembered entries, most recent first. A missing
// history file is an empty list, not an error.
func (s *Store) List() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Add records that path was opened now, moving it to the front if it
// was already present.
func (s *Store) Add(path string) error {
	entries, err := s.List()
	if err != nil {
		// A corrupt history file should not block opening files; start
		// over.
		entries = nil
	}
	out := []Entry{{Path: path, OpenedAt: time.Now()}}
	for _, e := range entries {
		if e.Path == path {
			continue
		}
		out = append(out, e)
		if len(out) == s.max {
			break
		}
	}
	return s.write(out)
}

// Clear removes all history.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *Store) write(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
