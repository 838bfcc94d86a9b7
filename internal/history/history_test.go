package history

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T, max int) *Store {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "history.json"), max)
}

func paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestListMissingFile(t *testing.T) {
	s := newTestStore(t, 5)
	entries, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() = %v, want empty", entries)
	}
}

func TestAddOrdering(t *testing.T) {
	s := newTestStore(t, 5)
	for _, p := range []string{"a.nc", "b.nc", "c.nc"} {
		if err := s.Add(p); err != nil {
			t.Fatalf("Add(%q) error = %v", p, err)
		}
	}
	entries, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	got := paths(entries)
	want := []string{"c.nc", "b.nc", "a.nc"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAddDeduplicates(t *testing.T) {
	s := newTestStore(t, 5)
	for _, p := range []string{"a.nc", "b.nc", "a.nc"} {
		if err := s.Add(p); err != nil {
			t.Fatalf("Add(%q) error = %v", p, err)
		}
	}
	entries, _ := s.List()
	got := paths(entries)
	if len(got) != 2 || got[0] != "a.nc" || got[1] != "b.nc" {
		t.Errorf("List() = %v, want [a.nc b.nc]", got)
	}
}

func TestAddCapsLength(t *testing.T) {
	s := newTestStore(t, 3)
	for _, p := range []string{"a", "b", "c", "d", "e"} {
		if err := s.Add(p); err != nil {
			t.Fatalf("Add(%q) error = %v", p, err)
		}
	}
	entries, _ := s.List()
	got := paths(entries)
	want := []string{"e", "d", "c"}
	if len(got) != 3 {
		t.Fatalf("List() returned %d entries, want 3", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAddRecoversFromCorruptFile(t *testing.T) {
	s := newTestStore(t, 5)
	if err := os.WriteFile(s.path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Add("a.nc"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	entries, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "a.nc" {
		t.Errorf("List() = %v, want single a.nc", entries)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t, 5)
	if err := s.Add("a.nc"); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	entries, err := s.List()
	if err != nil {
		t.Fatalf("List() after Clear error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() after Clear = %v, want empty", entries)
	}
	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}
