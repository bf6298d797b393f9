// Package state persists reading positions across runs: a single JSON
// object mapping canonical document paths to token indices. Every
// operation degrades gracefully: a missing or corrupt store reads as
// empty, and a failed write loses progress rather than crashing.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const storeFileName = "progress.json"

// Entry is one saved reading position.
type Entry struct {
	Path       string
	TokenIndex int
}

// Store manages the persistent position map. Safe for concurrent use;
// writes are last-writer-wins.
type Store struct {
	path string
	data map[string]int
	mu   sync.RWMutex
}

// NewStore opens or creates the store under XDG_STATE_HOME/riffle
// (~/.local/state/riffle by default).
func NewStore() *Store {
	dir := stateDir()
	// Best effort; a read-only filesystem just means progress is not kept.
	_ = os.MkdirAll(dir, 0755)

	s := &Store{
		path: filepath.Join(dir, storeFileName),
		data: make(map[string]int),
	}
	s.load()
	return s
}

// stateDir returns XDG_STATE_HOME/riffle or ~/.local/state/riffle
func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "riffle")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "riffle")
}

// Normalize canonicalizes a document path so the same file opened through
// different relative paths or symlinks maps to one record.
func Normalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// Load returns the saved token index for path, or 0 if none is recorded.
func (s *Store) Load(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[Normalize(path)]
}

// Save records the token index for path, overwriting any previous entry.
// Write failures are absorbed.
func (s *Store) Save(path string, tokenIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[Normalize(path)] = tokenIndex
	s.write()
}

// Recent returns up to n entries ordered by descending token index.
func (s *Store) Recent(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.data))
	for path, idx := range s.data {
		entries = append(entries, Entry{Path: path, TokenIndex: idx})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TokenIndex > entries[j].TokenIndex
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Clear removes the entry for path.
func (s *Store) Clear(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, Normalize(path))
	s.write()
}

// ClearAll removes every entry.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]int)
	s.write()
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		// Corrupt store reads as empty and is replaced on the next save.
		return
	}
	s.data = m
}

// write persists the map via a temp file and rename so a concurrent
// reader never sees a partially written store.
func (s *Store) write() {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), storeFileName+".tmp-*")
	if err != nil {
		return
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
	}
}
