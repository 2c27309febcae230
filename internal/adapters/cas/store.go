// Package cas implements the content-addressed cache of extracted dependency names.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/modloader/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.NeededStore = (*Store)(nil)

// entry is the persisted record for one shared object.
type entry struct {
	Fingerprint uint64   `json:"fingerprint"`
	Needed      []string `json:"needed"`
}

// Store implements ports.NeededStore using a flat JSON file.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]entry
	// writeMu serializes snapshots and writes so the last write holds the newest snapshot.
	writeMu sync.Mutex
}

// NewStore creates a new NeededStore backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]entry),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read dependency cache"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal dependency cache"), "path", s.path)
	}

	return nil
}

func (s *Store) save() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	data, err := json.MarshalIndent(s.cache, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, "failed to marshal dependency cache")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for dependency cache")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write dependency cache"), "path", s.path)
	}

	return nil
}

// Get returns the names recorded for path when they were recorded under fingerprint.
func (s *Store) Get(path string, fingerprint uint64) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.cache[path]
	if !ok || e.Fingerprint != fingerprint {
		return nil, false
	}
	return slices.Clone(e.Needed), true
}

// Put records names for path under fingerprint and writes the store to disk.
func (s *Store) Put(path string, fingerprint uint64, names []string) error {
	s.mu.Lock()
	s.cache[path] = entry{Fingerprint: fingerprint, Needed: slices.Clone(names)}
	s.mu.Unlock()

	return s.save()
}
