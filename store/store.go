// Package store persists named JSON documents on disk. Each document gets a
// writer lock so concurrent read-modify-write cycles on the same document
// cannot lose updates; writes go through a temp file and rename so a crash
// never leaves a half-written document behind.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Get when the document does not exist yet.
var ErrNotFound = errors.New("store: document not found")

type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Get unmarshals the named document into v.
func (s *Store) Get(name string, v interface{}) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read document %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", name, err)
	}
	return nil
}

// Put writes the named document atomically.
func (s *Store) Put(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", name, err)
	}
	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("failed to replace document %s: %w", name, err)
	}
	return nil
}

// Delete removes the named document. Deleting a missing document is not an
// error.
func (s *Store) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document %s: %w", name, err)
	}
	return nil
}

// WithLock serializes read-modify-write cycles on the named document.
// fn runs while the document's writer lock is held.
func (s *Store) WithLock(name string, fn func() error) error {
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()
	return fn()
}
