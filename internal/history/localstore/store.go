// Package localstore persists the local history list as one JSON document in
// a single file: the whole list is read, replaced, and rewritten in one
// operation, never partially updated. It is the always-available fallback for
// users without an authenticated session.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/ananyasolanki1/talklift/internal/history"
)

// Compile-time interface check.
var _ history.LocalStore = (*Store)(nil)

// DefaultFileName is the well-known key the history list is stored under.
const DefaultFileName = "eng_improve_history.json"

// Store is a file-backed [history.LocalStore]. Thread-safe for concurrent use
// within one process; the file is rewritten whole on every mutation.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// Option is a functional option for [New].
type Option func(*Store)

// WithClock overrides the clock used for id and timestamp assignment.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store backed by the file at path. The file is created on
// first write; a missing file reads as an empty list.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// List implements [history.LocalStore]. Records are returned in stored order.
func (s *Store) List(_ context.Context) ([]history.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Replace implements [history.LocalStore]. The entire stored list is
// overwritten with recs in one write.
func (s *Store) Replace(_ context.Context, recs []history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(recs)
}

// Append implements [history.LocalStore]. When rec has no id, a millisecond
// timestamp id is assigned; such ids never contain a hyphen, which is what
// keeps delete routing sound.
func (s *Store) Append(_ context.Context, rec history.Record) (history.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readLocked()
	if err != nil {
		return history.Record{}, err
	}

	now := s.now().UTC()
	if rec.ID == "" {
		rec.ID = strconv.FormatInt(now.UnixMilli(), 10)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.Provenance = history.ProvenanceLocal

	if err := s.writeLocked(append(recs, rec)); err != nil {
		return history.Record{}, err
	}
	return rec, nil
}

// Ping reports whether the store's directory is writable. Used as a
// readiness check.
func (s *Store) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("localstore: stat %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("localstore: %q is not a directory", dir)
	}
	return nil
}

func (s *Store) readLocked() ([]history.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []history.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localstore: read %q: %w", s.path, err)
	}
	if len(data) == 0 {
		return []history.Record{}, nil
	}

	var stored []history.LocalRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("localstore: decode %q: %w", s.path, err)
	}
	recs := make([]history.Record, 0, len(stored))
	for _, lr := range stored {
		recs = append(recs, lr.Record())
	}
	return recs, nil
}

func (s *Store) writeLocked(recs []history.Record) error {
	stored := make([]history.LocalRecord, 0, len(recs))
	for _, r := range recs {
		stored = append(stored, history.LocalShape(r))
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("localstore: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("localstore: write %q: %w", s.path, err)
	}
	return nil
}
