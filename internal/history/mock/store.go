// Package mock provides in-memory test doubles for the history store
// interfaces. Set Err fields to inject failures; zero values behave as empty
// stores.
package mock

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/ananyasolanki1/talklift/internal/history"
)

// RemoteStore is a mock implementation of [history.RemoteStore].
type RemoteStore struct {
	mu sync.Mutex

	// Records is returned by List, newest first, as stored.
	Records []history.Record

	// ListErr, InsertErr, DeleteErr inject failures into the respective calls.
	ListErr   error
	InsertErr error
	DeleteErr error

	// DeletedIDs records every id passed to Delete.
	DeletedIDs []string

	// nextID is appended to inserted records; defaults to a fixed UUID-ish id.
	NextID string
}

var _ history.RemoteStore = (*RemoteStore)(nil)

// List implements [history.RemoteStore].
func (s *RemoteStore) List(_ context.Context, _ string) ([]history.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]history.Record, len(s.Records))
	copy(out, s.Records)
	return out, nil
}

// Insert implements [history.RemoteStore].
func (s *RemoteStore) Insert(_ context.Context, _ string, rec history.Record) (history.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertErr != nil {
		return history.Record{}, s.InsertErr
	}
	rec.ID = s.NextID
	if rec.ID == "" {
		rec.ID = "00000000-0000-0000-0000-000000000001"
	}
	rec.Provenance = history.ProvenanceRemote
	s.Records = append([]history.Record{rec}, s.Records...)
	return rec, nil
}

// Delete implements [history.RemoteStore].
func (s *RemoteStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeletedIDs = append(s.DeletedIDs, id)
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	kept := s.Records[:0]
	for _, r := range s.Records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.Records = kept
	return nil
}

// LocalStore is a mock implementation of [history.LocalStore].
type LocalStore struct {
	mu sync.Mutex

	// Records is the stored list, in stored order.
	Records []history.Record

	// ListErr, ReplaceErr, AppendErr inject failures.
	ListErr    error
	ReplaceErr error
	AppendErr  error

	// Replaced counts Replace calls.
	Replaced int
}

var _ history.LocalStore = (*LocalStore)(nil)

// List implements [history.LocalStore].
func (s *LocalStore) List(_ context.Context) ([]history.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]history.Record, len(s.Records))
	copy(out, s.Records)
	return out, nil
}

// Replace implements [history.LocalStore].
func (s *LocalStore) Replace(_ context.Context, recs []history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReplaceErr != nil {
		return s.ReplaceErr
	}
	s.Records = make([]history.Record, len(recs))
	copy(s.Records, recs)
	s.Replaced++
	return nil
}

// Append implements [history.LocalStore].
func (s *LocalStore) Append(_ context.Context, rec history.Record) (history.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AppendErr != nil {
		return history.Record{}, s.AppendErr
	}
	if rec.ID == "" {
		rec.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	rec.Provenance = history.ProvenanceLocal
	s.Records = append(s.Records, rec)
	return rec, nil
}
