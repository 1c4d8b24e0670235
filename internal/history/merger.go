package history

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// RemoteStore is the authenticated, queryable record collection. The remote
// store orders its results by creation time descending and assigns UUID ids
// on insert.
type RemoteStore interface {
	// List returns all records for userID, newest first.
	List(ctx context.Context, userID string) ([]Record, error)

	// Insert persists rec for userID and returns it with the assigned id.
	Insert(ctx context.Context, userID string, rec Record) (Record, error)

	// Delete removes the record with the given id. Deleting an absent
	// record is not an error.
	Delete(ctx context.Context, id string) error
}

// LocalStore is the unauthenticated fallback store: one ordered list
// persisted as a single serialized value, readable and overwritable in one
// operation.
type LocalStore interface {
	// List returns the stored records in stored order.
	List(ctx context.Context) ([]Record, error)

	// Replace overwrites the entire stored list.
	Replace(ctx context.Context, recs []Record) error

	// Append adds rec to the end of the stored list, assigning an id when
	// rec has none, and returns the stored record.
	Append(ctx context.Context, rec Record) (Record, error)
}

// Merger composes the two stores into one history view and routes mutations
// to the correct store by record provenance. Safe for concurrent use; it
// holds no state between calls.
type Merger struct {
	remote RemoteStore // nil when no remote backend is configured
	local  LocalStore
}

// NewMerger returns a Merger over the given stores. remote may be nil, in
// which case every view is local-only.
func NewMerger(remote RemoteStore, local LocalStore) *Merger {
	return &Merger{remote: remote, local: local}
}

// Load returns the merged history view: all remote records (store-native
// order, newest first) followed by all local records (stored order). No
// cross-source re-sorting or dedup is performed.
//
// The remote read is best-effort: without an authenticated user it is
// skipped, and when it fails the error is logged and the view degrades to
// local-only. The two reads are issued concurrently. A local read failure is
// returned, since the local store is the availability floor.
func (m *Merger) Load(ctx context.Context, auth AuthContext) ([]Record, error) {
	var (
		remote []Record
		local  []Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if m.remote == nil || !auth.Authenticated() {
			return nil
		}
		recs, err := m.remote.List(gctx, auth.UserID)
		if err != nil {
			// Degrade to local-only rather than failing the whole view.
			slog.Warn("history: remote load failed, showing local only", "err", err)
			return nil
		}
		remote = recs
		return nil
	})
	g.Go(func() error {
		recs, err := m.local.List(gctx)
		if err != nil {
			return fmt.Errorf("history: local load: %w", err)
		}
		local = recs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := make([]Record, 0, len(remote)+len(local))
	view = append(view, remote...)
	view = append(view, local...)
	return view, nil
}

// Save persists rec to the remote store for the authenticated user. It
// short-circuits with [ErrAuthRequired] before any store mutation when no
// user session is present; the caller is expected to request authentication
// (or fall back to [Merger.SaveLocal]).
func (m *Merger) Save(ctx context.Context, auth AuthContext, rec Record) (Record, error) {
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	if !auth.Authenticated() || m.remote == nil {
		return Record{}, ErrAuthRequired
	}
	saved, err := m.remote.Insert(ctx, auth.UserID, rec)
	if err != nil {
		return Record{}, fmt.Errorf("history: remote save: %w", err)
	}
	return saved, nil
}

// SaveLocal persists rec to the local fallback store.
func (m *Merger) SaveLocal(ctx context.Context, rec Record) (Record, error) {
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	saved, err := m.local.Append(ctx, rec)
	if err != nil {
		return Record{}, fmt.Errorf("history: local save: %w", err)
	}
	return saved, nil
}

// Delete removes the record with the given id, routing by provenance:
//
//   - A remote-classified id is deleted against the remote store first. A
//     remote failure is logged and otherwise ignored — the caller's view
//     reflects the removal regardless, an accepted divergence until the next
//     successful load.
//   - The local list is then rewritten to keep only local-classified records
//     other than id. For a remote id this rewrite is a no-op by construction
//     (remote ids are never present in local storage); for a local id it is
//     exactly the removal.
//
// Deleting an id that exists nowhere is a no-op, which makes racing deletes
// idempotent.
func (m *Merger) Delete(ctx context.Context, id string) error {
	if ClassifyID(id) == ProvenanceRemote && m.remote != nil {
		if err := m.remote.Delete(ctx, id); err != nil {
			slog.Warn("history: remote delete failed, local view still updated",
				"id", id, "err", err)
		}
	}

	recs, err := m.local.List(ctx)
	if err != nil {
		return fmt.Errorf("history: local load for delete: %w", err)
	}
	kept := make([]Record, 0, len(recs))
	for _, r := range recs {
		// The rewrite keeps only local-classified ids: legacy payloads may
		// carry cached remote rows, which must never survive a rewrite.
		if ClassifyID(r.ID) != ProvenanceLocal || r.ID == id {
			continue
		}
		kept = append(kept, r)
	}
	if err := m.local.Replace(ctx, kept); err != nil {
		return fmt.Errorf("history: local rewrite: %w", err)
	}
	return nil
}
