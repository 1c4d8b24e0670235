// Package history defines the persisted learning-session record and the
// merger that composes one history view out of two independent stores: a
// remote store (available only with an authenticated user) and a local
// fallback store (always available).
package history

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrAuthRequired is returned by save paths that need an authenticated user
// before any store mutation is attempted.
var ErrAuthRequired = errors.New("history: authentication required")

// Provenance identifies which store a record belongs to.
type Provenance string

const (
	// ProvenanceRemote marks records owned by the remote store.
	ProvenanceRemote Provenance = "remote"

	// ProvenanceLocal marks records owned by the local fallback store.
	ProvenanceLocal Provenance = "local"
)

// IsValid reports whether p is a recognised provenance value.
func (p Provenance) IsValid() bool {
	return p == ProvenanceRemote || p == ProvenanceLocal
}

// ClassifyID derives a record's provenance from its id format: remote ids are
// UUIDs and contain a hyphen, local ids are millisecond timestamps and do not.
//
// This is the legacy signal; records written by this codebase carry an
// explicit [Provenance] field and only fall back to ClassifyID when the field
// is absent (payloads predating it). Delete routing relies on this
// classification, so the local id generator must never produce a hyphen.
func ClassifyID(id string) Provenance {
	if strings.Contains(id, "-") {
		return ProvenanceRemote
	}
	return ProvenanceLocal
}

// AuthContext carries the authenticated principal for remote-store access.
// The zero value means "no user session": remote reads are skipped and remote
// saves are rejected. It is passed explicitly rather than looked up ambiently
// so the merger stays testable without a live backend.
type AuthContext struct {
	// UserID is the remote store's principal identifier.
	UserID string
}

// Authenticated reports whether a user session is present.
func (a AuthContext) Authenticated() bool { return a.UserID != "" }

// Record is the persisted unit of user progress. Records are immutable once
// created: edits require deleting and re-saving.
//
// OriginalText is always present. The three version fields are independent
// optionals; the empty string means that transformation was never produced
// for this session, and an empty string is never persisted.
type Record struct {
	// ID is the store-assigned identifier. Remote ids are UUIDs; local ids
	// are decimal millisecond timestamps.
	ID string

	// Provenance identifies the owning store. May be empty on records read
	// from legacy payloads; use [Record.Origin] instead of reading it directly.
	Provenance Provenance

	// CreatedAt is set once at save time and never changes.
	CreatedAt time.Time

	OriginalText        string
	GrammarVersion      string
	ProfessionalVersion string
	CasualVersion       string
}

// Origin returns the record's provenance, falling back to id classification
// when the explicit field is absent.
func (r Record) Origin() Provenance {
	if r.Provenance.IsValid() {
		return r.Provenance
	}
	return ClassifyID(r.ID)
}

// Validate checks the invariants a record must satisfy before it is saved.
func (r Record) Validate() error {
	if strings.TrimSpace(r.OriginalText) == "" {
		return fmt.Errorf("history: record requires non-empty original text")
	}
	return nil
}
