// Package postgres provides the PostgreSQL-backed remote history store. Rows
// are owned per user, ordered newest-first by creation time, and identified
// by UUID ids assigned client-side on insert.
//
// Usage:
//
//	store, err := postgres.New(ctx, dsn)
//	if err != nil { … }
//	defer store.Close()
//
//	recs, _ := store.List(ctx, userID)
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ananyasolanki1/talklift/internal/history"
)

// Compile-time interface check.
var _ history.RemoteStore = (*Store)(nil)

const ddlHistory = `
CREATE TABLE IF NOT EXISTS history (
    id                   UUID         PRIMARY KEY,
    user_id              TEXT         NOT NULL,
    created_at           TIMESTAMPTZ  NOT NULL DEFAULT now(),
    original_text        TEXT         NOT NULL,
    grammar_version      TEXT,
    professional_version TEXT,
    casual_version       TEXT
);

CREATE INDEX IF NOT EXISTS idx_history_user_created
    ON history (user_id, created_at DESC);`

// Store is a [history.RemoteStore] backed by a single [pgxpool.Pool].
// All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// New establishes a connection pool to the database at dsn, verifies it with
// a ping, and ensures the history schema exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("history store: parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("history store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("history store: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, ddlHistory); err != nil {
		pool.Close()
		return nil, fmt.Errorf("history store: ensure schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// List implements [history.RemoteStore]. Records are returned newest first;
// that order is what the merged history view presents unchanged.
func (s *Store) List(ctx context.Context, userID string) ([]history.Record, error) {
	const q = `
		SELECT id, created_at, original_text, grammar_version, professional_version, casual_version
		FROM   history
		WHERE  user_id = $1
		ORDER  BY created_at DESC`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("history store: list: %w", err)
	}
	defer rows.Close()

	var recs []history.Record
	for rows.Next() {
		var (
			rec                        history.Record
			grammar, professional, csl *string
		)
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.OriginalText, &grammar, &professional, &csl); err != nil {
			return nil, fmt.Errorf("history store: scan row: %w", err)
		}
		rec.Provenance = history.ProvenanceRemote
		rec.GrammarVersion = deref(grammar)
		rec.ProfessionalVersion = deref(professional)
		rec.CasualVersion = deref(csl)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history store: list rows: %w", err)
	}
	return recs, nil
}

// Insert implements [history.RemoteStore]. The id is generated here rather
// than by the database so the caller sees it without a round trip.
func (s *Store) Insert(ctx context.Context, userID string, rec history.Record) (history.Record, error) {
	const q = `
		INSERT INTO history
		    (id, user_id, original_text, grammar_version, professional_version, casual_version)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	rec.ID = uuid.NewString()
	rec.Provenance = history.ProvenanceRemote

	err := s.pool.QueryRow(ctx, q,
		rec.ID,
		userID,
		rec.OriginalText,
		nullable(rec.GrammarVersion),
		nullable(rec.ProfessionalVersion),
		nullable(rec.CasualVersion),
	).Scan(&rec.CreatedAt)
	if err != nil {
		return history.Record{}, fmt.Errorf("history store: insert: %w", err)
	}
	return rec, nil
}

// Delete implements [history.RemoteStore]. Deleting an id that does not
// exist, or that is not a valid UUID, is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM history WHERE id = $1`, id); err != nil {
		return fmt.Errorf("history store: delete: %w", err)
	}
	return nil
}

// Purge removes every row from the history table. Intended for tests and
// operational resets.
func (s *Store) Purge(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE history`); err != nil {
		return fmt.Errorf("history store: purge: %w", err)
	}
	return nil
}

// Ping verifies database connectivity. Used as a readiness check.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("history store: ping: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// nullable maps the empty string to SQL NULL so absent versions do not round
// trip as empty text.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
