package history

import "time"

// The same logical record exists in two serialized shapes: the remote store
// names fields in snake_case (original_text), the local store in camelCase
// (originalText). Historic local payloads may even carry both namings on one
// object because remote rows were once cached locally. The accessors below
// apply one rule everywhere: the remote naming wins when both are present.

// RemoteRecord is the remote store's row shape.
type RemoteRecord struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	OriginalText        string    `json:"original_text"`
	GrammarVersion      string    `json:"grammar_version,omitempty"`
	ProfessionalVersion string    `json:"professional_version,omitempty"`
	CasualVersion       string    `json:"casual_version,omitempty"`
}

// Record converts the remote shape to the canonical record.
func (rr RemoteRecord) Record() Record {
	return Record{
		ID:                  rr.ID,
		Provenance:          ProvenanceRemote,
		CreatedAt:           rr.CreatedAt,
		OriginalText:        rr.OriginalText,
		GrammarVersion:      rr.GrammarVersion,
		ProfessionalVersion: rr.ProfessionalVersion,
		CasualVersion:       rr.CasualVersion,
	}
}

// RemoteShape converts a canonical record to the remote row shape.
func RemoteShape(r Record, userID string) RemoteRecord {
	return RemoteRecord{
		ID:                  r.ID,
		UserID:              userID,
		CreatedAt:           r.CreatedAt,
		OriginalText:        r.OriginalText,
		GrammarVersion:      r.GrammarVersion,
		ProfessionalVersion: r.ProfessionalVersion,
		CasualVersion:       r.CasualVersion,
	}
}

// LocalRecord is the local store's serialized shape. The snake_case fields
// mirror [RemoteRecord] and exist so legacy payloads that cached remote rows
// locally still decode; they are never written by this codebase.
type LocalRecord struct {
	ID         string     `json:"id"`
	Provenance Provenance `json:"provenance,omitempty"`

	Date                time.Time `json:"date,omitzero"`
	OriginalText        string    `json:"originalText,omitempty"`
	GrammarVersion      string    `json:"grammarVersion,omitempty"`
	ProfessionalVersion string    `json:"professionalVersion,omitempty"`
	CasualVersion       string    `json:"casualVersion,omitempty"`

	// Legacy remote-shaped duplicates.
	LegacyCreatedAt           time.Time `json:"created_at,omitzero"`
	LegacyOriginalText        string    `json:"original_text,omitempty"`
	LegacyGrammarVersion      string    `json:"grammar_version,omitempty"`
	LegacyProfessionalVersion string    `json:"professional_version,omitempty"`
	LegacyCasualVersion       string    `json:"casual_version,omitempty"`
}

// Record converts the local shape to the canonical record, preferring the
// remote naming for each logical field when both are populated.
func (lr LocalRecord) Record() Record {
	r := Record{
		ID:                  lr.ID,
		Provenance:          lr.Provenance,
		CreatedAt:           lr.Date,
		OriginalText:        pick(lr.LegacyOriginalText, lr.OriginalText),
		GrammarVersion:      pick(lr.LegacyGrammarVersion, lr.GrammarVersion),
		ProfessionalVersion: pick(lr.LegacyProfessionalVersion, lr.ProfessionalVersion),
		CasualVersion:       pick(lr.LegacyCasualVersion, lr.CasualVersion),
	}
	if !lr.LegacyCreatedAt.IsZero() {
		r.CreatedAt = lr.LegacyCreatedAt
	}
	return r
}

// LocalShape converts a canonical record to the shape persisted in the local
// store. Only the camelCase naming is written.
func LocalShape(r Record) LocalRecord {
	return LocalRecord{
		ID:                  r.ID,
		Provenance:          r.Origin(),
		Date:                r.CreatedAt,
		OriginalText:        r.OriginalText,
		GrammarVersion:      r.GrammarVersion,
		ProfessionalVersion: r.ProfessionalVersion,
		CasualVersion:       r.CasualVersion,
	}
}

// pick returns remote when non-empty, otherwise local.
func pick(remote, local string) string {
	if remote != "" {
		return remote
	}
	return local
}
