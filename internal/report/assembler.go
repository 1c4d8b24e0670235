// Package report assembles a session's text artifacts into a fixed-layout
// export document. The [Document] is a plain structured value; rendering to a
// concrete file format is the job of the exporters in internal/export.
//
// Assembly is pure: no network, no storage, no clock access beyond the date
// the caller passes in.
package report

import (
	"time"

	"github.com/ananyasolanki1/talklift/internal/reconcile"
)

// Section titles, in the fixed order they appear in a Document.
const (
	TitleOriginal     = "Original"
	TitleGrammar      = "Grammar Correction"
	TitleProfessional = "Professional Tone"
	TitleCasual       = "Casual Tone"
)

// GrammarSection carries the grammar-mode result for a report: the corrected
// text plus the itemised mistakes. Mistakes should already be normalized
// (see [reconcile.Normalize]); the assembler does not filter them again.
type GrammarSection struct {
	CorrectedText string
	Mistakes      []reconcile.Edit
}

// Section is one titled block of a Document. Body holds prose; Mistakes is
// populated only for the grammar section.
type Section struct {
	Title    string
	Body     string
	Mistakes []reconcile.Edit
}

// Document is the exportable report for one session. Sections appear in the
// fixed order Original, Grammar Correction, Professional Tone, Casual Tone;
// optional sections are omitted entirely when their source data is absent.
type Document struct {
	Title    string
	Date     time.Time
	Sections []Section
}

// Assemble builds the report Document for a session. originalText is always
// included; grammar, professional, and casual each contribute a section only
// when non-nil.
func Assemble(originalText string, grammar *GrammarSection, professional, casual *string, date time.Time) Document {
	doc := Document{
		Title: "TalkLift Session Report",
		Date:  date,
		Sections: []Section{
			{Title: TitleOriginal, Body: originalText},
		},
	}

	if grammar != nil {
		doc.Sections = append(doc.Sections, Section{
			Title:    TitleGrammar,
			Body:     grammar.CorrectedText,
			Mistakes: grammar.Mistakes,
		})
	}
	if professional != nil {
		doc.Sections = append(doc.Sections, Section{
			Title: TitleProfessional,
			Body:  *professional,
		})
	}
	if casual != nil {
		doc.Sections = append(doc.Sections, Section{
			Title: TitleCasual,
			Body:  *casual,
		})
	}
	return doc
}
