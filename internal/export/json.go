package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ananyasolanki1/talklift/internal/reconcile"
	"github.com/ananyasolanki1/talklift/internal/report"
)

// JSONExporter renders a report document as indented JSON.
type JSONExporter struct{}

// Extension implements [Exporter].
func (e *JSONExporter) Extension() string { return "json" }

// ContentType implements [Exporter].
func (e *JSONExporter) ContentType() string { return "application/json" }

// jsonDocument is the wire shape of an exported document. Kept separate from
// report.Document so the export format can stay stable if the internal value
// grows fields.
type jsonDocument struct {
	Title    string        `json:"title"`
	Date     time.Time     `json:"date"`
	Sections []jsonSection `json:"sections"`
}

type jsonSection struct {
	Title    string           `json:"title"`
	Body     string           `json:"body"`
	Mistakes []reconcile.Edit `json:"mistakes,omitempty"`
}

// Export implements [Exporter].
func (e *JSONExporter) Export(doc report.Document, w io.Writer) error {
	out := jsonDocument{
		Title:    doc.Title,
		Date:     doc.Date,
		Sections: make([]jsonSection, 0, len(doc.Sections)),
	}
	for _, sec := range doc.Sections {
		out.Sections = append(out.Sections, jsonSection{
			Title:    sec.Title,
			Body:     sec.Body,
			Mistakes: sec.Mistakes,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	return nil
}
