package export_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ananyasolanki1/talklift/internal/export"
	"github.com/ananyasolanki1/talklift/internal/reconcile"
	"github.com/ananyasolanki1/talklift/internal/report"
)

func sampleDoc() report.Document {
	prof := "I returned to my residence."
	return report.Assemble(
		"I goed home",
		&report.GrammarSection{
			CorrectedText: "I went home",
			Mistakes: []reconcile.Edit{
				{Original: "goed", Correction: "went", Explanation: "irregular verb"},
			},
		},
		&prof,
		nil,
		time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC),
	)
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"md", "markdown", "json"} {
		if _, err := export.New(format); err != nil {
			t.Errorf("New(%q) error: %v", format, err)
		}
	}
	if _, err := export.New("pdf"); err == nil {
		t.Error("New(pdf) succeeded, want unsupported-format error")
	}
}

func TestMarkdownExporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := &export.MarkdownExporter{}
	if err := e.Export(sampleDoc(), &buf); err != nil {
		t.Fatalf("Export error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# TalkLift Session Report",
		"2nd Mar 2026",
		"## Original",
		"## Grammar Correction",
		"## Professional Tone",
		"~~goed~~ → **went**",
		"irregular verb",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "## Casual Tone") {
		t.Error("markdown output contains Casual section for absent data")
	}

	// Section order must be preserved: Original before Grammar before Professional.
	if !(strings.Index(out, "## Original") < strings.Index(out, "## Grammar Correction") &&
		strings.Index(out, "## Grammar Correction") < strings.Index(out, "## Professional Tone")) {
		t.Error("markdown sections out of order")
	}

	if e.Extension() != "md" {
		t.Errorf("Extension = %q", e.Extension())
	}
}

// flakyWriter accepts a fixed number of writes, then fails.
type flakyWriter struct {
	remaining int
}

func (fw *flakyWriter) Write(p []byte) (int, error) {
	if fw.remaining <= 0 {
		return 0, errors.New("disk full")
	}
	fw.remaining--
	return len(p), nil
}

func TestMarkdownExporter_ReportsMidDocumentWriteError(t *testing.T) {
	t.Parallel()

	e := &export.MarkdownExporter{}

	// The title write succeeds; a later section write fails and must surface.
	err := e.Export(sampleDoc(), &flakyWriter{remaining: 2})
	if err == nil {
		t.Fatal("Export with failing writer succeeded, want error")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error = %v, want wrapped writer error", err)
	}

	if err := e.Export(sampleDoc(), &flakyWriter{remaining: 0}); err == nil {
		t.Error("Export with immediately failing writer succeeded, want error")
	}
}

func TestJSONExporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := &export.JSONExporter{}
	if err := e.Export(sampleDoc(), &buf); err != nil {
		t.Fatalf("Export error: %v", err)
	}

	var decoded struct {
		Title    string `json:"title"`
		Sections []struct {
			Title    string           `json:"title"`
			Mistakes []reconcile.Edit `json:"mistakes"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Title != "TalkLift Session Report" {
		t.Errorf("title = %q", decoded.Title)
	}
	if len(decoded.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(decoded.Sections))
	}
	if len(decoded.Sections[1].Mistakes) != 1 {
		t.Errorf("grammar mistakes = %+v", decoded.Sections[1].Mistakes)
	}
	if e.ContentType() != "application/json" {
		t.Errorf("ContentType = %q", e.ContentType())
	}
}
