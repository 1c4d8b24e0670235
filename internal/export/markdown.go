package export

import (
	"fmt"
	"io"

	"github.com/ananyasolanki1/talklift/internal/report"
)

// MarkdownExporter renders a report document as Markdown with an A4-style
// page convention: each section starts on its own page (horizontal rule).
type MarkdownExporter struct{}

// Extension implements [Exporter].
func (e *MarkdownExporter) Extension() string { return "md" }

// ContentType implements [Exporter].
func (e *MarkdownExporter) ContentType() string { return "text/markdown; charset=utf-8" }

// Export implements [Exporter]. The first write error aborts the render and
// is returned; later writes become no-ops.
func (e *MarkdownExporter) Export(doc report.Document, w io.Writer) error {
	dw := &docWriter{w: w}

	dw.printf("# %s\n\n", doc.Title)
	dw.printf("**Date:** %s\n\n", report.FormatPrettyDate(doc.Date))

	for i, sec := range doc.Sections {
		if i > 0 {
			// Page break between sections.
			dw.printf("\n---\n\n")
		}
		dw.printf("## %s\n\n", sec.Title)
		if sec.Body != "" {
			dw.printf("%s\n", sec.Body)
		}
		for _, m := range sec.Mistakes {
			dw.printf("\n- ~~%s~~ → **%s**\n  %s\n", m.Original, m.Correction, m.Explanation)
		}
	}
	dw.printf("\n")

	if dw.err != nil {
		return fmt.Errorf("export: write markdown: %w", dw.err)
	}
	return nil
}

// docWriter wraps an io.Writer and remembers the first write error, so a
// sequence of formatted writes needs only one check at the end.
type docWriter struct {
	w   io.Writer
	err error
}

func (dw *docWriter) printf(format string, args ...any) {
	if dw.err != nil {
		return
	}
	_, dw.err = fmt.Fprintf(dw.w, format, args...)
}
