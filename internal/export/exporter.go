// Package export renders a [report.Document] into a downloadable format.
// The assembler produces the document structure; exporters only lay it out.
package export

import (
	"fmt"
	"io"

	"github.com/ananyasolanki1/talklift/internal/report"
)

// Exporter renders one report document to a writer.
type Exporter interface {
	Export(doc report.Document, w io.Writer) error

	// Extension is the file extension for the format, without the dot.
	Extension() string

	// ContentType is the MIME type served for downloads of this format.
	ContentType() string
}

// New returns the exporter for format. Supported formats: "md" (alias
// "markdown") and "json".
func New(format string) (Exporter, error) {
	switch format {
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("export: unsupported format %q (supported: md, json)", format)
	}
}
