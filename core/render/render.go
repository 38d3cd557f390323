// Package render provides output renderers for threads.
// Every renderer lays posts out in reading order; text is the default and
// is what the console shows.
package render

import (
	"strings"

	"github.com/gaurav-prasanna/threadpipe/core"
)

// Formats lists the accepted --format values.
var Formats = []string{"text", "markdown", "json", "pdf"}

// New creates the renderer for format.
func New(format string) (core.Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt":
		return NewTextRenderer(), nil
	case "markdown", "md":
		return NewMarkdownRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "pdf":
		return NewPDFRenderer(), nil
	default:
		return nil, &core.InvalidInputError{
			Field:  "format",
			Reason: format + " is not one of " + strings.Join(Formats, ", "),
		}
	}
}

// IsBinary reports whether r produces output unfit for a terminal.
func IsBinary(r core.Renderer) bool {
	_, ok := r.(*PDFRenderer)
	return ok
}
