// Package render — Markdown renderer.
// Adds a title header and a source line above the posts, which are written
// as paragraphs in the same "{symbol} {index}/{total} {body}" form.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/threadpipe/core"
)

// MarkdownRenderer renders a thread as a Markdown document.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the Markdown document as bytes.
func (r *MarkdownRenderer) Render(thread core.Thread, meta core.ThreadMeta) ([]byte, error) {
	var b strings.Builder
	title := meta.Title
	if title == "" {
		title = meta.URL
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "_Source: <%s> · extraction: %s · summary: %s_\n\n", meta.URL, meta.ExtractionMethod, meta.SummaryMethod)
	for _, p := range thread {
		fmt.Fprintf(&b, "%s %s %s\n\n", p.Symbol, p.Marker(), escapeMarkdown(p.Body))
	}
	return []byte(strings.TrimRight(b.String(), "\n") + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// orderedListStart matches a body opening with "12." or "3)" followed by
// a space, which Markdown reads as an ordered list item.
var orderedListStart = regexp.MustCompile(`^(\d+)([.)])(\s|$)`)

// escapeMarkdown keeps a body from turning into a heading or list item.
func escapeMarkdown(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '#', '-', '*', '+', '>':
		return `\` + s
	}
	return orderedListStart.ReplaceAllString(s, `$1\$2$3`)
}
