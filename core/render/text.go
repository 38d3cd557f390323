package render

import (
	"strings"

	"github.com/gaurav-prasanna/threadpipe/core"
)

// TextRenderer writes one "{symbol} {index}/{total} {body}" block per post,
// separated by blank lines.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render formats the posts in order.
func (r *TextRenderer) Render(thread core.Thread, meta core.ThreadMeta) ([]byte, error) {
	blocks := make([]string, len(thread))
	for i, p := range thread {
		blocks[i] = p.String()
	}
	return []byte(strings.Join(blocks, "\n\n") + "\n"), nil
}

// Extension returns the file extension for text output.
func (r *TextRenderer) Extension() string {
	return ".txt"
}
