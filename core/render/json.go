// Package render — JSON renderer.
// Emits the thread metadata and every post as structured JSON.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/threadpipe/core"
)

// JSONRenderer produces structured JSON output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the thread and its metadata.
func (r *JSONRenderer) Render(thread core.Thread, meta core.ThreadMeta) ([]byte, error) {
	out := core.ThreadJSON{
		Metadata: meta,
		Posts:    thread,
	}
	if out.Posts == nil {
		out.Posts = core.Thread{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
