// Package core defines the data model and stage interfaces for threadpipe.
// Each stage of the pipeline consumes the previous stage's immutable value
// and produces a new one: fetch → extract → summarize → assemble → render.
package core

import (
	"context"
	"fmt"
)

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// ExtractionMethod records which level of the extraction fallback chain
// produced a document's body text.
type ExtractionMethod string

const (
	ArticleBody     ExtractionMethod = "article_body"
	MetaDescription ExtractionMethod = "meta_description"
	TitleOnly       ExtractionMethod = "title_only"
)

// SourceDocument is the readable content of a fetched page.
type SourceDocument struct {
	URL     string
	RawHTML string
	// Title is empty when the page has no usable <title>.
	Title    string
	BodyText string
	// Markdown is the article region converted to Markdown. Only set for
	// ArticleBody extractions.
	Markdown         string
	Language         string
	ExtractionMethod ExtractionMethod
}

// SummaryMethod records which summarization strategy produced a Summary.
type SummaryMethod string

const (
	GenerativeModel SummaryMethod = "generative_model"
	Truncation      SummaryMethod = "truncation"
)

// Summary is the condensed text handed to the thread assembler.
type Summary struct {
	Text   string
	Method SummaryMethod
}

// ThreadPost is a single numbered post of a thread.
type ThreadPost struct {
	Index  int    `json:"index"`
	Total  int    `json:"total"`
	Symbol string `json:"symbol"`
	Body   string `json:"body"`
	IsHook bool   `json:"is_hook"`
}

// Marker returns the visible position marker, e.g. "3/10".
func (p ThreadPost) Marker() string {
	return fmt.Sprintf("%d/%d", p.Index, p.Total)
}

// String formats the post as "{symbol} {index}/{total} {body}".
func (p ThreadPost) String() string {
	return fmt.Sprintf("%s %s %s", p.Symbol, p.Marker(), p.Body)
}

// Thread is an ordered sequence of posts; slice order is reading order.
type Thread []ThreadPost

// Hook returns the opening post of the thread.
func (t Thread) Hook() (ThreadPost, bool) {
	if len(t) == 0 {
		return ThreadPost{}, false
	}
	return t[0], t[0].IsHook
}

// ThreadMeta describes where a thread came from. Renderers use it for
// headers and structured output.
type ThreadMeta struct {
	URL              string           `json:"url"`
	Domain           string           `json:"domain"`
	Title            string           `json:"title"`
	Language         string           `json:"language"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
	SummaryMethod    SummaryMethod    `json:"summary_method"`
	GeneratedAt      string           `json:"generated_at"` // ISO8601
}

// ThreadJSON is the complete JSON output for a single thread.
type ThreadJSON struct {
	Metadata ThreadMeta   `json:"metadata"`
	Posts    []ThreadPost `json:"posts"`
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor turns raw HTML into a SourceDocument.
type Extractor interface {
	Extract(rawHTML string, url string) (SourceDocument, error)
}

// Normalizer converts cleaned HTML into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Summarizer condenses a document to at most targetChars characters,
// aiming for the given number of paragraphs.
type Summarizer interface {
	Summarize(ctx context.Context, doc SourceDocument, targetChars int, paragraphs int) (Summary, error)
}

// Renderer converts a thread (and metadata) into a final output format.
type Renderer interface {
	Render(thread Thread, meta ThreadMeta) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".txt", ".pdf").
	Extension() string
}
