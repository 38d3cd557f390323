// Package thread assembles a summary into a numbered, decorated thread.
// Post 1 is always the hook; posts 2..N carry the summary split into
// balanced segments.
package thread

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/threadpipe/core"
	"github.com/gaurav-prasanna/threadpipe/core/chunk"
)

const (
	MinPosts     = 3
	MaxPosts     = 20
	DefaultPosts = 10

	// MaxPostChars is the length a single post should stay under.
	MaxPostChars = 280

	// maxHookClause bounds the clause lifted from the first segment when
	// there is no title.
	maxHookClause = 120

	// filler is the body of trailing posts when the summary has fewer words
	// than there are posts to fill.
	filler = "…"
)

// DefaultPalette is the symbol cycle used when none is configured.
var DefaultPalette = []string{"🚀", "💡", "📌", "🔍", "🔥", "📘", "✅", "🌟", "🎯", "🧠"}

// ValidatePostCount checks that n is within [MinPosts, MaxPosts].
func ValidatePostCount(n int) error {
	if n < MinPosts || n > MaxPosts {
		return &core.InvalidInputError{
			Field:  "post count",
			Reason: fmt.Sprintf("%d is outside [%d,%d]", n, MinPosts, MaxPosts),
		}
	}
	return nil
}

// ValidatePalette rejects an empty palette or one with blank symbols.
func ValidatePalette(palette []string) error {
	if len(palette) == 0 {
		return &core.ConfigurationError{Reason: "symbol palette is empty"}
	}
	for i, s := range palette {
		if strings.TrimSpace(s) == "" {
			return &core.ConfigurationError{Reason: fmt.Sprintf("symbol palette entry %d is blank", i)}
		}
	}
	return nil
}

// Symbol returns the palette entry for a 1-based post index.
func Symbol(index int, palette []string) string {
	return palette[(index-1)%len(palette)]
}

// Assemble builds a thread of exactly postCount posts from summary.
// title, when non-empty, feeds the hook; otherwise the hook is built from
// the leading clause of the first segment.
func Assemble(summary core.Summary, title string, postCount int, palette []string) (core.Thread, error) {
	if err := ValidatePostCount(postCount); err != nil {
		return nil, err
	}
	if err := ValidatePalette(palette); err != nil {
		return nil, err
	}
	text := chunk.CollapseSpace(summary.Text)
	if text == "" {
		return nil, &core.InvalidInputError{Field: "summary", Reason: "empty text"}
	}

	bodies := chunk.Segment(text, postCount-1)
	for len(bodies) < postCount-1 {
		bodies = append(bodies, filler)
	}

	posts := make(core.Thread, 0, postCount)
	posts = append(posts, core.ThreadPost{
		Index:  1,
		Total:  postCount,
		Symbol: Symbol(1, palette),
		Body:   Hook(title, bodies[0], postCount),
		IsHook: true,
	})
	for i, body := range bodies {
		index := i + 2
		posts = append(posts, core.ThreadPost{
			Index:  index,
			Total:  postCount,
			Symbol: Symbol(index, palette),
			Body:   body,
		})
	}
	return posts, nil
}

// Hook writes the opening post. With a title it is a fixed teaser naming
// how many posts follow; it never summarizes the rest of the thread.
func Hook(title, firstSegment string, postCount int) string {
	count := postCount - 1
	if t := chunk.CollapseSpace(title); t != "" {
		return fmt.Sprintf("%d things about %s, a thread:", count, t)
	}
	return fmt.Sprintf("%s… a thread in %d parts:", leadingClause(firstSegment), count)
}

// leadingClause returns the first segment up to its first clause break,
// without trailing punctuation, shortened to maxHookClause on a word
// boundary.
func leadingClause(segment string) string {
	clause := chunk.CollapseSpace(segment)
	if sentences := chunk.Sentences(clause); len(sentences) > 0 {
		clause = sentences[0]
	}
	if i := strings.IndexAny(clause, ",;:"); i > 0 {
		clause = clause[:i]
	}
	if i := strings.Index(clause, " - "); i > 0 {
		clause = clause[:i]
	}
	if chunk.Len(clause) > maxHookClause {
		words := chunk.Words(clause)
		var b []string
		n := 0
		for _, w := range words {
			if n+chunk.Len(w)+1 > maxHookClause && len(b) > 0 {
				break
			}
			b = append(b, w)
			n += chunk.Len(w) + 1
		}
		clause = strings.Join(b, " ")
	}
	clause = strings.TrimRight(clause, ".!?…\"') ")
	if clause == "" {
		return filler
	}
	return clause
}
