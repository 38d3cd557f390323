package summarize

import (
	"strings"

	"github.com/gaurav-prasanna/threadpipe/core/chunk"
)

// Truncate condenses text to at most targetChars characters by keeping
// whole leading sentences. When the first sentence alone is too long it is
// cut at the last word boundary that fits; a single word longer than
// targetChars is cut hard. The result is deterministic.
func Truncate(text string, targetChars int) string {
	if targetChars <= 0 {
		return ""
	}
	sentences := chunk.Sentences(text)
	if len(sentences) == 0 {
		return ""
	}

	kept := make([]string, 0, len(sentences))
	n := 0
	for _, s := range sentences {
		add := chunk.Len(s)
		if len(kept) > 0 {
			add++
		}
		if n+add > targetChars {
			break
		}
		kept = append(kept, s)
		n += add
	}
	if len(kept) > 0 {
		return strings.Join(kept, " ")
	}
	return cutAtWord(sentences[0], targetChars)
}

func cutAtWord(sentence string, targetChars int) string {
	words := chunk.Words(sentence)
	kept := make([]string, 0, len(words))
	n := 0
	for _, w := range words {
		add := chunk.Len(w)
		if len(kept) > 0 {
			add++
		}
		if n+add > targetChars {
			break
		}
		kept = append(kept, w)
		n += add
	}
	if len(kept) > 0 {
		return strings.Join(kept, " ")
	}
	return string([]rune(words[0])[:targetChars])
}
