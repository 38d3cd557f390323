// Package chunk splits text into sentences and words and groups them into
// a fixed number of balanced, order-preserving segments.
//
// Sentence boundaries are ASCII terminal punctuation (. ! ?) followed by
// whitespace or the end of the text. Closing quotes and brackets directly
// after the punctuation stay with the sentence.
package chunk

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Len returns the length of s in characters.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// CollapseSpace trims s and collapses every whitespace run to one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Words splits text on whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// Sentences splits text on sentence boundaries. Whitespace inside each
// sentence is collapsed. Trailing text without terminal punctuation is
// returned as the last sentence.
func Sentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		end := i + 1
		for end < len(runes) && isCloser(runes[end]) {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			continue
		}
		if s := CollapseSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
		i = end - 1
	}
	if start < len(runes) {
		if s := CollapseSpace(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == ']'
}

// Segment splits text into k segments. Sentences are the units; when there
// are fewer sentences than k, the longest units are halved on a word
// boundary until there are enough. Fewer than k segments are returned only
// when text has fewer than k words.
func Segment(text string, k int) []string {
	if k <= 0 {
		return nil
	}
	units := Sentences(text)
	for len(units) < k {
		idx := longestSplittable(units)
		if idx < 0 {
			break
		}
		left, right := halve(units[idx])
		units = append(units[:idx], append([]string{left, right}, units[idx+1:]...)...)
	}
	return Balance(units, k)
}

// longestSplittable returns the index of the longest unit with at least two
// words, or -1.
func longestSplittable(units []string) int {
	best, bestLen := -1, 0
	for i, u := range units {
		if !strings.Contains(u, " ") {
			continue
		}
		if l := Len(u); l > bestLen {
			best, bestLen = i, l
		}
	}
	return best
}

// halve splits unit at the word boundary closest to its middle.
func halve(unit string) (string, string) {
	words := Words(unit)
	total := Len(unit)
	bestAt, bestDiff := 1, total
	left := 0
	for m := 1; m < len(words); m++ {
		left += Len(words[m-1])
		if m > 1 {
			left++
		}
		right := total - left - 1
		diff := left - right
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestAt, bestDiff = m, diff
		}
	}
	return strings.Join(words[:bestAt], " "), strings.Join(words[bestAt:], " ")
}

// Balance groups consecutive units into k segments of similar length.
// Reading order is preserved. Among all ways to cut the units into k
// contiguous runs it picks one with the smallest gap between the longest
// and shortest segment, which never exceeds one unit. If there are no more
// units than k, each unit becomes its own segment.
func Balance(units []string, k int) []string {
	if k <= 0 || len(units) == 0 {
		return nil
	}
	if len(units) <= k {
		return append([]string(nil), units...)
	}

	// cum[j] is the joined length of the first j units, one separator each.
	n := len(units)
	cum := make([]int, n+1)
	for i, u := range units {
		cum[i+1] = cum[i] + Len(u) + 1
	}
	total := cum[n]

	// The shortest segment of the best split is itself a run of units no
	// longer than the average; try those from the largest down.
	seen := make(map[int]bool)
	var floors []int
	for p := 0; p < n; p++ {
		for i := p + 1; i <= n; i++ {
			s := cum[i] - cum[p]
			if s*k > total {
				break
			}
			if !seen[s] {
				seen[s] = true
				floors = append(floors, s)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(floors)))

	ceilAvg := (total + k - 1) / k
	bestFloor, bestSpread := -1, -1
	for _, floor := range floors {
		// Every split has a segment at least ceilAvg long.
		if bestSpread >= 0 && ceilAvg-floor >= bestSpread {
			break
		}
		longest, _, ok := splitWithFloor(cum, k, floor)
		if ok && (bestSpread < 0 || longest-floor < bestSpread) {
			bestFloor, bestSpread = floor, longest-floor
		}
	}

	_, cuts, _ := splitWithFloor(cum, k, bestFloor)
	segments := make([]string, k)
	for j := 0; j < k; j++ {
		segments[j] = strings.Join(units[cuts[j]:cuts[j+1]], " ")
	}
	return segments
}

// splitWithFloor cuts the units behind cum into k runs of at least floor
// each, keeping the longest run as short as possible. It returns that
// length and the k+1 cut positions.
func splitWithFloor(cum []int, k, floor int) (int, []int, bool) {
	n := len(cum) - 1
	best := make([][]int, k+1)
	from := make([][]int, k+1)
	for j := range best {
		best[j] = make([]int, n+1)
		from[j] = make([]int, n+1)
		for i := range best[j] {
			best[j][i] = -1
		}
	}
	best[0][0] = 0

	for j := 1; j <= k; j++ {
		for i := j; i <= n-(k-j); i++ {
			for p := j - 1; p < i; p++ {
				s := cum[i] - cum[p]
				if s < floor {
					break
				}
				if best[j-1][p] < 0 {
					continue
				}
				v := max(best[j-1][p], s)
				if best[j][i] < 0 || v < best[j][i] {
					best[j][i] = v
					from[j][i] = p
				}
			}
		}
	}
	if best[k][n] < 0 {
		return 0, nil, false
	}

	cuts := make([]int, k+1)
	cuts[k] = n
	for j := k; j > 0; j-- {
		cuts[j-1] = from[j][cuts[j]]
	}
	return best[k][n], cuts, true
}
