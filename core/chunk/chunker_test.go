package chunk

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "   ", nil},
		{"single without punctuation", "just words here", []string{"just words here"}},
		{"mixed terminals", "One. Two! Three? Four", []string{"One.", "Two!", "Three?", "Four"}},
		{"decimal is not a boundary", "Pi is 3.14 roughly. Next.", []string{"Pi is 3.14 roughly.", "Next."}},
		{"closing quote stays", `He said "stop." Then left.`, []string{`He said "stop."`, "Then left."}},
		{"newlines collapse", "First line\nstill first.\n\nSecond.", []string{"First line still first.", "Second."}},
		{"repeated punctuation", "Wow!! Really?", []string{"Wow!!", "Really?"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Sentences(tt.text))
		})
	}
}

func TestCollapseSpace(t *testing.T) {
	require.Equal(t, "a b c", CollapseSpace("  a \n\t b   c "))
	require.Equal(t, "", CollapseSpace("\n\n"))
}

func TestHalveSplitsNearMiddle(t *testing.T) {
	left, right := halve("aaaa bbbb cccc dddd")
	require.Equal(t, "aaaa bbbb", left)
	require.Equal(t, "cccc dddd", right)
}

func TestBalanceEqualUnits(t *testing.T) {
	units := make([]string, 12)
	for i := range units {
		units[i] = "ninechars"
	}
	segs := Balance(units, 4)
	require.Len(t, segs, 4)
	for _, s := range segs {
		require.Len(t, Words(s), 3)
	}
}

func TestBalancePreservesOrder(t *testing.T) {
	units := []string{"a1.", "b2.", "c3.", "d4.", "e5.", "f6.", "g7."}
	segs := Balance(units, 3)
	require.Len(t, segs, 3)
	require.Equal(t, strings.Join(units, " "), strings.Join(segs, " "))
}

func TestBalanceFewerUnitsThanSegments(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, Balance([]string{"a", "b"}, 5))
	require.Nil(t, Balance(nil, 3))
	require.Nil(t, Balance([]string{"a"}, 0))
}

func TestSegmentSubSplitsLongSentences(t *testing.T) {
	text := "This single sentence has quite a few words in it so it can be split many times over."
	segs := Segment(text, 5)
	require.Len(t, segs, 5)
	require.Equal(t, text, strings.Join(segs, " "))
	for _, s := range segs {
		require.NotEmpty(t, s)
	}
}

func TestSegmentTooFewWords(t *testing.T) {
	segs := Segment("Hello world", 4)
	require.Equal(t, []string{"Hello", "world"}, segs)
}

func TestSegmentBalanced(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. "+
		"Sed do eiusmod tempor incididunt ut labore. "+
		"Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris. ", 6)
	units := Sentences(text)
	longest := 0
	for _, u := range units {
		if l := Len(u); l > longest {
			longest = l
		}
	}

	for k := 2; k <= 19; k++ {
		segs := Segment(text, k)
		require.Len(t, segs, k)
		require.Equal(t, CollapseSpace(text), strings.Join(segs, " "), "k=%d", k)

		minLen, maxLen := Len(segs[0]), Len(segs[0])
		for _, s := range segs {
			require.NotEmpty(t, s)
			l := Len(s)
			if l < minLen {
				minLen = l
			}
			if l > maxLen {
				maxLen = l
			}
		}
		require.LessOrEqual(t, maxLen-minLen, longest+1, "k=%d", k)
	}
}

func spread(segs []string) int {
	minLen, maxLen := Len(segs[0]), Len(segs[0])
	for _, s := range segs {
		minLen = min(minLen, Len(s))
		maxLen = max(maxLen, Len(s))
	}
	return maxLen - minLen
}

// bestSpread tries every contiguous split of units into k runs.
func bestSpread(units []string, k int) int {
	best := -1
	var walk func(start, left int, segs []string)
	walk = func(start, left int, segs []string) {
		if left == 1 {
			all := append(segs, strings.Join(units[start:], " "))
			if sp := spread(all); best < 0 || sp < best {
				best = sp
			}
			return
		}
		for end := start + 1; end <= len(units)-(left-1); end++ {
			walk(end, left-1, append(append([]string(nil), segs...), strings.Join(units[start:end], " ")))
		}
	}
	walk(0, k, nil)
	return best
}

func TestBalanceMatchesBestContiguousSplit(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 500; trial++ {
		n := 2 + rng.Intn(8)
		k := 2 + rng.Intn(n-1)
		units := make([]string, n)
		longest := 0
		for i := range units {
			l := 1 + rng.Intn(5)
			if rng.Intn(2) == 0 {
				l = 1 + rng.Intn(200)
			}
			units[i] = strings.Repeat("x", l)
			longest = max(longest, l)
		}

		segs := Balance(units, k)
		require.Len(t, segs, k)
		require.Equal(t, strings.Join(units, " "), strings.Join(segs, " "))
		require.Equal(t, bestSpread(units, k), spread(segs), "units=%v k=%d", units, k)
		require.LessOrEqual(t, spread(segs), longest+1, "units=%v k=%d", units, k)
	}
}

func TestBalanceUnevenUnits(t *testing.T) {
	units := []string{
		strings.Repeat("a", 167), strings.Repeat("b", 20), strings.Repeat("c", 90),
		strings.Repeat("d", 60), strings.Repeat("e", 150), strings.Repeat("f", 10),
	}
	segs := Balance(units, 3)
	require.Len(t, segs, 3)
	require.Equal(t, bestSpread(units, 3), spread(segs))
	require.LessOrEqual(t, spread(segs), 168)
}
