package reconcile

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Unmatched returns the needles that contributed no tagged run. A non-empty
// result means the model claimed a snippet that does not occur in the source
// text (a hallucinated edit). This is not an error — the snippet is simply
// not highlighted — but callers may want to log it.
func Unmatched(needles []Needle, runs []Run) []Needle {
	tagged := make(map[*Edit]struct{})
	for _, r := range runs {
		if r.Edit != nil {
			tagged[r.Edit] = struct{}{}
		}
	}
	var missing []Needle
	for _, n := range needles {
		if n.Edit == nil {
			continue
		}
		if _, ok := tagged[n.Edit]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

// Nearest returns the window of source most similar to needle under
// Jaro-Winkler similarity, together with its score in [0, 1]. The window has
// the same whitespace-separated word count as needle.
//
// Used purely for diagnostics when a needle fails to match: the nearest
// candidate usually reveals whether the model paraphrased the snippet or
// invented it outright. Returns ("", 0) when either input has no words.
func Nearest(source, needle string) (string, float64) {
	words := strings.Fields(source)
	n := len(strings.Fields(needle))
	if n == 0 || len(words) < n {
		return "", 0
	}

	target := strings.ToLower(strings.TrimSpace(needle))
	best := ""
	bestScore := 0.0
	for i := 0; i+n <= len(words); i++ {
		window := strings.Join(words[i:i+n], " ")
		score := matchr.JaroWinkler(strings.ToLower(window), target, false)
		if score > bestScore {
			bestScore = score
			best = window
		}
	}
	return best, bestScore
}
