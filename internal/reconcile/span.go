package reconcile

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Run is a contiguous slice of a source string. When Edit is non-nil the run
// is highlighted as belonging to that edit; otherwise it is plain text.
//
// Concatenating the Text of every run returned by [Match], in order, yields
// the source string exactly — the matcher only tags, never alters, text.
type Run struct {
	Text string `json:"text"`
	Edit *Edit  `json:"edit,omitempty"`
}

// Needle pairs the literal text to search for with the edit it belongs to.
// Build needle lists with [OriginalNeedles] or [CorrectionNeedles] depending
// on which rendering pass is being performed.
type Needle struct {
	Text string
	Edit *Edit
}

// OriginalNeedles returns one needle per edit, searching for the edit's
// Original snippet. Use for the pass over the pre-correction text.
//
// The returned needles reference the elements of edits; the slice must not
// be mutated while runs produced from these needles are in use.
func OriginalNeedles(edits []Edit) []Needle {
	ns := make([]Needle, 0, len(edits))
	for i := range edits {
		ns = append(ns, Needle{Text: edits[i].Original, Edit: &edits[i]})
	}
	return ns
}

// CorrectionNeedles returns one needle per edit, searching for the edit's
// Correction snippet. Use for the pass over the corrected text.
func CorrectionNeedles(edits []Edit) []Needle {
	ns := make([]Needle, 0, len(edits))
	for i := range edits {
		ns = append(ns, Needle{Text: edits[i].Correction, Edit: &edits[i]})
	}
	return ns
}

// Match scans source once, left to right, and returns it split into runs.
//
// Needles are matched as literal text, case-insensitively, and never split a
// word: a candidate span is rejected when a word rune of the needle would sit
// directly against a word rune of the surrounding text. A needle that starts
// or ends with punctuation (", however") may still match right next to a
// word. Needles with more characters are tried before shorter ones at every
// position, so a needle fully containing a shorter one always wins ("payout"
// is never partially claimed by "out"). Matched regions are consumed; matches
// cannot overlap.
//
// A needle that never occurs in source simply produces no tagged run. An
// empty needle list returns the whole source as a single untagged run.
func Match(source string, needles []Needle) []Run {
	candidates := make([]Needle, 0, len(needles))
	for _, n := range needles {
		if strings.TrimSpace(n.Text) != "" {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return []Run{{Text: source}}
	}

	// Longest needle first, by character count, so containing spans beat
	// contained ones. Stable keeps input order for equal lengths.
	sort.SliceStable(candidates, func(i, j int) bool {
		return utf8.RuneCountInString(candidates[i].Text) > utf8.RuneCountInString(candidates[j].Text)
	})

	var runs []Run
	plainStart := 0

	i := 0
	for i < len(source) {
		matched := false
		for _, n := range candidates {
			end := i + len(n.Text)
			if end > len(source) {
				continue
			}
			if !strings.EqualFold(source[i:end], n.Text) {
				continue
			}
			if !boundaryBefore(source, i, n.Text) || !boundaryAfter(source, end, n.Text) {
				continue
			}
			if plainStart < i {
				runs = append(runs, Run{Text: source[plainStart:i]})
			}
			// The run keeps the source's own casing, not the needle's.
			runs = append(runs, Run{Text: source[i:end], Edit: n.Edit})
			i = end
			plainStart = end
			matched = true
			break
		}
		if !matched {
			_, w := utf8.DecodeRuneInString(source[i:])
			i += w
		}
	}

	if plainStart < len(source) || len(runs) == 0 {
		runs = append(runs, Run{Text: source[plainStart:]})
	}
	return runs
}

// Reassemble concatenates the run texts back into the source string.
// Provided mostly for tests asserting the lossless-reconstruction invariant.
func Reassemble(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// boundaryBefore reports whether position i in s is a valid start for a
// match of needle. The start is invalid only when it would split a word:
// a word rune in s directly before a needle that begins with a word rune.
func boundaryBefore(s string, i int, needle string) bool {
	if i == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:i])
	if !isWordRune(prev) {
		return true
	}
	first, _ := utf8.DecodeRuneInString(needle)
	return !isWordRune(first)
}

// boundaryAfter reports whether position end in s is a valid end for a match
// of needle, by the same never-split-a-word rule as boundaryBefore.
func boundaryAfter(s string, end int, needle string) bool {
	if end == len(s) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(s[end:])
	if !isWordRune(next) {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(needle)
	return !isWordRune(last)
}

// isWordRune mirrors the \w class used by the highlight renderer: letters,
// digits, and underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
