// Package reconcile re-renders an analysed text against the list of discrete
// edits claimed by the language model. It has two halves:
//
//  1. [Normalize] filters the model's raw edit list down to the edits that
//     actually change something ("real" edits) and removes duplicates.
//  2. [Match] splits a source string into an ordered sequence of [Run] values,
//     tagging the spans covered by an edit while reproducing the source
//     byte-for-byte when the runs are concatenated.
//
// The package is pure: no I/O, no shared state, deterministic output for a
// given input.
package reconcile

import "strings"

// Edit is one claimed correction inside a larger text, as returned by the
// upstream language model. The package validates edits but does not produce
// them.
type Edit struct {
	// Original is the snippet as it (allegedly) appears in the analysed text.
	Original string `json:"original"`

	// Correction is the replacement snippet.
	Correction string `json:"correction"`

	// Explanation is the model's rationale, passed through unchanged.
	Explanation string `json:"explanation"`
}

// IsNoop reports whether the edit changes nothing under case-insensitive,
// whitespace-trimmed comparison. The model is permitted to return such
// entries; they must never be surfaced as mistakes.
func (e Edit) IsNoop() bool {
	return canon(e.Original) == canon(e.Correction)
}

// key is the dedup identity of an edit: the canonical form of both sides.
// Explanation text does not participate in identity.
func (e Edit) key() string {
	return canon(e.Original) + "\x00" + canon(e.Correction)
}

// canon lowers and trims a snippet for equivalence comparison.
func canon(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize returns the edits that should be highlighted: no-ops are dropped
// and duplicate edits (same original and correction under case-insensitive,
// trimmed comparison) collapse to their first occurrence. Input order is
// preserved; the input slice is not modified.
func Normalize(edits []Edit) []Edit {
	if len(edits) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(edits))
	out := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if e.IsNoop() {
			continue
		}
		k := e.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}
