package reconcile_test

import (
	"reflect"
	"testing"

	"github.com/ananyasolanki1/talklift/internal/reconcile"
)

// needles builds a needle list over throwaway edits, one per literal.
func needles(texts ...string) []reconcile.Needle {
	edits := make([]reconcile.Edit, len(texts))
	for i, txt := range texts {
		edits[i] = reconcile.Edit{Original: txt, Correction: txt + "!"}
	}
	return reconcile.OriginalNeedles(edits)
}

// taggedTexts returns the Text of every tagged run, in order.
func taggedTexts(runs []reconcile.Run) []string {
	var out []string
	for _, r := range runs {
		if r.Edit != nil {
			out = append(out, r.Text)
		}
	}
	return out
}

func TestMatch_LosslessReconstruction(t *testing.T) {
	t.Parallel()

	sources := []string{
		"I goed to the store yesterday, and buyed some milk.",
		"  leading and trailing whitespace  ",
		"punctuation (everywhere)! right? — yes.",
		"",
		"no matches at all here",
	}
	ns := needles("goed", "buyed", "store", "xyzzy")

	for _, src := range sources {
		runs := reconcile.Match(src, ns)
		if got := reconcile.Reassemble(runs); got != src {
			t.Errorf("Reassemble(Match(%q)) = %q, want identical source", src, got)
		}
	}
}

func TestMatch_LongestNeedleWins(t *testing.T) {
	t.Parallel()

	runs := reconcile.Match("the extra payout arrived", needles("out", "payout"))

	got := taggedTexts(runs)
	if !reflect.DeepEqual(got, []string{"payout"}) {
		t.Fatalf("tagged runs = %v, want [payout]", got)
	}
}

func TestMatch_WordBounded(t *testing.T) {
	t.Parallel()

	// "pay" occurs inside "payout" but never on its own word boundary.
	runs := reconcile.Match("the payout was huge", needles("pay"))
	if got := taggedTexts(runs); got != nil {
		t.Errorf("tagged runs = %v, want none (pay is not word-bounded)", got)
	}

	runs = reconcile.Match("pay the man", needles("pay"))
	if got := taggedTexts(runs); !reflect.DeepEqual(got, []string{"pay"}) {
		t.Errorf("tagged runs = %v, want [pay] at string start", got)
	}
}

func TestMatch_CaseInsensitiveKeepsSourceCasing(t *testing.T) {
	t.Parallel()

	runs := reconcile.Match("Goed home early", needles("goed"))
	got := taggedTexts(runs)
	if !reflect.DeepEqual(got, []string{"Goed"}) {
		t.Fatalf("tagged runs = %v, want [Goed] with source casing", got)
	}
}

func TestMatch_SpecialCharactersInNeedle(t *testing.T) {
	t.Parallel()

	src := "I think (maybe) it's fine?"
	runs := reconcile.Match(src, needles("(maybe)", "it's"))
	got := taggedTexts(runs)
	if !reflect.DeepEqual(got, []string{"(maybe)", "it's"}) {
		t.Fatalf("tagged runs = %v, want both punctuation-bearing needles", got)
	}
	if reconcile.Reassemble(runs) != src {
		t.Error("reconstruction broken by punctuation needles")
	}
}

func TestMatch_PunctuationEdgeNextToWord(t *testing.T) {
	t.Parallel()

	// A needle that begins with punctuation may match directly after a word
	// rune; only word-against-word adjacency is rejected.
	src := "That sounds fine, however you like it."
	runs := reconcile.Match(src, needles(", however"))
	if got := taggedTexts(runs); !reflect.DeepEqual(got, []string{", however"}) {
		t.Fatalf("tagged runs = %v, want [, however]", got)
	}

	// Symmetric case: a needle ending in punctuation before a word rune.
	runs = reconcile.Match("wait (no)really", needles("(no)"))
	if got := taggedTexts(runs); !reflect.DeepEqual(got, []string{"(no)"}) {
		t.Fatalf("tagged runs = %v, want [(no)]", got)
	}
}

func TestMatch_AccentedLongestNeedleWins(t *testing.T) {
	t.Parallel()

	// Needle length is compared in characters, not bytes, so the accented
	// phrase still outranks its accented prefix.
	runs := reconcile.Match("c'était très bien dit", needles("très", "très bien"))
	if got := taggedTexts(runs); !reflect.DeepEqual(got, []string{"très bien"}) {
		t.Fatalf("tagged runs = %v, want [très bien]", got)
	}

	// Accented needles stay word-bounded.
	runs = reconcile.Match("two cafés here", needles("café"))
	if got := taggedTexts(runs); got != nil {
		t.Errorf("tagged runs = %v, want none (café is inside cafés)", got)
	}
}

func TestMatch_EmptyNeedleList(t *testing.T) {
	t.Parallel()

	runs := reconcile.Match("untouched text", nil)
	if len(runs) != 1 || runs[0].Edit != nil || runs[0].Text != "untouched text" {
		t.Fatalf("runs = %+v, want single untagged run of whole source", runs)
	}

	// Blank needles must not build an empty pattern either.
	runs = reconcile.Match("still untouched", needles("", "   "))
	if len(runs) != 1 || runs[0].Edit != nil {
		t.Fatalf("runs = %+v, want single untagged run", runs)
	}
}

func TestMatch_HallucinatedNeedleSilentlySkipped(t *testing.T) {
	t.Parallel()

	ns := needles("goed", "flurble")
	runs := reconcile.Match("I goed home", ns)

	if got := taggedTexts(runs); !reflect.DeepEqual(got, []string{"goed"}) {
		t.Fatalf("tagged runs = %v, want [goed] only", got)
	}

	missing := reconcile.Unmatched(ns, runs)
	if len(missing) != 1 || missing[0].Text != "flurble" {
		t.Errorf("Unmatched = %+v, want the flurble needle", missing)
	}
}

func TestMatch_Idempotent(t *testing.T) {
	t.Parallel()

	src := "she have two childs and they goes to school"
	ns := needles("have", "childs", "goes")

	first := reconcile.Match(src, ns)
	second := reconcile.Match(src, ns)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-match differs:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestMatch_MultiWordNeedle(t *testing.T) {
	t.Parallel()

	src := "he did not went there"
	runs := reconcile.Match(src, needles("did not went", "went"))
	got := taggedTexts(runs)
	if !reflect.DeepEqual(got, []string{"did not went"}) {
		t.Fatalf("tagged runs = %v, want the full phrase", got)
	}
}

func TestMatch_ConsumedRegionNotRescanned(t *testing.T) {
	t.Parallel()

	// After "payout" is consumed, the scan resumes AFTER it; the later
	// standalone "out" is still eligible.
	runs := reconcile.Match("the payout ran out", needles("payout", "out"))
	got := taggedTexts(runs)
	if !reflect.DeepEqual(got, []string{"payout", "out"}) {
		t.Fatalf("tagged runs = %v, want [payout out]", got)
	}
}

func TestNearest(t *testing.T) {
	t.Parallel()

	window, score := reconcile.Nearest("I goed to the store", "goes")
	if window != "goed" {
		t.Errorf("Nearest window = %q, want goed", window)
	}
	if score <= 0.7 {
		t.Errorf("score = %v, want a clearly-similar value", score)
	}

	if w, s := reconcile.Nearest("short", "a much longer needle than source"); w != "" || s != 0 {
		t.Errorf("Nearest on undersized source = (%q, %v), want empty", w, s)
	}
}
