package report_test

import (
	"testing"
	"time"

	"github.com/ananyasolanki1/talklift/internal/reconcile"
	"github.com/ananyasolanki1/talklift/internal/report"
)

func sectionTitles(doc report.Document) []string {
	titles := make([]string, len(doc.Sections))
	for i, s := range doc.Sections {
		titles[i] = s.Title
	}
	return titles
}

func TestAssemble_OriginalOnly(t *testing.T) {
	t.Parallel()

	doc := report.Assemble("I goed home", nil, nil, nil, time.Now())

	if len(doc.Sections) != 1 {
		t.Fatalf("sections = %v, want only Original", sectionTitles(doc))
	}
	if doc.Sections[0].Title != report.TitleOriginal {
		t.Errorf("first section = %q, want %q", doc.Sections[0].Title, report.TitleOriginal)
	}
	if doc.Sections[0].Body != "I goed home" {
		t.Errorf("Original body = %q", doc.Sections[0].Body)
	}
}

func TestAssemble_AllSectionsFixedOrder(t *testing.T) {
	t.Parallel()

	grammar := &report.GrammarSection{
		CorrectedText: "I went home",
		Mistakes: []reconcile.Edit{
			{Original: "goed", Correction: "went", Explanation: "irregular verb"},
		},
	}
	prof := "I returned to my residence."
	casual := "headed home"

	doc := report.Assemble("I goed home", grammar, &prof, &casual, time.Now())

	want := []string{
		report.TitleOriginal,
		report.TitleGrammar,
		report.TitleProfessional,
		report.TitleCasual,
	}
	got := sectionTitles(doc)
	if len(got) != len(want) {
		t.Fatalf("sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sections = %v, want fixed order %v", got, want)
		}
	}

	if len(doc.Sections[1].Mistakes) != 1 {
		t.Errorf("grammar section mistakes = %+v, want the goed→went edit", doc.Sections[1].Mistakes)
	}
}

func TestAssemble_PartialSections(t *testing.T) {
	t.Parallel()

	casual := "headed home"
	doc := report.Assemble("text", nil, nil, &casual, time.Now())

	got := sectionTitles(doc)
	if len(got) != 2 || got[1] != report.TitleCasual {
		t.Fatalf("sections = %v, want [Original, Casual Tone]", got)
	}
}

func TestFormatPrettyDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		day  int
		want string
	}{
		{1, "1st Jan 2026, 4:05 PM"},
		{2, "2nd Jan 2026, 4:05 PM"},
		{3, "3rd Jan 2026, 4:05 PM"},
		{4, "4th Jan 2026, 4:05 PM"},
		{11, "11th Jan 2026, 4:05 PM"},
		{12, "12th Jan 2026, 4:05 PM"},
		{13, "13th Jan 2026, 4:05 PM"},
		{21, "21st Jan 2026, 4:05 PM"},
		{22, "22nd Jan 2026, 4:05 PM"},
		{23, "23rd Jan 2026, 4:05 PM"},
		{30, "30th Jan 2026, 4:05 PM"},
	}
	for _, tc := range cases {
		ts := time.Date(2026, time.January, tc.day, 16, 5, 0, 0, time.UTC)
		if got := report.FormatPrettyDate(ts); got != tc.want {
			t.Errorf("day %d: got %q, want %q", tc.day, got, tc.want)
		}
	}
}
