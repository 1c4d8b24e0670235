package report

import (
	"fmt"
	"time"
)

// FormatPrettyDate renders t in the report's human-facing date style, e.g.
// "3rd Jan 2026, 4:05 PM".
func FormatPrettyDate(t time.Time) string {
	return fmt.Sprintf("%d%s %s %d, %s",
		t.Day(),
		ordinalSuffix(t.Day()),
		t.Format("Jan"),
		t.Year(),
		t.Format("3:04 PM"),
	)
}

// ordinalSuffix returns the English ordinal suffix for a day of month.
// The teens are all "th" (11th, 12th, 13th).
func ordinalSuffix(d int) string {
	if d > 3 && d < 21 {
		return "th"
	}
	switch d % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
