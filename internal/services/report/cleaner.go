// Package report parses cleaned French radiology report text (comptes
// rendus) into structured fields: sections, patient identity, exam date,
// specialty and an exam/technique coherence check.
//
// Everything here is heuristic: layered regular expression pattern lists
// tried in a fixed priority order, first match wins. Failures degrade to
// empty fields rather than errors — a report with nothing recognized is
// still a valid (mostly empty) record.
package report

import (
	"regexp"
	"strings"
)

var (
	// Non-printable control characters (and the C1 range that PDF text
	// layers tend to leak) are replaced with spaces before parsing.
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x9f]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// CleanText strips control characters and collapses all whitespace runs
// (including newlines) into single spaces.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = controlChars.ReplaceAllString(text, " ")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
