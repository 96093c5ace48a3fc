package report

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date-bearing phrase patterns in priority order. Every match of a pattern
// is tried before moving to the next pattern; the first candidate that
// parses as a valid calendar date wins. The generic numeric patterns come
// last so that phrases like "Examen(s) du 14.03.2022" beat stray dates
// elsewhere in the text.
var examDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Examen\(s\)\s+du\s+(\d{1,2}[./-]\d{1,2}[./-]\d{4})`),
	regexp.MustCompile(`(?i)\ble\s+(\d{1,2}[./-]\d{1,2}[./-]\d{4})`),
	regexp.MustCompile(`(?i)Neuchâtel,\s*le\s*(\d{1,2}[./-]\d{1,2}[./-]\d{4})`),
	regexp.MustCompile(`(\d{1,2}[./-]\d{1,2}[./-]\d{4})`),
	regexp.MustCompile(`(\d{4}[./-]\d{1,2}[./-]\d{1,2})`),
}

var dateSeparators = regexp.MustCompile(`[./-]`)

// ExtractExamDate scans the text for the exam date. Matches are normalized
// to a single separator, parsed as day/month/year (swapped to
// year/month/day when the first token has four digits) and validated as a
// real calendar date; unparsable candidates are silently discarded. Returns
// false when no valid date is found anywhere.
func ExtractExamDate(text string) (time.Time, bool) {
	for _, re := range examDatePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if d, ok := parseDayMonthYear(m[1]); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// parseDayMonthYear parses "d/m/yyyy" (or "yyyy/m/d") with any of the
// separators . / - into a date, rejecting impossible components.
func parseDayMonthYear(s string) (time.Time, bool) {
	parts := strings.Split(dateSeparators.ReplaceAllString(s, "/"), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, month, year := parts[0], parts[1], parts[2]
	if len(day) == 4 {
		// "YYYY/MM/DD" layout
		year, day = day, year
	}
	if len(year) != 4 {
		return time.Time{}, false
	}

	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}

	// time.Date normalizes overflow (month 15 becomes March of the next
	// year), so an invalid candidate has to be rejected by a round-trip
	// comparison instead.
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
