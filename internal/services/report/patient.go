package report

import (
	"regexp"
	"strconv"
	"strings"
)

// PatientInfo holds identity fields captured from the report header line.
// All fields are best-effort; whatever a pattern did not capture stays empty.
type PatientInfo struct {
	Name           string
	DOB            string // as printed in the report, e.g. "12.05.1957"
	Age            *int
	PatientID      string
	ExamIdentifier string
}

// Identity patterns, most specific first. The header line of a report looks
// like "DUPONT JEAN, 12.05.1957 (65 ans) / 123456 / A789" with the trailing
// components optional. The first pattern that matches the text wins; once
// one matches the remaining patterns are never tried.
var patientPatterns = []*regexp.Regexp{
	// name, DOB (age ans) / patient id / exam id
	regexp.MustCompile(`([A-Z][A-Z\s\-']+),\s*(\d{1,2}[./-]\d{1,2}[./-]\d{4})\s*\((\d+)\s*ans\)\s*/\s*(\d+)\s*/\s*([A-Z]\d+)`),
	// name, DOB (age ans) / patient id
	regexp.MustCompile(`([A-Z][A-Z\s\-']+),\s*(\d{1,2}[./-]\d{1,2}[./-]\d{4})\s*\((\d+)\s*ans\)\s*/\s*(\d+)`),
	// name, DOB (age ans)
	regexp.MustCompile(`([A-Z][A-Z\s\-']+)\s*,\s*(\d{1,2}[./-]\d{1,2}[./-]\d{4})\s*\((\d+)\s*ans\)`),
}

// Fallback patterns for the patient identifier, used only when the primary
// patterns did not capture one.
var patientIDFallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)No de patient\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)IPP\s*(\d+)`),
	regexp.MustCompile(`(?i)/\s*(\d{6,})\s*/\s*[A-Z]?\d+`),
}

// ExtractPatientInfo parses patient identity from the report text.
func ExtractPatientInfo(text string) PatientInfo {
	var info PatientInfo

	for _, re := range patientPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		info.Name = strings.TrimSpace(m[1])
		info.DOB = m[2]
		if age, err := strconv.Atoi(m[3]); err == nil {
			info.Age = &age
		}
		if len(m) >= 5 {
			info.PatientID = m[4]
		}
		if len(m) >= 6 {
			info.ExamIdentifier = m[5]
		}
		break
	}

	if info.PatientID == "" {
		for _, re := range patientIDFallbackPatterns {
			if m := re.FindStringSubmatch(text); m != nil {
				info.PatientID = m[1]
				break
			}
		}
	}

	return info
}
