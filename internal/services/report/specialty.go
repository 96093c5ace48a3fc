package report

import (
	"fmt"
	"strings"

	"github.com/clinidata/radreport-api/internal/models"
)

// Exam-keyword to specialty table, checked in order against the lowercased
// concatenation of exam type and technique text. First matching keyword
// wins, so more specific phrases sit above broader ones.
var examSpecialtyTable = []struct {
	keyword   string
	specialty models.Specialty
}{
	{"tdm cérébrale", models.SpecialtyNeuroBrain},
	{"tdm cerebrale", models.SpecialtyNeuroBrain},
	{"irm cérébrale", models.SpecialtyNeuroBrain},
	{"irm cerebrale", models.SpecialtyNeuroBrain},
	{"ct cérébrale", models.SpecialtyNeuroBrain},
	{"perfusion", models.SpecialtyNeuroBrain},
	{"carotides", models.SpecialtyNeuroORL},
	{"polygone de willis", models.SpecialtyNeuroBrain},
	{"rachis", models.SpecialtySpine},
	{"thorax", models.SpecialtyThoracic},
	{"abdomen", models.SpecialtyGI},
	{"pelvis", models.SpecialtyGU},
}

// Broader keyword groups, tried in this priority order when no table
// keyword matched.
var (
	brainKeywords    = []string{"cérébr", "cerveau", "encéphale", "crâne", "crânien", "brain", "cerebral"}
	orlKeywords      = []string{"carotide", "sinus", "oro", "facial", "neck"}
	spineKeywords    = []string{"rachis", "vertébr", "spine", "cervical", "lombaire"}
	thoracicKeywords = []string{"thorax", "poumon", "pulmon", "thoracique", "pulmonary"}
)

// ClassifySpecialty maps exam type and technique text to exactly one value
// of the specialty enumeration, falling back to the catch-all default when
// nothing matches.
func ClassifySpecialty(examText, techniqueText string) models.Specialty {
	combined := strings.ToLower(examText + " " + techniqueText)

	for _, entry := range examSpecialtyTable {
		if strings.Contains(combined, entry.keyword) {
			return entry.specialty
		}
	}

	switch {
	case containsAny(combined, brainKeywords):
		return models.SpecialtyNeuroBrain
	case containsAny(combined, orlKeywords):
		return models.SpecialtyNeuroORL
	case containsAny(combined, spineKeywords):
		return models.SpecialtySpine
	case containsAny(combined, thoracicKeywords):
		return models.SpecialtyThoracic
	}

	return models.SpecialtyDefault
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Exam-term to technique-term correspondences for the coherence check. When
// the exam type mentions the term, the technique text must mention at least
// one of the listed terms.
var coherenceChecks = []struct {
	examTerm  string
	techTerms []string
}{
	{"tdm", []string{"tomodensitométrie", "acquisition", "reconstruction", "spiralée"}},
	{"irm", []string{"imagerie par résonance", "résonance", "irm"}},
	{"perfusion", []string{"perfusion", "injection"}},
	{"angio", []string{"angio", "vasculaire", "artériel"}},
	{"carotide", []string{"carotide", "vasculaire", "artériel"}},
}

// ValidateCoherence sanity-checks the exam type against the technique text.
// Rules are evaluated in order; the first violated correspondence fails the
// check with a human-readable reason.
func ValidateCoherence(exam, technique string) models.CoherenceResult {
	if exam == "" && technique == "" {
		return models.CoherenceResult{Coherent: true, Reason: "no info"}
	}
	if exam == "" {
		return models.CoherenceResult{Coherent: false, Reason: "exam missing"}
	}
	if technique == "" {
		return models.CoherenceResult{Coherent: true, Reason: "technique missing but acceptable"}
	}

	examLower := strings.ToLower(exam)
	techniqueLower := strings.ToLower(technique)

	for _, check := range coherenceChecks {
		if !strings.Contains(examLower, check.examTerm) {
			continue
		}
		if !containsAny(techniqueLower, check.techTerms) {
			return models.CoherenceResult{
				Coherent: false,
				Reason:   fmt.Sprintf("'%s' in exam type but technique does not match", check.examTerm),
			}
		}
	}

	return models.CoherenceResult{Coherent: true, Reason: "OK"}
}
