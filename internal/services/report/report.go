package report

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/clinidata/radreport-api/internal/models"
)

// GenerateReportID derives the report identifier from the exam date, the
// patient identifier and the source filename stem. Missing components fall
// back to fixed placeholders, so documents sharing all three components
// produce the same identifier and silently overwrite each other on upsert.
func GenerateReportID(examDate *time.Time, patientID, filename string) string {
	datePart := "unknown_date"
	if examDate != nil {
		datePart = examDate.Format("20060102")
	}
	patientPart := patientID
	if patientPart == "" {
		patientPart = "unknown_patient"
	}
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return datePart + "_" + patientPart + "_" + stem
}

// Build runs the full parsing pipeline over already-cleaned report text and
// assembles the flat record. It never fails: unrecognized fields stay empty
// and the specialty defaults to the catch-all. The coherence result is
// returned alongside so callers can log or surface incoherent reports —
// incoherence does not block the record.
func Build(text, filename string) (*models.Report, models.CoherenceResult) {
	patient := ExtractPatientInfo(text)
	sections := SplitSections(text)

	var examDate *time.Time
	var examDateStr *string
	if d, ok := ExtractExamDate(text); ok {
		examDate = &d
		s := d.Format("2006-01-02")
		examDateStr = &s
	}

	specialty := ClassifySpecialty(sections[models.SectionExamType], sections[models.SectionTechnique])
	coherence := ValidateCoherence(sections[models.SectionExamType], sections[models.SectionTechnique])

	r := &models.Report{
		ID:                GenerateReportID(examDate, patient.PatientID, filename),
		ExamDate:          examDateStr,
		PatientName:       patient.Name,
		PatientDOB:        patient.DOB,
		PatientAge:        patient.Age,
		PatientIdentifier: patient.PatientID,
		ExamType:          sections[models.SectionExamType],
		Specialty:         specialty,
		Indication:        sections[models.SectionIndication],
		Technique:         sections[models.SectionTechnique],
		Description:       sections[models.SectionDescription],
		Conclusion:        sections[models.SectionConclusion],
		ValidatedBy:       sections[models.SectionValidatedBy],
		RawText:           text,
		SourceFilename:    filepath.Base(filename),
	}

	return r, coherence
}
