package handlers

import (
	"encoding/csv"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/clinidata/radreport-api/internal/models"
)

func summaryFixture() models.ReportSummary {
	examDate := "2022-03-14"
	age := 65
	return models.ReportSummary{
		ID:                "20220314_123456_scan_001",
		ExamDate:          &examDate,
		PatientName:       "DUPONT JEAN",
		PatientAge:        &age,
		PatientIdentifier: "123456",
		ExamType:          "TDM cérébrale native",
		Specialty:         models.SpecialtyNeuroBrain,
		Indication:        "Chute de sa hauteur",
		Technique:         "Acquisition spiralée",
		Description:       "Pas de lésion",
		Conclusion:        "Examen normal",
		ValidatedBy:       "Jean Martin",
		SourceFilename:    "scan_001.pdf",
	}
}

func TestExportRowMatchesColumns(t *testing.T) {
	row := exportRow(summaryFixture())
	if len(row) != len(exportColumns) {
		t.Fatalf("row has %d cells, header has %d columns", len(row), len(exportColumns))
	}

	want := map[string]string{
		"filename":    "scan_001.pdf",
		"indication":  "Chute de sa hauteur",
		"technique":   "Acquisition spiralée",
		"description": "Pas de lésion",
		"conclusion":  "Examen normal",
		"signatories": "Jean Martin",
	}
	for i, col := range exportColumns {
		if row[i] != want[col] {
			t.Errorf("column %q = %q, want %q", col, row[i], want[col])
		}
	}
}

func TestExportRowEmptyFields(t *testing.T) {
	row := exportRow(models.ReportSummary{SourceFilename: "vide.pdf"})
	if row[0] != "vide.pdf" {
		t.Errorf("filename cell = %q, want vide.pdf", row[0])
	}
	for i, cell := range row[1:] {
		if cell != "" {
			t.Errorf("cell %q = %q, want empty", exportColumns[i+1], cell)
		}
	}
}

func TestExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	exportCSV(c, []models.ReportSummary{summaryFixture()}, "reports_test")

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "reports_test.csv") {
		t.Errorf("Content-Disposition = %q, want the export filename", cd)
	}

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("response is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d CSV records, want header + 1 row", len(records))
	}
	for i, col := range exportColumns {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}
	if records[1][0] != "scan_001.pdf" {
		t.Errorf("first data cell = %q, want scan_001.pdf", records[1][0])
	}
}
