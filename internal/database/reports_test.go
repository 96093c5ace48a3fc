package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/clinidata/radreport-api/internal/models"
)

// testDB opens a fresh SQLite database in a temp directory with all
// migrations applied. The file is removed with the temp dir at test end.
func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func sampleReport(id string) *models.Report {
	examDate := "2022-03-14"
	age := 65
	return &models.Report{
		ID:                id,
		ExamDate:          &examDate,
		PatientName:       "DUPONT JEAN",
		PatientDOB:        "12.05.1957",
		PatientAge:        &age,
		PatientIdentifier: "123456",
		ExamType:          "TDM cérébrale native",
		Specialty:         models.SpecialtyNeuroBrain,
		Indication:        "Chute de sa hauteur",
		Technique:         "Acquisition spiralée sans injection",
		Description:       "Pas de lésion traumatique",
		Conclusion:        "Examen normal",
		ValidatedBy:       "Jean Martin",
		RawText:           "texte complet du compte rendu",
		SourceFilename:    "scan_001.pdf",
	}
}

func TestUpsertAndGetReport(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	r := sampleReport("20220314_123456_scan_001")
	if err := db.UpsertReport(ctx, r); err != nil {
		t.Fatalf("UpsertReport failed: %v", err)
	}
	if r.CreatedAt.IsZero() {
		t.Error("UpsertReport should set CreatedAt")
	}

	got, err := db.GetReport(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got.PatientName != r.PatientName {
		t.Errorf("PatientName = %q, want %q", got.PatientName, r.PatientName)
	}
	if got.ExamDate == nil || *got.ExamDate != "2022-03-14" {
		t.Errorf("ExamDate = %v, want 2022-03-14", got.ExamDate)
	}
	if got.PatientAge == nil || *got.PatientAge != 65 {
		t.Errorf("PatientAge = %v, want 65", got.PatientAge)
	}
	if got.Specialty != models.SpecialtyNeuroBrain {
		t.Errorf("Specialty = %q", got.Specialty)
	}
	if got.RawText != r.RawText {
		t.Errorf("RawText = %q, want %q", got.RawText, r.RawText)
	}
}

func TestUpsertReportOverwritesOnSameID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := sampleReport("collision_id")
	if err := db.UpsertReport(ctx, first); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	second := sampleReport("collision_id")
	second.Conclusion = "Conclusion révisée"
	if err := db.UpsertReport(ctx, second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	got, err := db.GetReport(ctx, "collision_id")
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got.Conclusion != "Conclusion révisée" {
		t.Errorf("Conclusion = %q, want the overwritten value", got.Conclusion)
	}

	_, total, err := db.ListReports(ctx, models.ReportListParams{})
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1 (upsert must not duplicate)", total)
	}
}

func TestListReportsFilters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	brain := sampleReport("r1")
	spine := sampleReport("r2")
	spine.PatientName = "MARTIN ANNE"
	spine.ExamType = "IRM du rachis lombaire"
	spine.Specialty = models.SpecialtySpine

	for _, r := range []*models.Report{brain, spine} {
		if err := db.UpsertReport(ctx, r); err != nil {
			t.Fatalf("UpsertReport failed: %v", err)
		}
	}

	t.Run("no filter", func(t *testing.T) {
		reports, total, err := db.ListReports(ctx, models.ReportListParams{})
		if err != nil {
			t.Fatalf("ListReports failed: %v", err)
		}
		if total != 2 || len(reports) != 2 {
			t.Errorf("got total=%d len=%d, want 2/2", total, len(reports))
		}
	})

	t.Run("specialty filter", func(t *testing.T) {
		reports, total, err := db.ListReports(ctx, models.ReportListParams{Specialty: string(models.SpecialtySpine)})
		if err != nil {
			t.Fatalf("ListReports failed: %v", err)
		}
		if total != 1 || len(reports) != 1 || reports[0].ID != "r2" {
			t.Errorf("specialty filter returned total=%d, reports=%v", total, reports)
		}
	})

	t.Run("search on patient name", func(t *testing.T) {
		_, total, err := db.ListReports(ctx, models.ReportListParams{Search: "MARTIN"})
		if err != nil {
			t.Fatalf("ListReports failed: %v", err)
		}
		if total != 1 {
			t.Errorf("search total = %d, want 1", total)
		}
	})

	t.Run("search on exam type", func(t *testing.T) {
		_, total, err := db.ListReports(ctx, models.ReportListParams{Search: "rachis"})
		if err != nil {
			t.Fatalf("ListReports failed: %v", err)
		}
		if total != 1 {
			t.Errorf("search total = %d, want 1", total)
		}
	})
}

func TestDeleteReport(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	r := sampleReport("to_delete")
	if err := db.UpsertReport(ctx, r); err != nil {
		t.Fatalf("UpsertReport failed: %v", err)
	}

	if err := db.DeleteReport(ctx, "to_delete"); err != nil {
		t.Fatalf("DeleteReport failed: %v", err)
	}
	if _, err := db.GetReport(ctx, "to_delete"); err == nil {
		t.Error("report still retrievable after delete")
	}
	if err := db.DeleteReport(ctx, "to_delete"); err == nil {
		t.Error("deleting a missing report should fail")
	}
}
