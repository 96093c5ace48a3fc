// reports.go handles report persistence: upsert-by-identifier plus the
// paginated listing and export queries.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clinidata/radreport-api/internal/models"
)

// summaryColumns is every report column except raw_text — the listing and
// export views exclude the full text.
const summaryColumns = `id, exam_date, patient_name, patient_dob, patient_age, patient_identifier,
	exam_type, specialty, indication, technique, description, conclusion,
	validated_by, source_filename, created_at`

// UpsertReport inserts a report or, when the derived identifier already
// exists, overwrites every extracted field. Collisions are silent: two
// documents sharing date, patient and filename stem map to one row.
func (db *DB) UpsertReport(ctx context.Context, r *models.Report) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reports (id, exam_date, patient_name, patient_dob, patient_age, patient_identifier,
			exam_type, specialty, indication, technique, description, conclusion,
			validated_by, raw_text, source_filename, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			exam_date = excluded.exam_date,
			patient_name = excluded.patient_name,
			patient_dob = excluded.patient_dob,
			patient_age = excluded.patient_age,
			patient_identifier = excluded.patient_identifier,
			exam_type = excluded.exam_type,
			specialty = excluded.specialty,
			indication = excluded.indication,
			technique = excluded.technique,
			description = excluded.description,
			conclusion = excluded.conclusion,
			validated_by = excluded.validated_by,
			raw_text = excluded.raw_text,
			source_filename = excluded.source_filename`

	_, err := db.ExecContext(ctx, query,
		r.ID, r.ExamDate, r.PatientName, r.PatientDOB, r.PatientAge, r.PatientIdentifier,
		r.ExamType, r.Specialty, r.Indication, r.Technique, r.Description, r.Conclusion,
		r.ValidatedBy, r.RawText, r.SourceFilename, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert report %s: %w", r.ID, err)
	}
	return nil
}

// GetReport retrieves a full report (raw text included) by identifier.
func (db *DB) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var r models.Report
	err := db.GetContext(ctx, &r, `SELECT * FROM reports WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("report not found: %w", err)
	}
	return &r, nil
}

// ListReports returns a page of report summaries ordered by exam date
// descending (unknown dates last), with optional specialty and search
// filters. Also returns the total matching count.
func (db *DB) ListReports(ctx context.Context, params models.ReportListParams) ([]models.ReportSummary, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 || params.PerPage > 100 {
		params.PerPage = 20
	}

	var conditions []string
	var args []interface{}

	if params.Specialty != "" {
		conditions = append(conditions, "specialty = ?")
		args = append(args, params.Specialty)
	}
	if params.Search != "" {
		conditions = append(conditions, "(patient_name LIKE ? OR exam_type LIKE ?)")
		pattern := "%" + params.Search + "%"
		args = append(args, pattern, pattern)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM reports %s", whereClause)
	var total int
	if err := db.GetContext(ctx, &total, countQuery, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			total = 0
		} else {
			return nil, 0, fmt.Errorf("count query failed: %w", err)
		}
	}

	offset := (params.Page - 1) * params.PerPage
	selectQuery := fmt.Sprintf(
		"SELECT %s FROM reports %s ORDER BY exam_date DESC, created_at DESC LIMIT ? OFFSET ?",
		summaryColumns, whereClause,
	)
	args = append(args, params.PerPage, offset)

	var reports []models.ReportSummary
	if err := db.SelectContext(ctx, &reports, selectQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list query failed: %w", err)
	}

	return reports, total, nil
}

// ListAllReports returns every report summary, newest exam first. Used by
// the export endpoints.
func (db *DB) ListAllReports(ctx context.Context) ([]models.ReportSummary, error) {
	var reports []models.ReportSummary
	query := fmt.Sprintf("SELECT %s FROM reports ORDER BY exam_date DESC, created_at DESC", summaryColumns)
	if err := db.SelectContext(ctx, &reports, query); err != nil {
		return nil, fmt.Errorf("export query failed: %w", err)
	}
	return reports, nil
}

// DeleteReport removes a report by identifier.
func (db *DB) DeleteReport(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("report not found")
	}
	return nil
}
