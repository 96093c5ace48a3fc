// export.go handles report export, bulk and per-report.
//
// Bulk formats:
//   - csv  — One row per report, fixed column order
//   - xlsx — Same table as an Excel workbook
//   - json — Full report summaries with all metadata
//
// Each export format is its own function. Adding a format means adding a
// case to the switch and one new formatter — the Strategy pattern without
// the ceremony.
package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/clinidata/radreport-api/internal/models"
)

// exportColumns is the fixed column order for tabular exports. Downstream
// review spreadsheets depend on this ordering, so it never changes silently.
var exportColumns = []string{
	"filename", "indication", "technique", "description", "conclusion", "signatories",
}

// ExportReports exports all stored reports in the requested format.
// GET /api/v1/reports/export?format=csv|xlsx|json
//
// Response headers are set for file download (Content-Disposition attachment).
func (h *Handler) ExportReports(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	// Validate format before doing any database work
	validFormats := map[string]bool{"csv": true, "xlsx": true, "json": true}
	if !validFormats[format] {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_format",
			Message: "Supported formats: csv, xlsx, json",
			Code:    http.StatusBadRequest,
		})
		return
	}

	reports, err := h.DB.ListAllReports(c.Request.Context())
	if err != nil {
		log.Printf("❌ Failed to load reports for export: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to load reports for export",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	filename := "reports_" + time.Now().Format("20060102")

	switch format {
	case "csv":
		exportCSV(c, reports, filename)
	case "xlsx":
		exportXLSX(c, reports, filename)
	case "json":
		exportReportsJSON(c, reports, filename)
	}
}

// exportRow flattens a report summary into the exportColumns order.
func exportRow(r models.ReportSummary) []string {
	return []string{
		r.SourceFilename, r.Indication, r.Technique,
		r.Description, r.Conclusion, r.ValidatedBy,
	}
}

// exportCSV writes all reports as a CSV table.
func exportCSV(c *gin.Context, reports []models.ReportSummary, filename string) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write(exportColumns)
	for _, r := range reports {
		w.Write(exportRow(r))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "export_error",
			Message: "Failed to generate CSV export",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// exportXLSX writes all reports as an Excel workbook with a single
// "Reports" sheet. Radiology coordinators live in Excel, so this is the
// format they actually open.
func exportXLSX(c *gin.Context, reports []models.ReportSummary, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reports"
	index, err := f.NewSheet(sheet)
	if err == nil {
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")
	}

	for col, name := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, name)
	}
	for row, r := range reports {
		for col, val := range exportRow(r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, val)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "export_error",
			Message: "Failed to generate XLSX export",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportReport exports a single report.
// GET /api/v1/reports/:id/export?format=json|txt|csv
//
// json carries the full record including the raw text; txt is the raw
// extracted text alone; csv is a one-row table in the exportColumns order.
func (h *Handler) ExportReport(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	validFormats := map[string]bool{"json": true, "txt": true, "csv": true}
	if !validFormats[format] {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_format",
			Message: "Supported formats: json, txt, csv",
			Code:    http.StatusBadRequest,
		})
		return
	}

	rep, err := h.DB.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Report not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	switch format {
	case "json":
		jsonBytes, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "export_error",
				Message: "Failed to generate JSON export",
				Code:    http.StatusInternalServerError,
			})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, rep.ID))
		c.Data(http.StatusOK, "application/json; charset=utf-8", jsonBytes)
	case "txt":
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.txt"`, rep.ID))
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(rep.RawText))
	case "csv":
		exportCSV(c, []models.ReportSummary{summarize(rep)}, rep.ID)
	}
}

// summarize drops the raw text from a full report for tabular export.
func summarize(r *models.Report) models.ReportSummary {
	return models.ReportSummary{
		ID:                r.ID,
		ExamDate:          r.ExamDate,
		PatientName:       r.PatientName,
		PatientDOB:        r.PatientDOB,
		PatientAge:        r.PatientAge,
		PatientIdentifier: r.PatientIdentifier,
		ExamType:          r.ExamType,
		Specialty:         r.Specialty,
		Indication:        r.Indication,
		Technique:         r.Technique,
		Description:       r.Description,
		Conclusion:        r.Conclusion,
		ValidatedBy:       r.ValidatedBy,
		SourceFilename:    r.SourceFilename,
		CreatedAt:         r.CreatedAt,
	}
}

// exportReportsJSON returns the full summaries as pretty-printed JSON.
func exportReportsJSON(c *gin.Context, reports []models.ReportSummary, filename string) {
	jsonBytes, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "export_error",
			Message: "Failed to generate JSON export",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", jsonBytes)
}
