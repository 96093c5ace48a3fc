// batch.go handles batch ingestion of report PDFs.
//
// POST /api/v1/reports/batch — Upload a ZIP archive of PDFs
//
// Files are processed synchronously, one at a time, in archive order.
// Extraction is CPU- and subprocess-bound (OCR), so there is nothing to
// gain from fanning out on a single machine, and per-file status stays
// trivially ordered.
package handlers

import (
	"archive/zip"
	"bytes"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinidata/radreport-api/internal/models"
	"github.com/clinidata/radreport-api/internal/services/pdftext"
	"github.com/clinidata/radreport-api/internal/services/report"
)

// maxBatchSize is the max upload size for ZIP archives (200MB).
const maxBatchSize = 200 << 20

// BatchExtract processes every PDF in an uploaded ZIP archive.
// POST /api/v1/reports/batch
func (h *Handler) BatchExtract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "No archive provided. Upload a ZIP file with the field name 'file'. Max size: 200MB.",
			Code:    http.StatusBadRequest,
		})
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".zip" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_file_type",
			Message: "Batch ingestion expects a .zip archive of PDF files",
			Code:    http.StatusBadRequest,
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "read_error",
			Message: "Failed to read uploaded archive",
			Code:    http.StatusBadRequest,
		})
		return
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_archive",
			Message: "The uploaded file is not a valid ZIP archive",
			Code:    http.StatusBadRequest,
		})
		return
	}

	resp := models.BatchResponse{Details: []models.BatchDetail{}}
	for _, entry := range archive.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(entry.Name)
		if strings.ToLower(filepath.Ext(name)) != ".pdf" || strings.HasPrefix(name, ".") {
			continue
		}
		resp.Total++

		detail := h.processBatchEntry(c, entry, name)
		if detail.Status == "success" {
			resp.Success++
		} else {
			resp.Failed++
		}
		resp.Details = append(resp.Details, detail)
	}

	log.Printf("📦 Batch %s: %d files, %d succeeded, %d failed",
		header.Filename, resp.Total, resp.Success, resp.Failed)
	c.JSON(http.StatusOK, resp)
}

// processBatchEntry extracts and stores a single archive entry. Failures
// are recorded per file so one bad scan never aborts the whole batch.
func (h *Handler) processBatchEntry(c *gin.Context, entry *zip.File, name string) models.BatchDetail {
	rc, err := entry.Open()
	if err != nil {
		return models.BatchDetail{File: name, Status: "extraction_failed"}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil || !pdftext.ValidatePDF(data) {
		return models.BatchDetail{File: name, Status: "extraction_failed"}
	}

	result := h.Extractor.Extract(c.Request.Context(), data)
	if len(result.Text) < h.Config.MinReportLength {
		log.Printf("⚠️ Batch entry %s: only %d characters extracted, skipping", name, len(result.Text))
		return models.BatchDetail{File: name, Status: "extraction_failed"}
	}

	rep, _ := report.Build(result.Text, name)
	if err := h.DB.UpsertReport(c.Request.Context(), rep); err != nil {
		log.Printf("❌ Batch entry %s: save failed: %v", name, err)
		return models.BatchDetail{File: name, ID: rep.ID, Status: "save_failed"}
	}

	return models.BatchDetail{File: name, ID: rep.ID, Status: "success"}
}
