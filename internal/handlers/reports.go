// reports.go handles report extraction and retrieval HTTP endpoints.
//
// POST   /api/v1/reports/extract      — Upload a PDF, extract and store a report
// POST   /api/v1/reports/extract-text — Split raw text into sections (no storage)
// GET    /api/v1/reports              — List stored reports (paginated)
// GET    /api/v1/reports/:id          — Get a single report with full text
// DELETE /api/v1/reports/:id          — Delete a report
package handlers

import (
	"fmt"
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

// maxPDFSize is the max upload size for PDF files (50MB).
const maxPDFSize = 50 << 20 // 50MB

// ExtractReport handles PDF upload, extraction and storage.
// POST /api/v1/reports/extract
//
// Accepts a multipart file upload with field name "file". Only .pdf files
// are accepted. Processing is synchronous: text layer first, OCR fallback
// when the text layer is too thin to be a real report.
func (h *Handler) ExtractReport(c *gin.Context) {
	// Limit request body size
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPDFSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "No PDF file provided. Upload a file with the field name 'file'. Max size: 50MB.",
			Code:    http.StatusBadRequest,
		})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_file_type",
			Message: fmt.Sprintf("Unsupported file format '%s'. Only .pdf files are accepted.", ext),
			Code:    http.StatusBadRequest,
		})
		return
	}

	// The PDF libraries need random access, so read the whole upload.
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "read_error",
			Message: "Failed to read uploaded file",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if !pdftext.ValidatePDF(data) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_pdf",
			Message: "The uploaded file does not appear to be a valid PDF",
			Code:    http.StatusBadRequest,
		})
		return
	}

	result := h.Extractor.Extract(c.Request.Context(), data)
	if len(result.Text) < h.Config.MinReportLength {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "extraction_failed",
			Message: fmt.Sprintf("Could not extract a usable report from '%s' (got %d characters). The PDF may be a scan with no recoverable text.", header.Filename, len(result.Text)),
			Code:    http.StatusUnprocessableEntity,
		})
		return
	}

	rep, coherence := report.Build(result.Text, header.Filename)

	saved := true
	if err := h.DB.UpsertReport(c.Request.Context(), rep); err != nil {
		log.Printf("❌ Failed to save report %s: %v", rep.ID, err)
		saved = false
		// Still return the extracted report even if the save failed.
	}

	c.JSON(http.StatusOK, models.ExtractResponse{
		Report:    rep,
		Coherence: coherence,
		Saved:     saved,
	})
}

// ExtractText splits raw report text into sections without storing anything.
// POST /api/v1/reports/extract-text
//
// Useful for testing the section heuristics or processing text that did
// not come from a PDF.
func (h *Handler) ExtractText(c *gin.Context) {
	var req models.ExtractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must be JSON with a non-empty 'text' field",
			Code:    http.StatusBadRequest,
		})
		return
	}

	sections := report.SplitSections(report.CleanText(req.Text))
	c.JSON(http.StatusOK, models.ExtractTextResponse{Sections: sections})
}

// ListReports returns stored reports, paginated and optionally filtered.
// GET /api/v1/reports?page=1&per_page=20&specialty=Spine&search=dupont
func (h *Handler) ListReports(c *gin.Context) {
	var params models.ReportListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid query parameters: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	reports, total, err := h.DB.ListReports(c.Request.Context(), params)
	if err != nil {
		log.Printf("❌ Failed to list reports: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list reports",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if reports == nil {
		reports = []models.ReportSummary{}
	}

	perPage := params.PerPage
	if perPage <= 0 {
		perPage = 20
	} else if perPage > 100 {
		perPage = 100
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}
	totalPages := (total + perPage - 1) / perPage

	c.JSON(http.StatusOK, models.PaginatedResponse[models.ReportSummary]{
		Data:       reports,
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// GetReport retrieves a single report by ID, including the raw text.
// GET /api/v1/reports/:id
func (h *Handler) GetReport(c *gin.Context) {
	id := c.Param("id")

	rep, err := h.DB.GetReport(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Report not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, rep)
}

// DeleteReport removes a report by ID.
// DELETE /api/v1/reports/:id
func (h *Handler) DeleteReport(c *gin.Context) {
	id := c.Param("id")

	if err := h.DB.DeleteReport(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Report not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.Status(http.StatusNoContent)
}
