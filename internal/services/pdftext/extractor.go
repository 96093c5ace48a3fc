// Package pdftext obtains the best-effort plain text of a report PDF.
//
// Three layers, in order: the ledongthuc/pdf text-layer extractor, then
// go-fitz (MuPDF) when the first yields nothing, then OCR when the cleaned
// text stays under a length threshold — scanned documents have a text layer
// that is empty or nearly so. Every layer failure degrades to "less text",
// never to an error: the only unrecoverable outcome is an empty string.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"

	"github.com/clinidata/radreport-api/internal/services/ocr"
	"github.com/clinidata/radreport-api/internal/services/report"
)

// Result holds the output of a text extraction.
type Result struct {
	Text      string `json:"text"`       // cleaned text content
	PageCount int    `json:"page_count"` // pages seen by the text layer
	Method    string `json:"method"`     // "text-layer", "text-layer-secondary" or "ocr"
}

// Extractor runs the layered extraction chain.
type Extractor struct {
	ocr       *ocr.Extractor // nil or unavailable disables the OCR fallback
	threshold int            // run OCR below this many cleaned characters
}

// New creates an extractor. threshold <= 0 uses the default of 200.
func New(ocrExtractor *ocr.Extractor, threshold int) *Extractor {
	if threshold <= 0 {
		threshold = 200
	}
	return &Extractor{ocr: ocrExtractor, threshold: threshold}
}

// Extract returns the best-effort cleaned text for the PDF bytes. An
// unrecoverable document yields an empty Text, not an error.
func (e *Extractor) Extract(ctx context.Context, data []byte) Result {
	text, pages := extractTextLayer(data)
	method := "text-layer"

	if strings.TrimSpace(text) == "" {
		if alt, altPages := extractWithFitz(data); strings.TrimSpace(alt) != "" {
			text, pages = alt, altPages
			method = "text-layer-secondary"
		}
	}

	text = report.CleanText(text)

	// Short text layer points at a scanned document: try OCR. An OCR
	// failure keeps whatever the text layer produced.
	if len(text) < e.threshold && e.ocr.Available() {
		if ocrText, err := e.runOCR(ctx, data); err == nil && ocrText != "" {
			return Result{Text: ocrText, PageCount: pages, Method: "ocr"}
		} else if err != nil {
			log.Printf("⚠️  OCR fallback failed, keeping text-layer result: %v", err)
		}
	}

	return Result{Text: text, PageCount: pages, Method: method}
}

// extractTextLayer reads the PDF text layer page by page, concatenating
// whatever extracts; pages that fail are skipped.
func extractTextLayer(data []byte) (string, int) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0
	}

	pageCount := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.TrimSpace(text))
	}
	return sb.String(), pageCount
}

// extractWithFitz is the secondary text-layer extractor (MuPDF); some PDFs
// that defeat the primary parser carry a text layer MuPDF can read.
func extractWithFitz(data []byte) (string, int) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", 0
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	var sb strings.Builder
	for i := 0; i < pageCount; i++ {
		text, err := doc.Text(i)
		if err != nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.TrimSpace(text))
	}
	return sb.String(), pageCount
}

// runOCR writes the upload to a temp file (the external tools want a path)
// and runs the rasterize+recognize pipeline.
func (e *Extractor) runOCR(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "radreport-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	text, err := e.ocr.ExtractPDF(ctx, tmp.Name())
	if err != nil {
		return "", err
	}
	return report.CleanText(text), nil
}

// ValidatePDF checks if the data looks like a valid PDF by magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
