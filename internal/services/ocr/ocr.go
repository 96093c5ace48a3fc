// Package ocr provides image-based text recognition for scanned PDFs.
//
// There is no OCR engine here: pages are rasterized with pdftoppm and fed
// to the external tesseract binary, tagged for French + English clinical
// text. Both tools are invoked through a small Runner interface so tests
// can stub the external commands.
package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config holds the external tool locations and recognition settings.
type Config struct {
	Pdftoppm  string // path to pdftoppm; empty disables OCR
	Tesseract string // path to tesseract; empty disables OCR
	Language  string // tesseract language spec, default "fra+eng"
	DPI       int    // rasterization DPI, default 300
}

// Extractor runs the rasterize-then-recognize pipeline.
type Extractor struct {
	cfg    Config
	runner Runner
}

// NewExtractor creates an OCR extractor with defaults filled in.
func NewExtractor(cfg Config) *Extractor {
	if cfg.Language == "" {
		cfg.Language = "fra+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}}
}

// Available reports whether both external tools are configured.
func (e *Extractor) Available() bool {
	return e != nil && e.cfg.Pdftoppm != "" && e.cfg.Tesseract != ""
}

// ExtractPDF rasterizes every page of the PDF at path and runs text
// recognition on each, concatenating page-tagged chunks. Pages that fail
// recognition are skipped; the call fails only when no page produced text.
func (e *Extractor) ExtractPDF(ctx context.Context, path string) (string, error) {
	if !e.Available() {
		return "", fmt.Errorf("ocr tools not available")
	}

	tmpDir, err := os.MkdirTemp("", "radreport-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp>/page
	if _, stderr, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix); err != nil {
		return "", fmt.Errorf("pdftoppm failed: %w (%s)", err, truncate(string(stderr), 512))
	}

	// Collect the generated images (page-1.png, page-2.png, ...).
	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if len(pages) == 0 {
		return "", fmt.Errorf("pdftoppm produced no page images")
	}

	var sb strings.Builder
	for i, img := range pages {
		// tesseract <img> stdout -l fra+eng
		stdout, _, err := e.runner.Run(ctx, e.cfg.Tesseract, img, "stdout", "-l", e.cfg.Language)
		if err != nil {
			continue
		}
		chunk := strings.TrimSpace(string(stdout))
		if chunk == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("--- Page %d ---\n", i+1))
		sb.WriteString(chunk)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("ocr recognized no text")
	}
	return text, nil
}
