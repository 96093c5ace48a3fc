// Package main is a CLI for ingesting a directory of report PDFs.
//
// It runs the same extraction pipeline as the HTTP API but reads PDFs
// straight from disk, so an archive of historical reports can be loaded
// without going through uploads:
//
//	ingest -dir /data/reports -db radreports.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/clinidata/radreport-api/internal/config"
	"github.com/clinidata/radreport-api/internal/database"
	"github.com/clinidata/radreport-api/internal/services/ocr"
	"github.com/clinidata/radreport-api/internal/services/pdftext"
	"github.com/clinidata/radreport-api/internal/services/report"
)

func main() {
	dir := flag.String("dir", "", "directory of PDF files to ingest (required)")
	dbPath := flag.String("db", "", "SQLite database path (default: DATABASE_PATH or radreports.db)")
	migrationsPath := flag.String("migrations", "", "migrations directory (default: MIGRATIONS_PATH or migrations)")
	verbose := flag.Bool("v", false, "log per-file details")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *migrationsPath != "" {
		cfg.MigrationsPath = *migrationsPath
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	var ocrExtractor *ocr.Extractor
	if cfg.OCRAvailable() {
		ocrExtractor = ocr.NewExtractor(ocr.Config{
			Pdftoppm:  cfg.PdftoppmPath,
			Tesseract: cfg.TesseractPath,
			Language:  cfg.OCRLanguage,
			DPI:       cfg.OCRDPI,
		})
	} else {
		log.Println("⚠️  OCR fallback disabled (install pdftoppm and tesseract for scanned PDFs)")
	}
	extractor := pdftext.New(ocrExtractor, cfg.OCRTextThreshold)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("❌ Failed to read directory %s: %v", *dir, err)
	}

	var pdfs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.ToLower(filepath.Ext(name)) == ".pdf" {
			pdfs = append(pdfs, name)
		}
	}
	sort.Strings(pdfs)

	if len(pdfs) == 0 {
		log.Fatalf("❌ No PDF files found in %s", *dir)
	}
	log.Printf("📦 Ingesting %d PDF files from %s", len(pdfs), *dir)

	ctx := context.Background()
	success, failed := 0, 0
	for _, name := range pdfs {
		if err := ingestFile(ctx, db, extractor, cfg, filepath.Join(*dir, name), name, *verbose); err != nil {
			failed++
			log.Printf("❌ %s: %v", name, err)
		} else {
			success++
		}
	}

	log.Printf("✅ Done: %d succeeded, %d failed (of %d)", success, failed, len(pdfs))
	if failed > 0 {
		os.Exit(1)
	}
}

func ingestFile(ctx context.Context, db *database.DB, extractor *pdftext.Extractor, cfg *config.Config, path, name string, verbose bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if !pdftext.ValidatePDF(data) {
		return fmt.Errorf("not a valid PDF")
	}

	result := extractor.Extract(ctx, data)
	if len(result.Text) < cfg.MinReportLength {
		return fmt.Errorf("only %d characters extracted (method=%s)", len(result.Text), result.Method)
	}

	rep, coherence := report.Build(result.Text, name)
	if err := db.UpsertReport(ctx, rep); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	if verbose {
		log.Printf("✅ %s → %s (specialty=%s, coherence=%s)", name, rep.ID, rep.Specialty, coherence.Reason)
	}
	return nil
}
