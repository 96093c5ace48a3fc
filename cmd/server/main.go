// Package main is the entry point for the radiology report API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clinidata/radreport-api/internal/config"
	"github.com/clinidata/radreport-api/internal/database"
	"github.com/clinidata/radreport-api/internal/router"
	"github.com/clinidata/radreport-api/internal/services/ocr"
	"github.com/clinidata/radreport-api/internal/services/pdftext"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 Radiology Report API %s starting...", Version)

	// .env is optional — real deployments set environment variables directly.
	_ = godotenv.Load()

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, db=%s, gin_mode=%s", cfg.Port, cfg.DatabasePath, cfg.GinMode)

	os.Setenv("GIN_MODE", cfg.GinMode)

	// Step 2: Connect to Database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()
	log.Println("✅ Database connected")

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// Step 3: Create Services
	var ocrExtractor *ocr.Extractor
	if cfg.OCRAvailable() {
		ocrExtractor = ocr.NewExtractor(ocr.Config{
			Pdftoppm:  cfg.PdftoppmPath,
			Tesseract: cfg.TesseractPath,
			Language:  cfg.OCRLanguage,
			DPI:       cfg.OCRDPI,
		})
		log.Printf("✅ OCR fallback enabled (pdftoppm=%s, tesseract=%s, lang=%s)",
			cfg.PdftoppmPath, cfg.TesseractPath, cfg.OCRLanguage)
	} else {
		log.Println("⚠️  OCR fallback disabled (install pdftoppm and tesseract for scanned PDFs)")
	}

	extractor := pdftext.New(ocrExtractor, cfg.OCRTextThreshold)

	// Log admin API key status
	if cfg.AdminAPIKey != "" {
		log.Println("✅ Admin API key configured (API key creation protected)")
	} else {
		log.Println("⚠️  No admin API key set (set ADMIN_API_KEY to enable key management)")
	}

	// Step 4: Setup HTTP Router
	r := router.Setup(db, extractor, cfg)

	// Step 5: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // OCR on a large scan can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 6: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server stopped. Goodbye!")
}
