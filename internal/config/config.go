// Package config handles application configuration.
//
// Configuration comes from environment variables with sensible defaults.
// A struct holds the values and a Load function reads them — Go keeps this
// explicit rather than hiding it behind a framework.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    string
	GinMode string // "debug", "release", or "test"

	// Storage settings
	DatabasePath   string // SQLite database file
	MigrationsPath string

	// OCR fallback tools (external binaries)
	PdftoppmPath  string
	TesseractPath string
	OCRLanguage   string // tesseract language spec, e.g. "fra+eng"
	OCRDPI        int    // rasterization DPI for scanned pages

	// Extraction thresholds
	OCRTextThreshold int // run OCR when the text layer yields fewer chars
	MinReportLength  int // below this, extraction is reported as a failure

	// JWT Authentication
	JWTSecret string

	// Admin API key for bootstrap operations (creating first API keys).
	// Protects the key creation endpoint in production.
	AdminAPIKey string

	// Rate limiting
	DefaultRateLimit int // requests per minute per API key

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// SQLite file — a single local store, one writer at a time
		DatabasePath:   getEnv("DATABASE_PATH", "radreports.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		// OCR tools — resolved from PATH when not set explicitly
		PdftoppmPath:  getEnv("PDFTOPPM_PATH", findBinary("pdftoppm")),
		TesseractPath: getEnv("TESSERACT_PATH", findBinary("tesseract")),
		OCRLanguage:   getEnv("OCR_LANGUAGE", "fra+eng"),
		OCRDPI:        getEnvInt("OCR_DPI", 300),

		// Extraction thresholds — below 200 chars of text layer we assume a
		// scanned document and try OCR; below 100 chars total the document is
		// rejected as unusable.
		OCRTextThreshold: getEnvInt("OCR_TEXT_THRESHOLD", 200),
		MinReportLength:  getEnvInt("MIN_REPORT_LENGTH", 100),

		// JWT Authentication
		JWTSecret: getEnv("JWT_SECRET", "dev-jwt-secret-change-in-production"),

		// Admin API key — optional in dev, required in production
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		// Rate limiting
		DefaultRateLimit: getEnvInt("DEFAULT_RATE_LIMIT", 100),

		// CORS — in production, set this to your frontend URL
		AllowedOrigins: []string{
			getEnv("CORS_ORIGIN", "http://localhost:5173"),
		},
	}

	// Security: refuse to start in release mode with the default secret.
	if cfg.GinMode == "release" && cfg.JWTSecret == "dev-jwt-secret-change-in-production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production; refusing to start with default secret")
	}

	// Security: the admin key protects API key creation in production.
	if cfg.GinMode == "release" && cfg.AdminAPIKey == "" {
		return nil, fmt.Errorf("ADMIN_API_KEY must be set in production; this protects API key creation")
	}

	return cfg, nil
}

// OCRAvailable reports whether both external OCR tools were found.
// Missing tools are not fatal — extraction degrades to the text layer only.
func (c *Config) OCRAvailable() bool {
	return c.PdftoppmPath != "" && c.TesseractPath != ""
}

// getEnv reads an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}

// findBinary locates an external tool on PATH; empty string when absent.
func findBinary(name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return path
}
