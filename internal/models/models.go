// Package models defines the data structures used throughout the application.
//
// Models are plain structs with JSON tags for serialization. The `db` tags
// work with sqlx for database column mapping — no ORM involved; the database
// package handles persistence with raw SQL.
package models

import (
	"time"
)

// Specialty is a fixed-enumeration classification tag assigned to a report
// based on exam/technique keywords.
type Specialty string

// The fixed specialty enumeration. SpecialtyDefault is the catch-all used
// when no keyword matches.
const (
	SpecialtyBreast       Specialty = "Breast"
	SpecialtyCardiac      Specialty = "Cardiac"
	SpecialtyGI           Specialty = "Gastrointestinal"
	SpecialtyGU           Specialty = "Genitourinary"
	SpecialtyDefault      Specialty = "IA"
	SpecialtyIntervention Specialty = "Interventional"
	SpecialtyMSK          Specialty = "MSK"
	SpecialtyNeuroBrain   Specialty = "Neuroradiology Brain"
	SpecialtyNeuroORL     Specialty = "Neuroradiology ORL"
	SpecialtyNuclear      Specialty = "Nuclearetmolecular"
	SpecialtyObstetrical  Specialty = "Obstetrical"
	SpecialtyPediatrics   Specialty = "Pediatrics"
	SpecialtyPhysics      Specialty = "Physics"
	SpecialtySpine        Specialty = "Spine"
	SpecialtyThoracic     Specialty = "Thoracic"
	SpecialtyVascular     Specialty = "Vascular"
)

// Specialties lists every valid specialty value.
var Specialties = []Specialty{
	SpecialtyBreast, SpecialtyCardiac, SpecialtyGI, SpecialtyGU,
	SpecialtyDefault, SpecialtyIntervention, SpecialtyMSK,
	SpecialtyNeuroBrain, SpecialtyNeuroORL, SpecialtyNuclear,
	SpecialtyObstetrical, SpecialtyPediatrics, SpecialtyPhysics,
	SpecialtySpine, SpecialtyThoracic, SpecialtyVascular,
}

// Section map keys. A SectionMap always carries every key, possibly with an
// empty value.
const (
	SectionExamType    = "exam_type"
	SectionIndication  = "indication"
	SectionTechnique   = "technique"
	SectionDescription = "description"
	SectionConclusion  = "conclusion"
	SectionValidatedBy = "validated_by"
)

// SectionMap maps a section name to its extracted text.
type SectionMap map[string]string

// NewSectionMap returns a section map with all keys present and empty.
func NewSectionMap() SectionMap {
	return SectionMap{
		SectionExamType:    "",
		SectionIndication:  "",
		SectionTechnique:   "",
		SectionDescription: "",
		SectionConclusion:  "",
		SectionValidatedBy: "",
	}
}

// Report is the flat structured record extracted from one report document.
//
// The identifier is derived ({date}_{patient}_{filename-stem}) and is NOT
// collision-safe: two documents sharing all three components overwrite each
// other on upsert. Pointer fields are nullable — extraction that finds
// nothing leaves them nil rather than failing.
type Report struct {
	ID                string    `json:"id" db:"id"`
	ExamDate          *string   `json:"exam_date" db:"exam_date"` // "YYYY-MM-DD" or null
	PatientName       string    `json:"patient_name" db:"patient_name"`
	PatientDOB        string    `json:"patient_dob" db:"patient_dob"`
	PatientAge        *int      `json:"patient_age" db:"patient_age"`
	PatientIdentifier string    `json:"patient_identifier" db:"patient_identifier"`
	ExamType          string    `json:"exam_type" db:"exam_type"`
	Specialty         Specialty `json:"specialty" db:"specialty"`
	Indication        string    `json:"indication" db:"indication"`
	Technique         string    `json:"technique" db:"technique"`
	Description       string    `json:"description" db:"description"`
	Conclusion        string    `json:"conclusion" db:"conclusion"`
	ValidatedBy       string    `json:"validated_by" db:"validated_by"` // semicolon-joined signatories
	RawText           string    `json:"raw_text,omitempty" db:"raw_text"`
	SourceFilename    string    `json:"source_filename" db:"source_filename"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// ReportSummary is the listing view of a report — every field except the
// full raw text.
type ReportSummary struct {
	ID                string    `json:"id" db:"id"`
	ExamDate          *string   `json:"exam_date" db:"exam_date"`
	PatientName       string    `json:"patient_name" db:"patient_name"`
	PatientDOB        string    `json:"patient_dob" db:"patient_dob"`
	PatientAge        *int      `json:"patient_age" db:"patient_age"`
	PatientIdentifier string    `json:"patient_identifier" db:"patient_identifier"`
	ExamType          string    `json:"exam_type" db:"exam_type"`
	Specialty         Specialty `json:"specialty" db:"specialty"`
	Indication        string    `json:"indication" db:"indication"`
	Technique         string    `json:"technique" db:"technique"`
	Description       string    `json:"description" db:"description"`
	Conclusion        string    `json:"conclusion" db:"conclusion"`
	ValidatedBy       string    `json:"validated_by" db:"validated_by"`
	SourceFilename    string    `json:"source_filename" db:"source_filename"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// CoherenceResult is the outcome of the exam/technique coherence check.
type CoherenceResult struct {
	Coherent bool   `json:"coherent"`
	Reason   string `json:"reason"`
}

// User represents a clinician account for JWT authentication.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // "-" = never serialized
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// APIKey represents an API key for authentication.
// We store the HASH of the key, never the raw key itself.
type APIKey struct {
	ID         string     `json:"id" db:"id"`
	KeyHash    string     `json:"-" db:"key_hash"`
	KeyPrefix  string     `json:"key_prefix" db:"key_prefix"` // first chars, for identification
	Name       string     `json:"name" db:"name"`
	Active     bool       `json:"active" db:"active"`
	RateLimit  int        `json:"rate_limit" db:"rate_limit"` // requests per minute
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" db:"last_used_at"`
}

// --- Request/Response DTOs ---

// ExtractTextRequest is the JSON body for POST /api/v1/reports/extract-text.
type ExtractTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// ExtractTextResponse carries the section map parsed from raw text.
type ExtractTextResponse struct {
	Sections SectionMap `json:"sections"`
}

// ExtractResponse is returned by the PDF extraction endpoint. Saved reports
// false when the store write failed — the extracted record is still returned.
type ExtractResponse struct {
	Report    *Report         `json:"report"`
	Coherence CoherenceResult `json:"coherence"`
	Saved     bool            `json:"saved"`
}

// BatchDetail records the outcome for a single file in a batch.
type BatchDetail struct {
	File   string `json:"file"`
	ID     string `json:"id,omitempty"`
	Status string `json:"status"` // "success", "extraction_failed", "save_failed"
}

// BatchResponse aggregates the outcome of a ZIP batch ingestion.
type BatchResponse struct {
	Total   int           `json:"total"`
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Details []BatchDetail `json:"details"`
}

// ReportListParams holds query parameters for listing reports.
type ReportListParams struct {
	Page      int    `form:"page"`      // 1-indexed
	PerPage   int    `form:"per_page"`  // default 20, max 100
	Specialty string `form:"specialty"` // filter by specialty value
	Search    string `form:"search"`    // substring match on patient name / exam type
}

// PaginatedResponse wraps a list response with pagination metadata.
type PaginatedResponse[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// RegisterRequest is the JSON body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest is the JSON body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after successful register/login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateAPIKeyRequest is the JSON body for POST /api/v1/keys.
type CreateAPIKeyRequest struct {
	Name      string `json:"name" binding:"required"`
	RateLimit int    `json:"rate_limit,omitempty"` // 0 = use default
}

// CreateAPIKeyResponse includes the raw key — shown only once at creation time.
type CreateAPIKeyResponse struct {
	APIKey
	RawKey string `json:"raw_key"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
	OCR      string `json:"ocr"`
}
