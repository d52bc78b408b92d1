// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// The `db` tags work with sqlx for database column mapping. The database
// package handles persistence; models are just data containers.
package models

import (
	"encoding/json"
	"time"
)

// Contract is one analyzed contract upload stored in the database.
type Contract struct {
	ID        string          `json:"id" db:"id"`
	FileName  string          `json:"file_name" db:"file_name"`
	RawText   string          `json:"raw_text,omitempty" db:"raw_text"` // Truncated extracted text
	Flags     json.RawMessage `json:"flags" db:"flags"`                 // JSONB, stored as raw JSON
	PageCount int             `json:"page_count" db:"page_count"`
	WordCount int             `json:"word_count" db:"word_count"`
	Model     string          `json:"model" db:"model"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// --- Request/Response DTOs ---

// UploadResponse is the body of a successful POST /upload.
// Clients only rely on "flags"; the id lets them fetch the stored record later.
type UploadResponse struct {
	ID    string          `json:"id,omitempty"`
	Flags json.RawMessage `json:"flags"`
}

// ContractListParams holds query parameters for listing contracts.
type ContractListParams struct {
	Limit int `form:"limit"`
}

// ErrorResponse is the standard error format for all API errors.
// "detail" carries the human-readable message that clients display.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
	Code   int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
	Analyzer string `json:"analyzer"`
}
