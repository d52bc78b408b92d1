// upload.go handles contract uploads.
//
// POST /upload: multipart PDF upload, returns {"flags": {...}}
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autovendor/contract-flags/internal/middleware"
	"github.com/autovendor/contract-flags/internal/models"
	"github.com/autovendor/contract-flags/internal/services/analyzer"
	pdfservice "github.com/autovendor/contract-flags/internal/services/pdf"
)

// UploadContract extracts the text of an uploaded PDF, has the analyzer flag
// risky clauses, stores the result and returns the flags.
// POST /upload
//
// Accepts multipart file upload with field name "file".
// Processing is synchronous: the response carries the finished analysis.
func (h *Handler) UploadContract(c *gin.Context) {
	log := h.Logger.With(zap.String("request_id", middleware.RequestID(c)))

	// Limit request body size
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			abort(c, http.StatusRequestEntityTooLarge, "file_too_large",
				fmt.Sprintf("File too large. Max size: %dMB.", h.opts.MaxUploadBytes>>20))
			return
		}
		abort(c, http.StatusBadRequest, "invalid_request",
			"No PDF file provided. Upload a file with the field name 'file'.")
		return
	}
	defer file.Close()

	log = log.With(zap.String("file_name", header.Filename))

	if !pdfservice.HasPDFExtension(header.Filename) {
		abort(c, http.StatusBadRequest, "invalid_file_type", "Only PDF files are supported.")
		return
	}

	// Go Pattern: io.ReadAll reads the entire reader into a byte slice.
	// The pdf library needs random access, so the whole file goes in memory.
	data, err := io.ReadAll(file)
	if err != nil {
		abort(c, http.StatusBadRequest, "read_error", "Failed to read uploaded file")
		return
	}

	if !pdfservice.ValidatePDF(data) {
		abort(c, http.StatusBadRequest, "invalid_pdf", "The uploaded file does not appear to be a valid PDF")
		return
	}

	extraction, err := h.extract(data)
	if err != nil {
		log.Error("PDF extraction failed", zap.Error(err))
		abort(c, http.StatusInternalServerError, "extraction_failed", "Failed to read PDF")
		return
	}

	result, err := h.Analyzer.Analyze(c.Request.Context(), extraction.Text)
	if err != nil {
		log.Error("contract analysis failed", zap.Error(err))
		switch {
		case errors.Is(err, analyzer.ErrNotConfigured):
			abort(c, http.StatusServiceUnavailable, "analysis_unavailable", "Contract analysis is not configured")
		case errors.Is(err, analyzer.ErrAttemptsExhausted):
			abort(c, http.StatusInternalServerError, "analysis_failed",
				fmt.Sprintf("OpenAI API failed after %d attempts", h.Analyzer.Attempts()))
		default:
			abort(c, http.StatusInternalServerError, "analysis_failed", "Contract analysis failed")
		}
		return
	}

	contract := &models.Contract{
		ID:        uuid.NewString(),
		FileName:  header.Filename,
		RawText:   analyzer.TruncateRunes(extraction.Text, h.opts.RawTextChars),
		Flags:     result.Flags,
		PageCount: extraction.PageCount,
		WordCount: extraction.WordCount,
		Model:     result.Model,
	}
	if err := h.Store.CreateContract(c.Request.Context(), contract); err != nil {
		log.Error("contract insert failed", zap.Error(err))
		abort(c, http.StatusInternalServerError, "database_error", "Database insert failed")
		return
	}

	log.Info("contract analyzed",
		zap.String("contract_id", contract.ID),
		zap.Int("page_count", contract.PageCount),
		zap.Int("word_count", contract.WordCount))

	c.JSON(http.StatusOK, models.UploadResponse{
		ID:    contract.ID,
		Flags: contract.Flags,
	})
}
