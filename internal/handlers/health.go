// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, String, Status)
// - Middleware data (c.Get/c.Set)
//
// We group related handlers into a struct (Handler) that holds shared dependencies.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autovendor/contract-flags/internal/models"
	"github.com/autovendor/contract-flags/internal/services/analyzer"
	pdfservice "github.com/autovendor/contract-flags/internal/services/pdf"
)

// ContractStore is the persistence the handlers need. *database.DB implements it.
type ContractStore interface {
	HealthCheck(ctx context.Context) error
	CreateContract(ctx context.Context, c *models.Contract) error
	GetContract(ctx context.Context, id string) (*models.Contract, error)
	ListContracts(ctx context.Context, limit int) ([]models.Contract, error)
}

// ContractAnalyzer produces flags for contract text. *analyzer.Service implements it.
type ContractAnalyzer interface {
	Analyze(ctx context.Context, contractText string) (*analyzer.Result, error)
	Configured() bool
	Attempts() int
}

// Options holds the tunables the handlers read from config.
type Options struct {
	Version        string
	MaxUploadBytes int64
	RawTextChars   int
}

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables, we pass dependencies explicitly and tests hand in fakes.
type Handler struct {
	Store    ContractStore
	Analyzer ContractAnalyzer
	Logger   *zap.Logger
	opts     Options

	// extract is swappable so tests don't need real PDF bytes.
	extract func([]byte) (*pdfservice.ExtractionResult, error)
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(store ContractStore, an ContractAnalyzer, logger *zap.Logger, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 50 << 20
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Handler{
		Store:    store,
		Analyzer: an,
		Logger:   logger,
		opts:     opts,
		extract:  pdfservice.Extract,
	}
}

// HealthCheck returns the API health status.
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	dbStatus := "healthy"
	if err := h.Store.HealthCheck(c.Request.Context()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	analyzerStatus := "configured"
	if !h.Analyzer.Configured() {
		analyzerStatus = "not configured"
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:   "ok",
		Version:  h.opts.Version,
		Database: dbStatus,
		Analyzer: analyzerStatus,
	})
}

// abort writes an ErrorResponse and stops the handler chain.
func abort(c *gin.Context, code int, kind, detail string) {
	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:  kind,
		Detail: detail,
		Code:   code,
	})
}
