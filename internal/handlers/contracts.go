// contracts.go serves stored analyses.
//
// GET /contracts      recent analyses, newest first
// GET /contracts/:id  a single analysis including the stored text
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autovendor/contract-flags/internal/database"
	"github.com/autovendor/contract-flags/internal/models"
)

// ListContracts returns recent contract analyses.
// GET /contracts?limit=20
func (h *Handler) ListContracts(c *gin.Context) {
	var params models.ContractListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abort(c, http.StatusBadRequest, "invalid_request", "limit must be a number")
		return
	}

	contracts, err := h.Store.ListContracts(c.Request.Context(), params.Limit)
	if err != nil {
		h.Logger.Error("failed to list contracts", zap.Error(err))
		abort(c, http.StatusInternalServerError, "database_error", "Failed to list contracts")
		return
	}

	// Go Pattern: a nil slice marshals to null; clients expect [].
	if contracts == nil {
		contracts = []models.Contract{}
	}

	c.JSON(http.StatusOK, contracts)
}

// GetContract retrieves a single contract analysis by ID.
// GET /contracts/:id
func (h *Handler) GetContract(c *gin.Context) {
	id := c.Param("id")

	// Postgres rejects malformed UUIDs with a syntax error; treat them as missing.
	if _, err := uuid.Parse(id); err != nil {
		abort(c, http.StatusNotFound, "not_found", "Contract not found")
		return
	}

	contract, err := h.Store.GetContract(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		abort(c, http.StatusNotFound, "not_found", "Contract not found")
		return
	}
	if err != nil {
		h.Logger.Error("failed to get contract", zap.String("contract_id", id), zap.Error(err))
		abort(c, http.StatusInternalServerError, "database_error", "Failed to load contract")
		return
	}

	c.JSON(http.StatusOK, contract)
}
