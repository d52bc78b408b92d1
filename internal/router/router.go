// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autovendor/contract-flags/internal/handlers"
	"github.com/autovendor/contract-flags/internal/middleware"
)

// Setup creates and configures the Gin router with all routes.
func Setup(h *handlers.Handler, rl *middleware.RateLimiter, logger *zap.Logger, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	r.GET("/health", h.HealthCheck)

	// API Documentation
	r.GET("/docs", h.ServeSwaggerUI)
	r.GET("/docs/openapi.yaml", h.ServeOpenAPISpec)
	r.GET("/docs/openapi.json", h.ServeOpenAPIJSON)

	// Uploads are the only expensive route, so only they are rate limited.
	r.POST("/upload", rl.RateLimit(), h.UploadContract)

	r.GET("/contracts", h.ListContracts)
	r.GET("/contracts/:id", h.GetContract)

	return r
}
