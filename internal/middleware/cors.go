// cors.go configures Cross-Origin Resource Sharing (CORS).
//
// Browser front-ends served from another origin (the Vite dev server on
// localhost:5173, for instance) need these headers to call /upload.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns configured CORS middleware.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-Request-ID", "Content-Length"},
		MaxAge:        12 * time.Hour, // Cache preflight responses
	}

	// "*" means any origin; gin-contrib/cors wants AllowAllOrigins for that.
	for _, o := range allowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = allowedOrigins
	return cors.New(cfg)
}
