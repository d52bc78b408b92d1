// Package main is the entry point for the Contract Flags API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autovendor/contract-flags/internal/config"
	"github.com/autovendor/contract-flags/internal/database"
	"github.com/autovendor/contract-flags/internal/handlers"
	"github.com/autovendor/contract-flags/internal/logging"
	"github.com/autovendor/contract-flags/internal/middleware"
	"github.com/autovendor/contract-flags/internal/router"
	"github.com/autovendor/contract-flags/internal/services/analyzer"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.GinMode)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	logger.Info("contract flags API starting",
		zap.String("version", Version),
		zap.String("port", cfg.Port),
		zap.String("gin_mode", cfg.GinMode))

	// Step 2: Connect to Database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("database connected")

	if err := db.RunMigrations(cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	// Step 3: Create Services
	an, err := analyzer.New(analyzer.Options{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		BaseURL:     cfg.OpenAIBaseURL,
		Attempts:    cfg.AnalysisAttempts,
		Backoff:     time.Second,
		PromptChars: cfg.PromptChars,
	}, logger)
	if err != nil {
		logger.Fatal("failed to create analyzer", zap.Error(err))
	}
	if an.Configured() {
		logger.Info("contract analysis enabled", zap.String("model", cfg.OpenAIModel))
	} else {
		logger.Warn("contract analysis disabled (set OPENAI_API_KEY to enable)")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.UploadRateLimit)
	defer rateLimiter.Stop()

	// Step 4: Setup HTTP Router
	h := handlers.NewHandler(db, an, logger, handlers.Options{
		Version:        Version,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		RawTextChars:   cfg.RawTextChars,
	})
	r := router.Setup(h, rateLimiter, logger, cfg.AllowedOrigins)

	// Step 5: Start the HTTP Server
	// WriteTimeout covers the whole synchronous analysis, retries included.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Step 6: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
