// Package analyzer asks an LLM to flag risky clauses in contract text.
//
// The model is reached through langchaingo's OpenAI client, which speaks the
// OpenAI chat completions format (so any compatible endpoint works via
// OPENAI_BASE_URL). The service depends only on the llms.Model interface,
// which keeps it testable without network access.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

var (
	// ErrNotConfigured is returned when no API key was provided.
	ErrNotConfigured = errors.New("contract analysis is not configured; set OPENAI_API_KEY")

	// ErrAttemptsExhausted wraps the last model error once every attempt failed.
	ErrAttemptsExhausted = errors.New("model call failed")
)

// Options configures the analyzer.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string        // Optional OpenAI-compatible endpoint
	Attempts    int           // Total model calls per analysis (min 1)
	Backoff     time.Duration // Delay before the 2nd attempt; doubles after that
	PromptChars int           // Contract characters included in the prompt
}

// Result holds the flags produced for one contract.
type Result struct {
	Flags  []byte // JSON object; {"raw": "..."} when the model ignored the format
	Raw    string // Model output as returned
	Model  string
	Prompt string
}

// Service runs contract analyses.
type Service struct {
	llm         llms.Model // nil when not configured
	model       string
	attempts    int
	backoff     time.Duration
	promptChars int
	logger      *zap.Logger
}

// New builds a Service backed by the OpenAI client. Without an API key the
// service is created anyway and every Analyze call returns ErrNotConfigured,
// so the server can still start (and report it on /health) in development.
func New(opts Options, logger *zap.Logger) (*Service, error) {
	if opts.APIKey == "" {
		return newService(nil, opts, logger), nil
	}

	clientOpts := []openai.Option{
		openai.WithToken(opts.APIKey),
		openai.WithModel(opts.Model),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(opts.BaseURL))
	}

	llm, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return newService(llm, opts, logger), nil
}

// NewWithModel builds a Service around an existing llms.Model.
func NewWithModel(llm llms.Model, opts Options, logger *zap.Logger) *Service {
	return newService(llm, opts, logger)
}

func newService(llm llms.Model, opts Options, logger *zap.Logger) *Service {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.PromptChars < 1 {
		opts.PromptChars = 3500
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		llm:         llm,
		model:       opts.Model,
		attempts:    opts.Attempts,
		backoff:     opts.Backoff,
		promptChars: opts.PromptChars,
		logger:      logger,
	}
}

// Configured reports whether the service can reach a model.
func (s *Service) Configured() bool {
	return s.llm != nil
}

// Model returns the configured model name.
func (s *Service) Model() string {
	return s.model
}

// Attempts returns how many model calls Analyze makes before giving up.
func (s *Service) Attempts() int {
	return s.attempts
}

// Analyze flags risky clauses in contractText.
//
// The model is called up to s.attempts times. Output that is not a JSON
// object is kept verbatim under a "raw" key rather than treated as a failure.
func (s *Service) Analyze(ctx context.Context, contractText string) (*Result, error) {
	if s.llm == nil {
		return nil, ErrNotConfigured
	}

	prompt := buildPrompt(promptWindow(contractText, s.promptChars))

	var (
		output  string
		lastErr error
	)
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			delay := s.backoff << (attempt - 2)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		output, lastErr = llms.GenerateFromSinglePrompt(ctx, s.llm, prompt)
		if lastErr == nil {
			break
		}
		s.logger.Warn("model call failed",
			zap.Int("attempt", attempt),
			zap.Int("attempts", s.attempts),
			zap.Error(lastErr))
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w after %d attempts: %v", ErrAttemptsExhausted, s.attempts, lastErr)
	}

	flags, structured := parseFlags(output)
	if !structured {
		s.logger.Warn("model output is not a JSON object; storing raw text",
			zap.Int("output_length", len(output)))
	}

	return &Result{
		Flags:  flags,
		Raw:    output,
		Model:  s.model,
		Prompt: prompt,
	}, nil
}
