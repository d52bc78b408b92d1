// Package logging builds the application's structured logger.
//
// Go Pattern: The logger is created once in main and passed down to every
// component that needs it. No package-level globals, so tests can hand in
// zap.NewNop() and stay quiet.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a development logger for gin's "debug" mode and a JSON
// production logger for everything else.
func New(mode string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if mode == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
