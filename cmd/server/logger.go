package main

import (
	"fmt"
	"log/slog"

	"github.com/minhpham2409/quiz-app/internal/config"
	"github.com/minhpham2409/quiz-app/internal/platform/logger"
)

// setupAppLogger initializes the application logger from the configured log
// level and installs it as the process default.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return l, nil
}
