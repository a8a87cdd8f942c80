// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ManuGH/wellcheck/internal/config"
	"github.com/ManuGH/wellcheck/internal/log"
	"github.com/rs/zerolog"
)

// PerformStartupChecks validates the environment before the servers start.
// A missing model file is only a warning: the service still starts and
// reports not ready.
func PerformStartupChecks(_ context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")

	if err := checkDataDir(cfg.DataDir); err != nil {
		return fmt.Errorf("data directory check failed: %w", err)
	}

	checkModelPath(logger, cfg.Model.Path)

	if cfg.Insights.APIKey == "" {
		logger.Warn().
			Str(log.FieldEvent, "startup.insights_disabled").
			Msg("GOOGLE_API_KEY is not set, insights will use fallback texts")
	}

	logger.Info().Str(log.FieldEvent, "startup.checks_passed").Msg("startup checks passed")
	return nil
}

// checkDataDir creates the data directory if needed and verifies it is
// writable.
func checkDataDir(path string) error {
	if path == "" {
		return fmt.Errorf("data directory is not configured")
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}

	probe, err := os.CreateTemp(path, ".write-check-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(filepath.Clean(name))
}

func checkModelPath(logger zerolog.Logger, path string) {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "startup.model_missing").
			Str(log.FieldModelPath, path).
			Msg("model bundle is not available")
	case info.IsDir():
		logger.Warn().
			Str(log.FieldEvent, "startup.model_invalid").
			Str(log.FieldModelPath, path).
			Msg("model path is a directory")
	}
}
