// SPDX-License-Identifier: MIT

// Command daemon runs the wellcheck HTTP service.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ManuGH/wellcheck/internal/config"
	"github.com/ManuGH/wellcheck/internal/daemon"
	"github.com/ManuGH/wellcheck/internal/health"
	"github.com/ManuGH/wellcheck/internal/log"
	"github.com/ManuGH/wellcheck/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(runHealthcheckCLI(os.Args[2:]))
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		os.Exit(0)
	}

	// Safe defaults until the configuration is loaded.
	log.Configure(log.Config{
		Level:   "info",
		Service: "wellcheck",
		Version: version.Version,
	})
	logger := log.WithComponent("daemon")

	ctx, stop := daemon.WaitForShutdown()
	defer stop()

	path := strings.TrimSpace(*configPath)
	cfg, err := config.NewLoader(path, version.Version).Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(log.FieldEvent, "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
	}

	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	logger = log.WithComponent("daemon")

	source := "env+defaults"
	if path != "" {
		source = "file"
	}
	logger.Info().
		Str(log.FieldEvent, "config.loaded").
		Str("source", source).
		Str("path", path).
		Msg("configuration loaded")

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		logger.Fatal().
			Err(err).
			Str(log.FieldEvent, "startup.check_failed").
			Msg("startup checks failed, verify configuration and permissions")
	}

	rt, err := daemon.Bootstrap(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str(log.FieldEvent, "bootstrap.failed").Msg("failed to initialise daemon")
	}

	logger.Info().
		Str(log.FieldEvent, "daemon.start").
		Str("version", version.Version).
		Str("listen", cfg.Server.ListenAddr).
		Msg("starting wellcheck")

	if err := rt.App.Run(ctx); err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "daemon.exit_error").Msg("daemon exited with error")
		stop()
		os.Exit(1)
	}
	logger.Info().Str(log.FieldEvent, "daemon.stopped").Msg("wellcheck stopped")
}
