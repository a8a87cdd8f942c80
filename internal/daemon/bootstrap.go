// SPDX-License-Identifier: MIT

// Package daemon wires the services together and manages the server lifecycle.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuGH/wellcheck/internal/api"
	"github.com/ManuGH/wellcheck/internal/api/middleware"
	"github.com/ManuGH/wellcheck/internal/assessment"
	"github.com/ManuGH/wellcheck/internal/cache"
	"github.com/ManuGH/wellcheck/internal/config"
	"github.com/ManuGH/wellcheck/internal/health"
	"github.com/ManuGH/wellcheck/internal/history"
	"github.com/ManuGH/wellcheck/internal/insights"
	"github.com/ManuGH/wellcheck/internal/log"
	"github.com/ManuGH/wellcheck/internal/model"
	"github.com/ManuGH/wellcheck/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Runtime is a fully wired daemon ready to Run.
type Runtime struct {
	App     *App
	Manager Manager
	Models  *model.Holder
	Handler http.Handler
}

// Bootstrap builds every component from cfg. Optional components that fail
// to initialise (tracing, a missing model, the generator) are logged and the
// daemon starts without them; storage errors are fatal.
func Bootstrap(ctx context.Context, cfg config.AppConfig) (*Runtime, error) {
	logger := log.WithComponent("daemon")
	var closers []namedHook

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		logger.Warn().Err(err).Str(log.FieldEvent, "telemetry.init_failed").Msg("telemetry initialization failed, continuing without tracing")
	} else {
		closers = append(closers, namedHook{name: "telemetry", hook: tp.Shutdown})
	}

	holder := model.NewHolder(cfg.Model.Path, model.WithFeatureCount(assessment.ExpectedFeatureCount))
	if err := holder.Reload(); err != nil {
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "model.unavailable").
			Str(log.FieldModelPath, cfg.Model.Path).
			Msg("starting without a model; assessments fail until it is loaded")
	}

	store, err := history.Open(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		return nil, closeAll(ctx, closers, fmt.Errorf("open history store: %w", err))
	}
	closers = append(closers, namedHook{name: "history", hook: func(context.Context) error { return store.Close() }})

	c, err := cache.New(cache.Options{
		Backend: cfg.Insights.CacheBackend,
		Redis: cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
	})
	if err != nil {
		return nil, closeAll(ctx, closers, fmt.Errorf("open insights cache: %w", err))
	}
	closers = append(closers, namedHook{name: "cache", hook: func(context.Context) error { return c.Close() }})

	var gen insights.Generator
	if cfg.Insights.APIKey != "" {
		g, err := insights.NewGeminiGenerator(ctx, insights.GeminiConfig{
			APIKey:  cfg.Insights.APIKey,
			Model:   cfg.Insights.Model,
			BaseURL: cfg.Insights.BaseURL,
		})
		if err != nil {
			logger.Warn().Err(err).Str(log.FieldEvent, "insights.init_failed").Msg("generator unavailable, serving fallback texts")
		} else {
			gen = g
		}
	}

	assessSvc := assessment.NewService(holder, store, cfg.History.Backend)
	insightsSvc := insights.NewService(gen, c, insights.Config{
		Model:            cfg.Insights.Model,
		Timeout:          cfg.Insights.Timeout,
		CacheTTL:         cfg.Insights.CacheTTL,
		RatePerSecond:    cfg.Insights.RatePerSecond,
		Burst:            cfg.Insights.Burst,
		BreakerThreshold: cfg.Insights.BreakerThreshold,
		BreakerReset:     cfg.Insights.BreakerReset,
	})

	hm := health.NewManager(cfg.Version)
	registerCheckers(hm, holder, c, insightsSvc.Enabled())

	srv, err := api.New(api.Deps{
		Assessment:   assessSvc,
		Insights:     insightsSvc,
		Models:       holder,
		Health:       hm,
		Stack:        stackConfig(cfg),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})
	if err != nil {
		return nil, closeAll(ctx, closers, fmt.Errorf("build API server: %w", err))
	}
	handler := srv.Handler()

	deps := Deps{Logger: logger, APIHandler: handler}
	if cfg.Metrics.Enabled {
		deps.MetricsHandler = promhttp.Handler()
		deps.MetricsAddr = cfg.Metrics.ListenAddr
	}
	mgr, err := NewManager(cfg.Server, deps)
	if err != nil {
		return nil, closeAll(ctx, closers, err)
	}
	for _, h := range closers {
		mgr.RegisterShutdownHook(h.name, h.hook)
	}

	return &Runtime{
		App:     NewApp(logger, mgr, holder, cfg.Model.Watch),
		Manager: mgr,
		Models:  holder,
		Handler: handler,
	}, nil
}

func registerCheckers(hm *health.Manager, holder *model.Holder, c cache.Cache, insightsEnabled bool) {
	hm.RegisterChecker(health.NewModelChecker(holder))
	if rc, ok := c.(*cache.RedisCache); ok {
		hm.RegisterChecker(health.NewPingChecker("redis", false, rc.Ping))
	}
	if !insightsEnabled {
		hm.RegisterChecker(health.NewStaticChecker("insights", health.CheckResult{
			Status:  health.StatusDegraded,
			Message: "no API key configured, serving fallback texts",
		}))
	}
}

func stackConfig(cfg config.AppConfig) middleware.StackConfig {
	stack := middleware.StackConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableMetrics:  cfg.Metrics.Enabled,
		EnableLogging:  true,
	}
	if cfg.Telemetry.Enabled {
		stack.TracingService = cfg.LogService
	}
	if cfg.RateLimit.Enabled {
		stack.RateLimitRPM = cfg.RateLimit.RequestsPerMinute
		stack.RateLimitWhitelist = cfg.RateLimit.Whitelist
	}
	return stack
}

// closeAll runs closers in reverse order after a failed bootstrap and joins
// their errors onto cause.
func closeAll(ctx context.Context, closers []namedHook, cause error) error {
	errs := []error{cause}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].hook(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", closers[i].name, err))
		}
	}
	return errors.Join(errs...)
}

// WaitForShutdown returns a context cancelled on SIGINT or SIGTERM.
func WaitForShutdown() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
