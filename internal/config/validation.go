// SPDX-License-Identifier: MIT

package config

import (
	"github.com/ManuGH/wellcheck/internal/validate"
)

var (
	logLevels       = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	cacheBackends   = []string{"memory", "redis", "none"}
	historyBackends = []string{"", "none", "memory", "sqlite", "badger"}
	exporterTypes   = []string{"grpc", "http"}
)

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.OneOf("LogLevel", cfg.LogLevel, logLevels)

	v.ListenAddr("Server.ListenAddr", cfg.Server.ListenAddr)
	v.PositiveDuration("Server.ReadTimeout", cfg.Server.ReadTimeout)
	v.PositiveDuration("Server.WriteTimeout", cfg.Server.WriteTimeout)
	v.PositiveDuration("Server.ShutdownTimeout", cfg.Server.ShutdownTimeout)
	if cfg.Server.MaxBodyBytes <= 0 {
		v.AddError("Server.MaxBodyBytes", "value must be positive", cfg.Server.MaxBodyBytes)
	}

	if cfg.Metrics.Enabled {
		v.ListenAddr("Metrics.ListenAddr", cfg.Metrics.ListenAddr)
	}

	if cfg.RateLimit.Enabled {
		v.Positive("RateLimit.RequestsPerMinute", cfg.RateLimit.RequestsPerMinute)
	}
	v.CIDROrIP("RateLimit.Whitelist", cfg.RateLimit.Whitelist)

	// The model file may be absent at startup; only the path is required.
	v.NotEmpty("Model.Path", cfg.Model.Path)

	v.NotEmpty("Insights.Model", cfg.Insights.Model)
	v.PositiveDuration("Insights.Timeout", cfg.Insights.Timeout)
	v.OneOf("Insights.CacheBackend", cfg.Insights.CacheBackend, cacheBackends)
	if cfg.Insights.CacheBackend != "none" {
		v.PositiveDuration("Insights.CacheTTL", cfg.Insights.CacheTTL)
	}
	if cfg.Insights.CacheBackend == "redis" {
		v.NotEmpty("Redis.Addr", cfg.Redis.Addr)
		v.Range("Redis.DB", cfg.Redis.DB, 0, 15)
	}
	if cfg.Insights.BaseURL != "" {
		v.URL("Insights.BaseURL", cfg.Insights.BaseURL, []string{"http", "https"})
	}
	if cfg.Insights.RatePerSecond <= 0 {
		v.AddError("Insights.RatePerSecond", "value must be positive", cfg.Insights.RatePerSecond)
	}
	v.Positive("Insights.Burst", cfg.Insights.Burst)
	v.Positive("Insights.BreakerThreshold", cfg.Insights.BreakerThreshold)
	v.PositiveDuration("Insights.BreakerReset", cfg.Insights.BreakerReset)

	v.OneOf("History.Backend", cfg.History.Backend, historyBackends)
	if cfg.History.Backend == "sqlite" || cfg.History.Backend == "badger" {
		v.NotEmpty("History.Path", cfg.History.Path)
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("Telemetry.Exporter", cfg.Telemetry.Exporter, exporterTypes)
		v.NotEmpty("Telemetry.Endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("Telemetry.SamplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}
