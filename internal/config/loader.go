// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names. GOOGLE_API_KEY is kept for compatibility with
// existing deployments of the service.
const (
	EnvLogLevel         = "WELLCHECK_LOG_LEVEL"
	EnvLogService       = "WELLCHECK_LOG_SERVICE"
	EnvDataDir          = "WELLCHECK_DATA_DIR"
	EnvListen           = "WELLCHECK_LISTEN"
	EnvMetricsEnabled   = "WELLCHECK_METRICS_ENABLED"
	EnvMetricsAddr      = "WELLCHECK_METRICS_ADDR"
	EnvAllowedOrigins   = "WELLCHECK_ALLOWED_ORIGINS"
	EnvRateLimitEnabled = "WELLCHECK_RATELIMIT_ENABLED"
	EnvRateLimitRPM     = "WELLCHECK_RATELIMIT_RPM"
	EnvRateLimitAllow   = "WELLCHECK_RATELIMIT_WHITELIST"
	EnvModelPath        = "WELLCHECK_MODEL_PATH"
	EnvModelWatch       = "WELLCHECK_MODEL_WATCH"
	EnvGoogleAPIKey     = "GOOGLE_API_KEY"
	EnvGeminiModel      = "WELLCHECK_GEMINI_MODEL"
	EnvGeminiBaseURL    = "WELLCHECK_GEMINI_BASE_URL"
	EnvInsightsTimeout  = "WELLCHECK_INSIGHTS_TIMEOUT"
	EnvCacheBackend     = "WELLCHECK_CACHE_BACKEND"
	EnvCacheTTL         = "WELLCHECK_CACHE_TTL"
	EnvInsightsRate     = "WELLCHECK_INSIGHTS_RPS"
	EnvInsightsBurst    = "WELLCHECK_INSIGHTS_BURST"
	EnvRedisAddr        = "WELLCHECK_REDIS_ADDR"
	EnvRedisPassword    = "WELLCHECK_REDIS_PASSWORD"
	EnvRedisDB          = "WELLCHECK_REDIS_DB"
	EnvHistoryBackend   = "WELLCHECK_HISTORY_BACKEND"
	EnvHistoryPath      = "WELLCHECK_HISTORY_PATH"
	EnvTracingEnabled   = "WELLCHECK_TRACING_ENABLED"
	EnvTracingExporter  = "WELLCHECK_OTLP_EXPORTER"
	EnvTracingEndpoint  = "WELLCHECK_OTLP_ENDPOINT"
	EnvTracingSampling  = "WELLCHECK_TRACE_SAMPLING"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) track(key string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return key
}

// Load loads configuration with precedence: ENV > File > Defaults.
// The order is Defaults -> Parse File (Strict) -> Apply Env -> Validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)

	cfg.Version = l.version
	if cfg.DataDir != "" {
		if abs, err := filepath.Abs(cfg.DataDir); err == nil {
			cfg.DataDir = abs
		}
	}
	if cfg.History.Path == "" && (cfg.History.Backend == "sqlite" || cfg.History.Backend == "badger") {
		cfg.History.Path = filepath.Join(cfg.DataDir, "history."+cfg.History.Backend)
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes the YAML file on top of cfg with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return decodeStrict(data, cfg)
}

func decodeStrict(data []byte, cfg *AppConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

// mergeEnv applies environment overrides on top of cfg.
func (l *Loader) mergeEnv(cfg *AppConfig) {
	cfg.LogLevel = ParseString(l.track(EnvLogLevel), cfg.LogLevel)
	cfg.LogService = ParseString(l.track(EnvLogService), cfg.LogService)
	cfg.DataDir = ParseString(l.track(EnvDataDir), cfg.DataDir)

	cfg.Server.ListenAddr = ParseString(l.track(EnvListen), cfg.Server.ListenAddr)

	cfg.Metrics.Enabled = ParseBool(l.track(EnvMetricsEnabled), cfg.Metrics.Enabled)
	cfg.Metrics.ListenAddr = ParseString(l.track(EnvMetricsAddr), cfg.Metrics.ListenAddr)

	cfg.CORS.AllowedOrigins = ParseList(l.track(EnvAllowedOrigins), cfg.CORS.AllowedOrigins)

	cfg.RateLimit.Enabled = ParseBool(l.track(EnvRateLimitEnabled), cfg.RateLimit.Enabled)
	cfg.RateLimit.RequestsPerMinute = ParseInt(l.track(EnvRateLimitRPM), cfg.RateLimit.RequestsPerMinute)
	cfg.RateLimit.Whitelist = ParseList(l.track(EnvRateLimitAllow), cfg.RateLimit.Whitelist)

	cfg.Model.Path = ParseString(l.track(EnvModelPath), cfg.Model.Path)
	cfg.Model.Watch = ParseBool(l.track(EnvModelWatch), cfg.Model.Watch)

	cfg.Insights.APIKey = ParseString(l.track(EnvGoogleAPIKey), cfg.Insights.APIKey)
	cfg.Insights.Model = ParseString(l.track(EnvGeminiModel), cfg.Insights.Model)
	cfg.Insights.BaseURL = ParseString(l.track(EnvGeminiBaseURL), cfg.Insights.BaseURL)
	cfg.Insights.Timeout = ParseDuration(l.track(EnvInsightsTimeout), cfg.Insights.Timeout)
	cfg.Insights.CacheBackend = ParseString(l.track(EnvCacheBackend), cfg.Insights.CacheBackend)
	cfg.Insights.CacheTTL = ParseDuration(l.track(EnvCacheTTL), cfg.Insights.CacheTTL)
	cfg.Insights.RatePerSecond = ParseFloat(l.track(EnvInsightsRate), cfg.Insights.RatePerSecond)
	cfg.Insights.Burst = ParseInt(l.track(EnvInsightsBurst), cfg.Insights.Burst)

	cfg.Redis.Addr = ParseString(l.track(EnvRedisAddr), cfg.Redis.Addr)
	cfg.Redis.Password = ParseString(l.track(EnvRedisPassword), cfg.Redis.Password)
	cfg.Redis.DB = ParseInt(l.track(EnvRedisDB), cfg.Redis.DB)

	cfg.History.Backend = ParseString(l.track(EnvHistoryBackend), cfg.History.Backend)
	cfg.History.Path = ParseString(l.track(EnvHistoryPath), cfg.History.Path)

	cfg.Telemetry.Enabled = ParseBool(l.track(EnvTracingEnabled), cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString(l.track(EnvTracingExporter), cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString(l.track(EnvTracingEndpoint), cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = ParseFloat(l.track(EnvTracingSampling), cfg.Telemetry.SamplingRate)
}
