// SPDX-License-Identifier: MIT

package config

import "time"

// Default values shared by the loader and the example file.
const (
	DefaultListenAddr   = ":5000"
	DefaultMetricsAddr  = ":9090"
	DefaultModelPath    = "health_model_20_features.json"
	DefaultGeminiModel  = "gemini-2.0-flash"
	DefaultCacheBackend = "memory"
)

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:   "info",
		LogService: "wellcheck",
		DataDir:    "data",
		Server: ServerConfig{
			ListenAddr:      DefaultListenAddr,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxHeaderBytes:  1 << 20,
			MaxBodyBytes:    1 << 20,
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: DefaultMetricsAddr,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 120,
		},
		Model: ModelConfig{
			Path:  DefaultModelPath,
			Watch: true,
		},
		Insights: InsightsConfig{
			Model:            DefaultGeminiModel,
			Timeout:          30 * time.Second,
			CacheBackend:     DefaultCacheBackend,
			CacheTTL:         time.Hour,
			RatePerSecond:    2,
			Burst:            4,
			BreakerThreshold: 5,
			BreakerReset:     30 * time.Second,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		History: HistoryConfig{
			Backend: "memory",
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			Environment:  "production",
			SamplingRate: 1.0,
		},
	}
}
