// SPDX-License-Identifier: MIT

// Package insights produces free-text suggestions from questionnaire answers
// using a generative language model.
//
// Upstream calls are cached by prompt, collapsed when identical prompts are
// in flight, throttled and guarded by a circuit breaker. Every failure path
// yields a fixed fallback text instead of an error.
package insights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/ManuGH/wellcheck/internal/cache"
	"github.com/ManuGH/wellcheck/internal/log"
	"github.com/ManuGH/wellcheck/internal/metrics"
	"github.com/ManuGH/wellcheck/internal/resilience"
	"github.com/ManuGH/wellcheck/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	// DefaultScore is used when a request carries no usable score.
	DefaultScore = 3

	// Fallback is served when generation fails.
	Fallback = "Based on the assessment, we recommend monitoring internet usage patterns and setting healthy boundaries."

	// FallbackBadRequest is served when the request itself cannot be read.
	FallbackBadRequest = "Based on the assessment, we recommend monitoring internet usage patterns and establishing healthy online habits. Consider setting screen-free times and encouraging offline activities."
)

// Request is the body of an insights call. HealthStatus and HealthScore are
// advisory and accepted in any JSON type.
type Request struct {
	Answers      map[string]any `json:"answers"`
	HealthStatus any            `json:"healthStatus,omitempty"`
	HealthScore  any            `json:"healthScore,omitempty"`
}

// Response carries the generated or fallback text.
type Response struct {
	Insights string `json:"insights"`
}

// Config tunes the upstream protection layers.
type Config struct {
	Model            string
	Timeout          time.Duration
	CacheTTL         time.Duration
	RatePerSecond    float64
	Burst            int
	BreakerThreshold int
	BreakerReset     time.Duration
}

// Service answers insights requests.
type Service struct {
	gen     Generator
	cache   cache.Cache
	group   singleflight.Group
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	cfg     Config
	logger  zerolog.Logger
}

// NewService wires a Service. A nil generator disables generation and every
// request is answered with Fallback. A nil cache disables caching.
func NewService(gen Generator, c cache.Cache, cfg Config) *Service {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Service{
		gen:     gen,
		cache:   c,
		limiter: rate.NewLimiter(limit, burst),
		breaker: resilience.NewCircuitBreaker("gemini", cfg.BreakerThreshold, cfg.BreakerReset),
		cfg:     cfg,
		logger:  log.WithComponent("insights"),
	}
}

// Enabled reports whether a generator is configured.
func (s *Service) Enabled() bool { return s.gen != nil }

// ResolveScore returns the request's score when it is an integral level in
// 0..5 and DefaultScore otherwise.
func ResolveScore(req Request) int {
	var v float64
	switch n := req.HealthScore.(type) {
	case int:
		v = float64(n)
	case float64:
		v = n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return DefaultScore
		}
		v = f
	default:
		return DefaultScore
	}
	if v != math.Trunc(v) || v < 0 || v > 5 {
		return DefaultScore
	}
	return int(v)
}

// Insights returns suggestions for req. It never fails: upstream problems
// produce Fallback.
func (s *Service) Insights(ctx context.Context, req Request) Response {
	ctx, span := telemetry.Tracer("wellcheck/insights").Start(ctx, "insights.request")
	defer span.End()
	logger := log.WithContext(ctx, s.logger)

	score := ResolveScore(req)
	prompt := BuildPrompt(score, FormatAnswers(req.Answers))
	span.SetAttributes(
		attribute.String(telemetry.GenAIModelKey, s.cfg.Model),
		attribute.Int(telemetry.GenAIPromptLenKey, len(prompt)),
	)

	if s.gen == nil {
		return s.fallback(span, logger, "disabled", nil)
	}

	key := cacheKey(s.cfg.Model, prompt)
	if text, ok := s.cache.Get(ctx, key); ok {
		span.SetAttributes(attribute.Bool(telemetry.GenAICacheHitKey, true))
		metrics.RecordInsights(metrics.InsightsCacheHit)
		logger.Debug().
			Str(log.FieldEvent, "insights.cache_hit").
			Bool(log.FieldCacheHit, true).
			Msg("insights served from cache")
		return Response{Insights: text}
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.generate(ctx, key, prompt)
	})
	if err != nil {
		return s.fallback(span, logger, fallbackReason(err), err)
	}
	span.SetAttributes(attribute.Bool(telemetry.GenAISharedCallKey, shared))

	outcome := metrics.InsightsGenerated
	if shared {
		outcome = metrics.InsightsShared
	}
	metrics.RecordInsights(outcome)

	logger.Info().
		Str(log.FieldEvent, "insights.generated").
		Str(log.FieldGenModel, s.cfg.Model).
		Int(log.FieldScore, score).
		Interface("health_status", req.HealthStatus).
		Int(log.FieldPromptLen, len(prompt)).
		Bool("shared", shared).
		Msg("insights generated")

	return Response{Insights: v.(string)}
}

// generate runs one upstream call. It is detached from the caller's
// cancellation because other callers may be waiting on the same result.
func (s *Service) generate(ctx context.Context, key, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	if err := s.limiter.Wait(callCtx); err != nil {
		return "", errRateLimited
	}

	var text string
	err := s.breaker.Execute(func() error {
		start := time.Now()
		out, err := s.gen.Generate(callCtx, prompt)
		metrics.ObserveInsightsUpstream(time.Since(start), err)
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	if err != nil {
		return "", err
	}

	if s.cfg.CacheTTL > 0 {
		s.cache.Set(callCtx, key, text, s.cfg.CacheTTL)
	}
	return text, nil
}

var errRateLimited = errors.New("insights rate limit exceeded")

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, errRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrEmptyResponse):
		return "empty"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "upstream_error"
	}
}

func (s *Service) fallback(span trace.Span, logger zerolog.Logger, reason string, err error) Response {
	metrics.RecordInsightsFallback(reason)
	span.SetAttributes(attribute.String(telemetry.GenAIFallbackKey, reason))
	telemetry.RecordError(span, err)

	evt := logger.Warn()
	if reason == "disabled" {
		evt = logger.Debug()
	}
	evt.Err(err).
		Str(log.FieldEvent, "insights.fallback").
		Str("reason", reason).
		Msg("serving fallback insights")
	return Response{Insights: Fallback}
}

func cacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return "insights:" + hex.EncodeToString(sum[:])
}
