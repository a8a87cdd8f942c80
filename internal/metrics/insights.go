// SPDX-License-Identifier: MIT

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Insights outcomes.
const (
	InsightsGenerated = "generated"
	InsightsCacheHit  = "cache_hit"
	InsightsFallback  = "fallback"
	InsightsShared    = "shared"
)

var (
	insightsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellcheck_insights_requests_total",
		Help: "Insights requests by outcome",
	}, []string{"outcome"})

	insightsUpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wellcheck_insights_upstream_duration_seconds",
		Help:    "Latency of calls to the generative API",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	}, []string{"result"})

	insightsFallbackReasons = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellcheck_insights_fallback_total",
		Help: "Fallback responses by reason",
	}, []string{"reason"}) // reason=disabled|circuit_open|rate_limited|timeout|upstream_error|empty|bad_request
)

// RecordInsights counts an insights request outcome.
func RecordInsights(outcome string) {
	insightsRequests.WithLabelValues(outcome).Inc()
}

// RecordInsightsFallback counts why a fallback text was served.
func RecordInsightsFallback(reason string) {
	insightsRequests.WithLabelValues(InsightsFallback).Inc()
	insightsFallbackReasons.WithLabelValues(reason).Inc()
}

// ObserveInsightsUpstream records the latency of one upstream call.
func ObserveInsightsUpstream(d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	insightsUpstreamDuration.WithLabelValues(result).Observe(d.Seconds())
}
