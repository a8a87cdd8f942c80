// SPDX-License-Identifier: MIT

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wellcheck_cache_lookups_total",
	Help: "Cache lookups by backend and result",
}, []string{"backend", "result"}) // result=hit|miss

// RecordCacheLookup counts a cache lookup.
func RecordCacheLookup(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(backend, result).Inc()
}

// CacheStats is a point-in-time snapshot of the active cache.
// Entries is negative when the backend cannot count them.
type CacheStats struct {
	Sets      int64
	Evictions int64
	Entries   int
}

// cacheStatsCollector reads the active cache on every scrape.
type cacheStatsCollector struct {
	mu      sync.RWMutex
	backend string
	source  func() CacheStats

	sets      *prometheus.Desc
	evictions *prometheus.Desc
	entries   *prometheus.Desc
}

var cacheStats = newCacheStatsCollector()

func init() {
	prometheus.MustRegister(cacheStats)
}

func newCacheStatsCollector() *cacheStatsCollector {
	labels := []string{"backend"}
	return &cacheStatsCollector{
		sets:      prometheus.NewDesc("wellcheck_cache_sets_total", "Entries written to the active cache", labels, nil),
		evictions: prometheus.NewDesc("wellcheck_cache_evictions_total", "Expired entries purged from the active cache", labels, nil),
		entries:   prometheus.NewDesc("wellcheck_cache_entries", "Entries currently held by the active cache", labels, nil),
	}
}

func (c *cacheStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sets
	ch <- c.evictions
	ch <- c.entries
}

func (c *cacheStatsCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	backend, source := c.backend, c.source
	c.mu.RUnlock()
	if source == nil {
		return
	}

	s := source()
	ch <- prometheus.MustNewConstMetric(c.sets, prometheus.CounterValue, float64(s.Sets), backend)
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions), backend)
	if s.Entries >= 0 {
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Entries), backend)
	}
}

// SetCacheStatsSource installs the function read on every scrape. A nil
// source hides the series.
func SetCacheStatsSource(backend string, source func() CacheStats) {
	cacheStats.mu.Lock()
	defer cacheStats.mu.Unlock()
	cacheStats.backend = backend
	cacheStats.source = source
}
