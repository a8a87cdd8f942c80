// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus collectors exported by wellcheck.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	modelLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wellcheck_model_loaded",
		Help: "Whether a model bundle is loaded (1) or not (0)",
	})

	modelReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellcheck_model_reloads_total",
		Help: "Model bundle load attempts by result",
	}, []string{"result"}) // result=success|not_found|invalid|error

	modelInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wellcheck_model_info",
		Help: "Currently loaded model bundle (value is always 1)",
	}, []string{"name", "classifier"})
)

// SetModelLoaded records whether a bundle is active and which one.
func SetModelLoaded(loaded bool, name, classifier string) {
	modelInfo.Reset()
	if !loaded {
		modelLoaded.Set(0)
		return
	}
	modelLoaded.Set(1)
	modelInfo.WithLabelValues(name, classifier).Set(1)
}

// RecordModelReload counts a bundle load attempt.
func RecordModelReload(result string) {
	modelReloads.WithLabelValues(result).Inc()
}
