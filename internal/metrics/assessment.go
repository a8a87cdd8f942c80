// SPDX-License-Identifier: MIT

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellcheck_predictions_total",
		Help: "Successful predictions by predicted score",
	}, []string{"score"})

	predictionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellcheck_prediction_errors_total",
		Help: "Rejected or failed predictions by reason",
	}, []string{"reason"}) // reason=model_not_loaded|feature_count|invalid_feature|missing_value|internal

	predictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wellcheck_prediction_duration_seconds",
		Help:    "Time spent preprocessing and evaluating the model",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	historyWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellcheck_history_writes_total",
		Help: "Assessment history writes by backend and result",
	}, []string{"backend", "result"})
)

// RecordPrediction counts a successful prediction and its latency.
func RecordPrediction(score int, d time.Duration) {
	predictionsTotal.WithLabelValues(strconv.Itoa(score)).Inc()
	predictionDuration.Observe(d.Seconds())
}

// RecordPredictionError counts a failed prediction.
func RecordPredictionError(reason string) {
	predictionErrors.WithLabelValues(reason).Inc()
}

// RecordHistoryWrite counts an assessment history write.
func RecordHistoryWrite(backend string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	historyWrites.WithLabelValues(backend, result).Inc()
}
