// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Training Metrics
	FitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recsys_fit_duration_seconds",
			Help:    "Duration of model fits in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
		[]string{"model"},
	)

	FitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recsys_fit_total",
			Help: "Total number of model fits by outcome",
		},
		[]string{"model", "status"}, // "success", "error", "canceled"
	)

	FitInteractions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recsys_fit_interactions",
			Help: "Number of interactions in the most recent fit",
		},
		[]string{"model"},
	)

	// Serving Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recsys_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"model", "result"}, // "hit", "cold"
	)

	// Persistence Metrics
	ModelSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recsys_model_saves_total",
			Help: "Total number of model snapshots written",
		},
		[]string{"mode"}, // "flat", "versioned"
	)

	ModelLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recsys_model_loads_total",
			Help: "Total number of model snapshot loads by outcome",
		},
		[]string{"mode", "status"},
	)

	ModelBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recsys_model_snapshot_bytes",
			Help:    "Compressed size of written model snapshots",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)

	// Evaluation Metrics
	EvaluationScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recsys_evaluation_score",
			Help: "Most recent offline evaluation score",
		},
		[]string{"model", "metric"},
	)
)

// RecordFit records the outcome of a model fit.
func RecordFit(model string, interactions int, duration time.Duration, err error) {
	FitDuration.WithLabelValues(model).Observe(duration.Seconds())
	FitInteractions.WithLabelValues(model).Set(float64(interactions))
	FitTotal.WithLabelValues(model, fitStatus(err)).Inc()
}

func fitStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// RecordRecommend records a recommendation request. Cold requests are those
// that returned nothing (unknown user, empty model, or k <= 0).
func RecordRecommend(model string, returned int) {
	result := "hit"
	if returned == 0 {
		result = "cold"
	}
	RecommendRequests.WithLabelValues(model, result).Inc()
}

// RecordSave records a snapshot write of the given compressed size.
func RecordSave(mode string, sizeBytes int) {
	ModelSaves.WithLabelValues(mode).Inc()
	ModelBytes.Observe(float64(sizeBytes))
}

// RecordLoad records a snapshot load.
func RecordLoad(mode string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ModelLoads.WithLabelValues(mode, status).Inc()
}

// RecordEvaluation records an offline evaluation result.
func RecordEvaluation(model, metric string, score float64) {
	EvaluationScore.WithLabelValues(model, metric).Set(score)
}
