// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ==============================================================================
// Prometheus Metrics
// ==============================================================================

var (
	// evaluationsTotal counts finished evaluations by decision.
	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_evaluations_total",
		Help: "Total suggestion evaluations by accept decision",
	}, []string{"decision"})

	// tddScore tracks the final TDD score distribution.
	tddScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sentinel_tdd_score",
		Help:    "Final TDD score per evaluation",
		Buckets: prometheus.LinearBuckets(0.0, 0.1, 11),
	})

	// testQuality tracks the overall test quality distribution.
	testQuality = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sentinel_test_quality",
		Help:    "Overall test quality score per evaluation",
		Buckets: prometheus.LinearBuckets(0.0, 0.1, 11),
	})

	// generationDuration tracks completion-call latency.
	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sentinel_generation_duration_seconds",
		Help:    "Test generation call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~200s
	}, []string{"provider", "result"})

	// executionFallbacks counts executions that fell back to simulation.
	executionFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_execution_fallbacks_total",
		Help: "Test executions that fell back to simulation, by reason",
	}, []string{"reason"})
)

// ObserveEvaluation records one finished evaluation.
func ObserveEvaluation(accept bool, tdd, quality float64) {
	decision := "reject"
	if accept {
		decision = "accept"
	}
	evaluationsTotal.WithLabelValues(decision).Inc()
	tddScore.Observe(tdd)
	testQuality.Observe(quality)
}

// ObserveGeneration records one completion call.
func ObserveGeneration(provider string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	generationDuration.WithLabelValues(provider, result).Observe(d.Seconds())
}

// ObserveExecutionFallback records a simulation fallback by reason.
func ObserveExecutionFallback(reason string) {
	executionFallbacks.WithLabelValues(reason).Inc()
}
