// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package metrics provides Prometheus instrumentation for the
// merchandising core: scorer recompute outcomes, dispatcher failures,
// cache efficiency and query latencies.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Popularity scorer metrics
	RecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "popularity_recompute_duration_seconds",
			Help:    "Duration of full popularity recomputes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecomputeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "popularity_recompute_total",
			Help: "Total number of popularity recomputes by outcome",
		},
		[]string{"outcome"}, // "ok", "error"
	)

	// Fire-and-forget dispatcher metrics
	DispatchedTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_tasks_total",
			Help: "Total number of dispatched background tasks by handler and outcome",
		},
		[]string{"handler", "outcome"}, // outcome: "ok", "error", "dropped"
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_cache_hits_total",
			Help: "Total number of cache hits by component",
		},
		[]string{"component"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_cache_misses_total",
			Help: "Total number of cache misses by component",
		},
		[]string{"component"},
	)

	// Query latency metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signal_query_duration_seconds",
			Help:    "Latency of read-side queries in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"}, // "search", "similar", "personalized", "bestsellers", "trending", "cart_total"
	)
)

// ObserveQuery records the duration of a read-side query.
func ObserveQuery(operation string, start time.Time) {
	QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
