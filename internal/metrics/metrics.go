// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

// Package metrics provides Prometheus instrumentation for the
// aggregation pipeline: entity cache efficiency, catalog gateway
// traffic, aggregation latency and API throughput.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Entity Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_cache_hits_total",
			Help: "Total number of entity cache hits",
		},
		[]string{"kind"}, // "game", "userstats"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_cache_misses_total",
			Help: "Total number of entity cache misses (absent, corrupt or stale)",
		},
		[]string{"kind"},
	)

	// Catalog Gateway Metrics
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_gateway_requests_total",
			Help: "Total number of catalog gateway requests",
		},
		[]string{"operation", "outcome"}, // operation: "thing", "collection", "thread", "geeklist"
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_gateway_request_duration_seconds",
			Help:    "Catalog gateway request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	// Aggregation Metrics
	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "End-to-end aggregation request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	AggregationGames = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregation_games_returned",
			Help:    "Number of games in an aggregation result",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)
)

// RecordCacheHit increments the cache hit counter for an entity kind.
func RecordCacheHit(kind string) {
	CacheHits.WithLabelValues(kind).Inc()
}

// RecordCacheMiss increments the cache miss counter for an entity kind.
func RecordCacheMiss(kind string) {
	CacheMisses.WithLabelValues(kind).Inc()
}

// RecordGatewayRequest records one catalog gateway call.
func RecordGatewayRequest(operation, outcome string, duration time.Duration) {
	GatewayRequests.WithLabelValues(operation, outcome).Inc()
	GatewayRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAggregation records the duration and result size of one
// aggregation request.
func RecordAggregation(duration time.Duration, games int) {
	AggregationDuration.Observe(duration.Seconds())
	AggregationGames.Observe(float64(games))
}

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
