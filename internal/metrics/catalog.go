// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediabrowse_catalog_requests_total",
		Help: "Catalog API requests by operation and result",
	}, []string{"op", "result"}) // result=success|not_found|forbidden|timeout|unavailable|upstream_error|bad_response|circuit_open

	catalogRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mediabrowse_catalog_request_duration_seconds",
		Help:    "Catalog API request latency by operation",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"op"})

	catalogCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediabrowse_catalog_cache_total",
		Help: "Catalog item cache lookups by outcome",
	}, []string{"outcome"}) // outcome=hit|miss
)

// RecordCatalogRequest records one catalog request outcome and its latency.
func RecordCatalogRequest(op, result string, elapsed time.Duration) {
	catalogRequestsTotal.WithLabelValues(op, result).Inc()
	catalogRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// RecordCatalogCache records a cache hit or miss.
func RecordCatalogCache(hit bool) {
	if hit {
		catalogCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	catalogCacheTotal.WithLabelValues("miss").Inc()
}
