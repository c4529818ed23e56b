// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	browseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediabrowse_browse_total",
		Help: "Browse calls by identifier kind and result",
	}, []string{"kind", "result"})

	browseChildren = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mediabrowse_browse_children",
		Help:    "Number of children returned per successful browse call",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"kind"})

	resolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediabrowse_resolve_total",
		Help: "Resolve calls by delivery method and result",
	}, []string{"method", "result"})
)

// RecordBrowse records one browse outcome. Children is ignored on failure.
func RecordBrowse(kind, result string, children int) {
	k := normalizeKindLabel(kind)
	browseTotal.WithLabelValues(k, result).Inc()
	if result == "success" {
		browseChildren.WithLabelValues(k).Observe(float64(children))
	}
}

// RecordResolve records one resolve outcome.
func RecordResolve(method, result string) {
	resolveTotal.WithLabelValues(normalizeMethodLabel(method), result).Inc()
}

func normalizeKindLabel(kind string) string {
	switch k := strings.ToLower(strings.TrimSpace(kind)); k {
	case "", "library":
		return "library"
	case "directory", "artist", "album", "playlist", "tvshow", "season", "movie", "episode", "track":
		return k
	default:
		return "other"
	}
}

func normalizeMethodLabel(method string) string {
	switch m := strings.ToLower(strings.TrimSpace(method)); m {
	case "direct_stream", "transcode":
		return m
	default:
		return "none"
	}
}
