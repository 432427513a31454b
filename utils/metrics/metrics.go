// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts handled HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terminus_http_requests_total",
		Help: "Handled HTTP requests by route and status code.",
	}, []string{"route", "status"})

	// QueryFailures counts upstream queries replaced by their fallback.
	QueryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terminus_upstream_query_failures_total",
		Help: "Upstream GraphQL queries that failed and were replaced by an empty fallback.",
	}, []string{"query"})

	// SnapshotDuration observes full snapshot build time.
	SnapshotDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "terminus_snapshot_build_seconds",
		Help:    "Time to fetch, filter and flatten one dashboard snapshot.",
		Buckets: prometheus.DefBuckets,
	})
)
