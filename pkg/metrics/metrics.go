// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taxon"

var (
	// HTTPRequests counts handled requests.
	// Labels: method, status (HTTP status code)
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests handled",
	}, []string{"method", "status"})

	// HTTPDuration measures request latency.
	// Labels: method
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	// Operations counts registry operations.
	// Labels: op (create, update, delete), outcome (ok, not_found, conflict, invalid, in_use, error)
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "classifications",
		Name:      "operations_total",
		Help:      "Total classification registry operations by outcome",
	}, []string{"op", "outcome"})

	// CascadedRows counts downstream rows rewritten by renames.
	// Labels: reference (entity.column)
	CascadedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "references",
		Name:      "cascaded_rows_total",
		Help:      "Total downstream rows rewritten by code renames",
	}, []string{"reference"})

	// BlockedDeletes counts deletes refused because of dependent rows.
	// Labels: type (classification type)
	BlockedDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "classifications",
		Name:      "blocked_deletes_total",
		Help:      "Total deletes refused because dependent rows exist",
	}, []string{"type"})
)

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
