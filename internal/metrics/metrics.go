// Package metrics exposes the Prometheus instrumentation of the report
// pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "finreport_"

// Outcome labels for consumed events.
const (
	OutcomeApplied = "applied"
	OutcomeDropped = "dropped"
)

var (
	// EventsConsumed counts transaction events by processing outcome.
	// Dropped events are gone for good; there is no retry or dead-letter
	// path to recover them.
	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "events_consumed_total",
			Help: "Transaction events consumed, labelled by outcome",
		},
		[]string{"outcome"},
	)

	// ReportsCreated counts lazily created monthly report buckets.
	ReportsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "reports_created_total",
			Help: "Monthly reports created on first event for a bucket",
		},
	)

	// RequestDuration observes HTTP request latency per route template, so
	// path variables do not blow up label cardinality.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "http_request_duration_seconds",
			Help:    "HTTP request duration by method, route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
