// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "billing",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "billing",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// CalculationsTotal counts pricing calculations by calculator.
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "billing",
			Name:      "calculations_total",
			Help:      "Total pricing calculations performed.",
		},
		[]string{"calculator"},
	)

	// EventsPublishedTotal counts published domain events by type and outcome.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "billing",
			Name:      "events_published_total",
			Help:      "Total domain events published.",
		},
		[]string{"type", "outcome"},
	)
)

// Calculator label values for CalculationsTotal.
const (
	CalculatorWorkOrder = "workorder_cost"
	CalculatorInvoice   = "invoice_totals"
)
