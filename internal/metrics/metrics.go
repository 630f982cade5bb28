package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	Generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandgen_generations_total",
			Help: "Brand generation calls by outcome",
		},
		[]string{"outcome"},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandgen_provider_requests_total",
			Help: "Image provider calls by result",
		},
		[]string{"result"},
	)

	// Provider calls are slow; buckets reach past the default 10s ceiling.
	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brandgen_provider_request_duration_seconds",
			Help:    "Image provider call latencies in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"result"},
	)

	QuotaDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandgen_quota_decisions_total",
			Help: "Quota gate decisions",
		},
		[]string{"decision"},
	)
)

// Label values shared by the service and middleware packages.
const (
	OutcomeSuccess       = "success"
	OutcomePartial       = "partial"
	OutcomeValidation    = "validation"
	OutcomeProviderError = "provider_error"
	OutcomeTimeout       = "timeout"
	OutcomeFailed        = "failed"
	OutcomeCanceled      = "canceled"

	ResultOK      = "ok"
	ResultNoURL   = "no_url"
	ResultError   = "error"
	ResultTimeout = "timeout"

	DecisionAllowed  = "allowed"
	DecisionRejected = "rejected"
	DecisionError    = "error"
)
