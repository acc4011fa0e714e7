package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "homework"

// UnmatchedRoute labels requests that did not hit a registered route.
const UnmatchedRoute = "unmatched"

var (
	// AuthAttempts records authentication flows by flow (register|login|refresh) and result.
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Authentication attempts by flow and result.",
		},
		[]string{"flow", "result"},
	)

	// TokenValidations counts bearer token validations by outcome.
	TokenValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_validations_total",
			Help:      "Bearer token validations by result.",
		},
		[]string{"result"},
	)

	// PermissionChecks counts permission decisions (allow|deny|not_found|error) per action.
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "permission_checks_total",
			Help:      "Permission evaluations by action and decision.",
		},
		[]string{"action", "result"},
	)

	// RateLimited counts requests rejected by a rate limiter scope.
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected with 429 by limiter scope.",
		},
		[]string{"scope"},
	)

	// InFlight tracks requests currently being served.
	InFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_in_flight_requests",
			Help:      "HTTP requests currently in flight.",
		},
	)

	// APILatency measures HTTP request latencies by route template.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_latency_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path", "status"},
	)
)
