// Package metrics holds the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthGuardOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movies_auth_guard_outcomes_total",
		Help: "Auth guard decisions by guard and result (resolved, anonymous, stale_session, lookup_error).",
	}, []string{"guard", "result"})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movies_login_attempts_total",
		Help: "Login form submissions by result.",
	}, []string{"result"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movies_registrations_total",
		Help: "Registration form submissions by result.",
	}, []string{"result"})

	MovieMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movies_movie_mutations_total",
		Help: "Movie create/update/delete attempts by action and result.",
	}, []string{"action", "result"})

	HandlerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movies_http_request_duration_seconds",
		Help:    "Time spent serving requests, by route pattern and method.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route", "method"})
)
