// Package metrics exposes Prometheus instrumentation for publish runs.
// npmship is a oneshot CLI, so instead of serving /metrics the collected
// values can be pushed to a Pushgateway when the run ends.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PublishAttempts counts publish invocations by result: success, or
	// the classification of the failure.
	PublishAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "npmship_publish_attempts_total",
			Help: "Total number of publish attempts",
		},
		[]string{"result"},
	)

	// RegistryProbes counts existence probes by outcome (hit/miss).
	RegistryProbes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "npmship_registry_probes_total",
			Help: "Total number of registry existence probes",
		},
		[]string{"outcome"},
	)

	// RetriesTotal counts backoff sleeps taken before retrying.
	RetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "npmship_retries_total",
			Help: "Total number of backoff retries",
		},
	)

	// AttemptDuration tracks wall-clock duration of publish attempts.
	AttemptDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "npmship_publish_attempt_duration_seconds",
			Help:    "Publish attempt duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RunsTotal counts completed runs by outcome and reason.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "npmship_runs_total",
			Help: "Total number of completed publish runs",
		},
		[]string{"outcome", "reason"},
	)
)
