package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequestsTotal tracks backend calls per operation and outcome
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquest_backend_requests_total",
			Help: "Total number of backend requests",
		},
		[]string{"operation", "outcome"},
	)

	// BackendRetriesTotal tracks retry waits per operation
	BackendRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquest_backend_retries_total",
			Help: "Total number of backend retries",
		},
		[]string{"operation"},
	)

	// BackendLatency tracks backend call latency including retries
	BackendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inquest_backend_latency_seconds",
			Help:    "Backend call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// StepsCompleted tracks completed research steps
	StepsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inquest_steps_completed_total",
			Help: "Total number of completed research steps",
		},
	)

	// SessionsTotal tracks finished sessions by termination reason
	SessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquest_sessions_total",
			Help: "Total number of finished sessions",
		},
		[]string{"reason"},
	)
)
