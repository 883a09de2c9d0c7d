package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookinbox_events_received_total",
			Help: "Total number of webhook deliveries received",
		},
		[]string{"status"},
	)

	EventBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hookinbox_event_bytes_total",
			Help: "Total bytes of webhook body data received",
		},
	)

	// Retention metrics
	EventsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hookinbox_events_evicted_total",
			Help: "Total number of events deleted by the retention trim",
		},
	)

	RetentionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hookinbox_retention_errors_total",
			Help: "Total number of failed retention trims",
		},
	)

	// Storage metrics
	StorageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hookinbox_storage_duration_seconds",
			Help:    "Duration of event insert operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StorageErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hookinbox_storage_errors_total",
			Help: "Total number of storage errors",
		},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hookinbox_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)
