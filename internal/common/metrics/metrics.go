// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle outcomes.
const (
	OutcomeNotified  = "notified"
	OutcomeUnchanged = "unchanged"
	OutcomeEmpty     = "empty"
	OutcomeFailed    = "failed"
)

var (
	PollCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "status_bot_poll_cycles_total",
			Help: "Total number of poll cycles by outcome",
		},
		[]string{"outcome"},
	)

	PollErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "status_bot_poll_errors_total",
			Help: "Total number of failed poll cycles by error code",
		},
		[]string{"error_code"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "status_bot_notifications_sent_total",
			Help: "Total number of messages delivered to the chat by kind",
		},
		[]string{"kind"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "status_bot_api_request_duration_seconds",
			Help:    "Duration of status API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	LastSuccessfulPoll = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "status_bot_last_successful_poll_timestamp_seconds",
			Help: "Unix time of the last poll cycle that completed without error",
		},
	)
)
