// Package telemetry exposes the engine's Prometheus metrics.
package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	RunsStarted          = prometheus.NewCounter(prometheus.CounterOpts{Name: "search_runs_total", Help: "Search run cycles started"})
	RunFailures          = prometheus.NewCounter(prometheus.CounterOpts{Name: "search_run_failures_total", Help: "Search run cycles that failed before completion"})
	FallbackRuns         = prometheus.NewCounter(prometheus.CounterOpts{Name: "search_fallback_runs_total", Help: "Run cycles served by the synthetic fallback"})
	PostingsPersisted    = prometheus.NewCounter(prometheus.CounterOpts{Name: "search_postings_persisted_total", Help: "Job postings written to storage"})
	NotificationsSent    = prometheus.NewCounter(prometheus.CounterOpts{Name: "search_notifications_sent_total", Help: "Notification emails delivered"})
	NotificationFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "search_notification_failures_total", Help: "Notification emails that failed to send"})
)

// Handler exposes the /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			RunsStarted,
			RunFailures,
			FallbackRuns,
			PostingsPersisted,
			NotificationsSent,
			NotificationFailures,
		)
	})
	return promhttp.Handler()
}
