// Package metrics exposes reconciliation counters in Prometheus format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/chronicle-it/chronicle/internal/application/helpdesk/usecases"
)

const namespace = "chronicle"

// SyncMetrics implements usecases.SyncObserver.
type SyncMetrics struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	attempts    prometheus.Histogram
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
	ticketCount *prometheus.GaugeVec
}

var _ usecases.SyncObserver = (*SyncMetrics)(nil)

// NewSyncMetrics registers the collectors on a private registry together
// with the Go runtime and process collectors.
func NewSyncMetrics() *SyncMetrics {
	m := &SyncMetrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "helpdesk_sync",
			Name:      "runs_total",
			Help:      "Week reconciliations by outcome and failure kind.",
		}, []string{"status", "kind"}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "helpdesk_sync",
			Name:      "attempts",
			Help:      "Ticket source attempts used per reconciliation.",
			Buckets:   []float64{1, 2, 3, 5, 10},
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "helpdesk_sync",
			Name:      "duration_seconds",
			Help:      "Wall time of one week reconciliation including backoff.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "helpdesk_sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful reconciliation.",
		}),
		ticketCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "helpdesk",
			Name:      "tickets",
			Help:      "Ticket counts from the last successful reconciliation of the current week.",
		}, []string{"count"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.runs,
		m.attempts,
		m.duration,
		m.lastSuccess,
		m.ticketCount,
	)
	return m
}

func (m *SyncMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *SyncMetrics) ObserveSync(result usecases.SyncResult) {
	m.runs.WithLabelValues(string(result.Status), string(result.FailureKind)).Inc()
	m.attempts.Observe(float64(result.Attempts))
	m.duration.Observe(result.Duration.Seconds())

	if !result.Succeeded() {
		return
	}
	m.lastSuccess.Set(float64(result.SyncedAt.Unix()))
	// Historical weeks from a bulk run would overwrite the live figures.
	if result.OpenWritten {
		m.ticketCount.WithLabelValues("new").Set(float64(result.Counts.New))
		m.ticketCount.WithLabelValues("closed").Set(float64(result.Counts.Closed))
		m.ticketCount.WithLabelValues("open").Set(float64(result.Counts.Open))
	}
}
