// Package metrics exposes Prometheus instrumentation for transcription jobs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// JobMetrics aggregates transcription job counters and the live progress
// gauge for Prometheus scraping.
type JobMetrics struct {
	JobsStarted   prometheus.Counter
	JobsCompleted prometheus.Counter
	JobsFailed    prometheus.Counter
	JobsCancelled prometheus.Counter
	Progress      prometheus.Gauge
}

// New creates job metrics and registers them when reg is non-nil.
func New(reg prometheus.Registerer) *JobMetrics {
	m := &JobMetrics{
		JobsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxtext",
			Subsystem: "jobs",
			Name:      "started_total",
			Help:      "Number of transcription jobs started.",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxtext",
			Subsystem: "jobs",
			Name:      "completed_total",
			Help:      "Number of transcription jobs completed successfully.",
		}),
		JobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxtext",
			Subsystem: "jobs",
			Name:      "failed_total",
			Help:      "Number of transcription jobs that ended in failure.",
		}),
		JobsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxtext",
			Subsystem: "jobs",
			Name:      "cancelled_total",
			Help:      "Number of transcription jobs cancelled by the caller.",
		}),
		Progress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxtext",
			Subsystem: "jobs",
			Name:      "progress_percent",
			Help:      "Progress percentage of the current transcription job.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.JobsStarted, m.JobsCompleted, m.JobsFailed, m.JobsCancelled, m.Progress)
	}
	return m
}

// Handler returns an HTTP handler exposing the gatherer's metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
