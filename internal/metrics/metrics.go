// Package metrics exposes ingestion counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feedpulse"

// Ingest records ingestion run outcomes. A nil *Ingest is a no-op.
type Ingest struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	feedResults *prometheus.CounterVec
	postsStored prometheus.Counter
	runDuration prometheus.Histogram
	skippedRuns prometheus.Counter
}

// New creates collectors on a fresh registry, including Go runtime and process collectors.
func New() *Ingest {
	reg := prometheus.NewRegistry()
	m := &Ingest{
		registry: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_runs_total",
			Help:      "Ingestion runs by result.",
		}, []string{"result"}),
		feedResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_feed_results_total",
			Help:      "Per-feed ingestion outcomes by status.",
		}, []string{"status"}),
		postsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_posts_inserted_total",
			Help:      "Posts inserted by ingestion.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_run_duration_seconds",
			Help:      "Wall time of ingestion runs.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		skippedRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_skipped_ticks_total",
			Help:      "Scheduled ticks dropped because a run was in flight.",
		}),
	}
	reg.MustRegister(
		m.runs,
		m.feedResults,
		m.postsStored,
		m.runDuration,
		m.skippedRuns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Ingest) ObserveRun(success bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !success {
		result = "failed"
	}
	m.runs.WithLabelValues(result).Inc()
	m.runDuration.Observe(duration.Seconds())
}

func (m *Ingest) ObserveFeed(status string, inserted int) {
	if m == nil {
		return
	}
	m.feedResults.WithLabelValues(status).Inc()
	if inserted > 0 {
		m.postsStored.Add(float64(inserted))
	}
}

func (m *Ingest) SkippedTick() {
	if m == nil {
		return
	}
	m.skippedRuns.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Ingest) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Ingest) Registry() *prometheus.Registry {
	return m.registry
}
