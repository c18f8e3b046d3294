// Package metrics provides Prometheus metrics for extraction runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ytframes"

// Run outcomes used as the "result" label.
const (
	ResultDone   = "done"
	ResultFailed = "failed"
)

// Metrics holds all application metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunFailures *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Download metrics
	DownloadCacheHits prometheus.Counter
	Downloads         prometheus.Counter

	// Frame metrics
	FramesWritten   prometheus.Counter
	FramesSkipped   prometheus.Counter
	FramesFailed    prometheus.Counter
	EnhanceDuration prometheus.Histogram
}

// New creates all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	register := func(c prometheus.Collector) { reg.MustRegister(c) }

	m := &Metrics{
		registry: reg,
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runs",
			Name:      "total",
			Help:      "Total number of extraction runs by result",
		}, []string{"result"}),
		RunFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runs",
			Name:      "failures_total",
			Help:      "Failed extraction runs by error kind",
		}, []string{"kind"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "runs",
			Name:      "duration_seconds",
			Help:      "Wall time of extraction runs",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		DownloadCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "download",
			Name:      "cache_hits_total",
			Help:      "Videos reused from disk without invoking the downloader",
		}),
		Downloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "download",
			Name:      "completed_total",
			Help:      "Videos fetched by the downloader",
		}),
		FramesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "written_total",
			Help:      "Frames enhanced and written to disk",
		}),
		FramesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "skipped_total",
			Help:      "Frames the decoder could not read",
		}),
		FramesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "failed_total",
			Help:      "Frames that failed to enhance or write",
		}),
		EnhanceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "enhance_duration_seconds",
			Help:      "Time spent enhancing a single frame",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}

	register(m.RunsTotal)
	register(m.RunFailures)
	register(m.RunDuration)
	register(m.DownloadCacheHits)
	register(m.Downloads)
	register(m.FramesWritten)
	register(m.FramesSkipped)
	register(m.FramesFailed)
	register(m.EnhanceDuration)
	register(collectors.NewGoCollector())

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(result).Inc()
	m.RunDuration.Observe(d.Seconds())
}

// ObserveFailure counts a failed run under its error kind.
func (m *Metrics) ObserveFailure(kind string) {
	if m == nil {
		return
	}
	m.RunFailures.WithLabelValues(kind).Inc()
}

// ObserveDownload records a fetch, cached or not.
func (m *Metrics) ObserveDownload(cached bool) {
	if m == nil {
		return
	}
	if cached {
		m.DownloadCacheHits.Inc()
		return
	}
	m.Downloads.Inc()
}

// FrameWritten records a written frame and how long enhancement took.
func (m *Metrics) FrameWritten(enhance time.Duration) {
	if m == nil {
		return
	}
	m.FramesWritten.Inc()
	m.EnhanceDuration.Observe(enhance.Seconds())
}

// FrameSkipped records an unreadable frame.
func (m *Metrics) FrameSkipped() {
	if m == nil {
		return
	}
	m.FramesSkipped.Inc()
}

// FrameFailed records a frame that could not be enhanced or written.
func (m *Metrics) FrameFailed() {
	if m == nil {
		return
	}
	m.FramesFailed.Inc()
}
