// Package metrics exposes Prometheus instrumentation for the vault server.
// When metrics are disabled every recorder call is a no-op.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lovincyrus/darkcyber-vault/internal/config"
)

// AI call outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeEmpty = "empty"
)

type Recorder interface {
	ObserveRequest(endpoint string, status int, duration time.Duration)
	IncAICall(operation, outcome string)
	IncCacheHit()
	IncCacheMiss()
	ObservePersistence(duration time.Duration)
	SetFiles(count int, usedBytes int64)
	Handler() http.Handler
}

type Provider struct {
	registry            *prometheus.Registry
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	aiCalls             *prometheus.CounterVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	files               prometheus.Gauge
	usedBytes           prometheus.Gauge
}

// New returns a Prometheus-backed recorder, or a no-op one when disabled.
// Each provider owns its registry so tests can build several.
func New(conf *config.Config) Recorder {
	if !conf.Metrics.Enabled {
		return Noop()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Provider{
		registry: reg,
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dcvault_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dcvault_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		aiCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dcvault_ai_calls_total",
			Help: "Generative AI calls by operation and outcome",
		}, []string{"operation", "outcome"}),

		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "dcvault_summary_cache_hits_total",
			Help: "Total number of summary cache hits",
		}),

		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "dcvault_summary_cache_misses_total",
			Help: "Total number of summary cache misses",
		}),

		persistenceDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dcvault_persistence_duration_seconds",
			Help:    "Duration of file list saves in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		files: f.NewGauge(prometheus.GaugeOpts{
			Name: "dcvault_files",
			Help: "Number of files in the vault",
		}),

		usedBytes: f.NewGauge(prometheus.GaugeOpts{
			Name: "dcvault_used_bytes",
			Help: "Sum of file sizes in the vault",
		}),
	}
}

func (m *Provider) ObserveRequest(endpoint string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Provider) IncAICall(operation, outcome string) {
	m.aiCalls.WithLabelValues(operation, outcome).Inc()
}

func (m *Provider) IncCacheHit() {
	m.cacheHits.Inc()
}

func (m *Provider) IncCacheMiss() {
	m.cacheMisses.Inc()
}

func (m *Provider) ObservePersistence(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *Provider) SetFiles(count int, usedBytes int64) {
	m.files.Set(float64(count))
	m.usedBytes.Set(float64(usedBytes))
}

func (m *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Noop returns a recorder that discards everything.
func Noop() Recorder {
	return noopRecorder{}
}

type noopRecorder struct{}

func (noopRecorder) ObserveRequest(_ string, _ int, _ time.Duration) {}
func (noopRecorder) IncAICall(_, _ string)                          {}
func (noopRecorder) IncCacheHit()                                   {}
func (noopRecorder) IncCacheMiss()                                  {}
func (noopRecorder) ObservePersistence(_ time.Duration)             {}
func (noopRecorder) SetFiles(_ int, _ int64)                        {}
func (noopRecorder) Handler() http.Handler                          { return http.NotFoundHandler() }
