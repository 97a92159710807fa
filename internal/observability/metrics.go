package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for searches, response
// normalization, the response cache and page rendering.
type Metrics struct {
	// Registry is what /metrics serves.
	Registry *prometheus.Registry

	// Searches counts searches by backend and outcome (ok, error).
	Searches *prometheus.CounterVec

	// SearchDuration observes backend fetch time in seconds.
	SearchDuration *prometheus.HistogramVec

	// Responses counts normalized responses by detected shape, or by error
	// kind when normalization failed.
	Responses *prometheus.CounterVec

	// Records counts records returned per source bucket.
	Records *prometheus.CounterVec

	// CacheLookups counts cache lookups by result (hit, miss, error).
	CacheLookups *prometheus.CounterVec

	// RenderDuration observes page render time in seconds.
	RenderDuration prometheus.Histogram

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited prometheus.Counter
}

// NewMetrics creates collectors under namespace on a fresh registry that
// also carries the Go and process collectors.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches by backend and outcome",
		}, []string{"backend", "outcome"}),
		SearchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Backend fetch duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"backend"}),
		Responses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Normalized responses by shape or error kind",
		}, []string{"shape"}),
		Records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records returned by source",
		}, []string{"source"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by result",
		}, []string{"result"}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Result page render duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),
	}
}

// RecordSearch records one backend fetch.
func (m *Metrics) RecordSearch(backend string, durationSeconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Searches.WithLabelValues(backend, outcome).Inc()
	m.SearchDuration.WithLabelValues(backend).Observe(durationSeconds)
}

// RecordResponse records a normalization outcome. counts maps source
// keys to record counts and may be nil.
func (m *Metrics) RecordResponse(shape string, counts map[string]int) {
	m.Responses.WithLabelValues(shape).Inc()
	for source, n := range counts {
		m.Records.WithLabelValues(source).Add(float64(n))
	}
}

// RecordCache records a cache lookup result: hit, miss or error.
func (m *Metrics) RecordCache(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

// RecordRender records how long a page render took.
func (m *Metrics) RecordRender(durationSeconds float64) {
	m.RenderDuration.Observe(durationSeconds)
}
