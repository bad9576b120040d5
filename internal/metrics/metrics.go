// Package metrics provides Prometheus metrics for dailyrank.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

// Guess outcomes.
const (
	GuessCorrect   = "correct"
	GuessIncorrect = "incorrect"
	GuessUnknown   = "unknown"
	GuessStale     = "stale"
	GuessInvalid   = "invalid"
	GuessError     = "error"
)

// Metrics holds all Prometheus metrics for dailyrank.
// Each instance owns its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Game metrics
	GuessesTotal      *prometheus.CounterVec
	CacheLookupsTotal *prometheus.CounterVec

	// Regeneration metrics
	RegenerationRunsTotal     *prometheus.CounterVec
	RegenerationDatesTotal    *prometheus.CounterVec
	RegenerationDuration      prometheus.Histogram
	SnapshotsPrunedTotal      prometheus.Counter
	LastRegenerationTimestamp prometheus.Gauge
}

// New creates a registry with the Go and process collectors and registers
// all dailyrank metrics on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyrank_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dailyrank_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "dailyrank_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	m.GuessesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyrank_guesses_total",
			Help: "Total number of guesses by outcome",
		},
		[]string{"outcome"},
	)

	m.CacheLookupsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyrank_snapshot_cache_lookups_total",
			Help: "Snapshot cache lookups by result",
		},
		[]string{"result"},
	)

	m.RegenerationRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyrank_regeneration_runs_total",
			Help: "Regeneration runs by status (ok, partial, error)",
		},
		[]string{"status"},
	)

	m.RegenerationDatesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyrank_regeneration_dates_total",
			Help: "Dates processed by regeneration, by outcome",
		},
		[]string{"status"},
	)

	m.RegenerationDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dailyrank_regeneration_duration_seconds",
			Help:    "Duration of regeneration runs in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	m.SnapshotsPrunedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "dailyrank_snapshots_pruned_total",
			Help: "Total number of expired snapshots deleted",
		},
	)

	m.LastRegenerationTimestamp = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "dailyrank_last_regeneration_timestamp_seconds",
			Help: "Unix time of the last regeneration run that returned a report",
		},
	)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records a served request.
func (m *Metrics) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordGuess records a guess outcome.
func (m *Metrics) RecordGuess(outcome string) {
	m.GuessesTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup records a snapshot cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordRegeneration records one regeneration run. report may be nil.
func (m *Metrics) RecordRegeneration(report *domain.RegenerationReport, err error, duration time.Duration) {
	m.RegenerationDuration.Observe(duration.Seconds())

	status := "ok"
	switch {
	case err != nil:
		status = "error"
	case report != nil && report.Failed():
		status = "partial"
	}
	m.RegenerationRunsTotal.WithLabelValues(status).Inc()

	if report == nil {
		return
	}
	for _, d := range report.Dates {
		m.RegenerationDatesTotal.WithLabelValues(string(d.Status)).Inc()
	}
	m.SnapshotsPrunedTotal.Add(float64(report.Pruned))
	if !report.EndedAt.IsZero() {
		m.LastRegenerationTimestamp.Set(float64(report.EndedAt.Unix()))
	}
}
