package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/wilson-cli/internal/core/domain"
)

const metricsNamespace = "wilson"

// Upload outcomes recorded by the ingestion counter.
const (
	outcomeIngested = "ingested"
	outcomeSkipped  = "skipped"
	outcomeFailed   = "failed"
)

// metrics holds the API's Prometheus collectors. Each server owns its
// registry so several servers can coexist in one process.
type metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	ingestions      *prometheus.CounterVec
	pages           prometheus.Counter
	candidates      *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP API requests",
			},
			[]string{"route", "method", "status_code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP API request duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		ingestions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "uploads_total",
				Help:      "Uploaded documents by outcome",
			},
			[]string{"outcome"},
		),
		pages: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "pages_ingested_total",
				Help:      "Pages processed from uploaded documents",
			},
		),
		candidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "clause_candidates_total",
				Help:      "Clause candidates returned by clause type",
			},
			[]string{"type"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.ingestions,
		m.pages,
		m.candidates,
	)
	return m
}

// handler exposes the registry in the Prometheus text format.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// instrument is router middleware recording request counts and latency
// labelled by route template, so path parameters do not explode the
// label space.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func (m *metrics) recordUpload(result *domain.IngestResult, err error) {
	switch {
	case err != nil:
		m.ingestions.WithLabelValues(outcomeFailed).Inc()
	case result.AlreadyIngested:
		m.ingestions.WithLabelValues(outcomeSkipped).Inc()
	default:
		m.ingestions.WithLabelValues(outcomeIngested).Inc()
		m.pages.Add(float64(result.PagesProcessed))
	}
}

func (m *metrics) recordCandidates(candidates []domain.ClauseCandidate) {
	for _, c := range candidates {
		m.candidates.WithLabelValues(c.ClauseType.String()).Inc()
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
