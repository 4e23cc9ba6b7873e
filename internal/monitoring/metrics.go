package monitoring

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service. Each instance owns its
// registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	reportsGenerated  *prometheus.CounterVec
	reportDuration    prometheus.Histogram
	nlpCalls          *prometheus.CounterVec
	nlpDuration       prometheus.Histogram
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	rateLimitBlocks   *prometheus.CounterVec
	rateLimitFallback prometheus.Counter
	breakerState      *prometheus.GaugeVec
	eventsPublished   *prometheus.CounterVec

	requestCount int64
	errorCount   int64
	StartTime    time.Time
}

// NewMetrics creates and registers all collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		reportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engagement_reports_generated_total",
			Help: "Cycle reports generated, by NLP data source.",
		}, []string{"nlp_source"}),
		reportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "engagement_report_duration_seconds",
			Help:    "Histogram of end-to-end report generation durations.",
			Buckets: prometheus.DefBuckets,
		}),
		nlpCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nlp_requests_total",
			Help: "Calls to the text-analysis collaborator by outcome.",
		}, []string{"outcome"}),
		nlpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nlp_request_duration_seconds",
			Help:    "Histogram of text-analysis collaborator latencies.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total response cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total response cache misses.",
		}),
		rateLimitBlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_blocks_total",
			Help: "Requests rejected by the rate limiter, by scope.",
		}, []string{"scope"}),
		rateLimitFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rate_limit_fallback_total",
			Help: "Rate limit decisions served by the in-memory fallback.",
		}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state gauge (0 closed, 1 half-open, 2 open).",
		}, []string{"target"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_events_published_total",
			Help: "Report events handed to the message bus, by outcome.",
		}, []string{"outcome"}),
		StartTime: time.Now(),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.reportsGenerated,
		m.reportDuration,
		m.nlpCalls,
		m.nlpDuration,
		m.cacheHits,
		m.cacheMisses,
		m.rateLimitBlocks,
		m.rateLimitFallback,
		m.breakerState,
		m.eventsPublished,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.requestCount, 1)
	if status >= 400 {
		atomic.AddInt64(&m.errorCount, 1)
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// ReportGenerated records a finished report
func (m *Metrics) ReportGenerated(nlpSource string, duration time.Duration) {
	if m == nil {
		return
	}
	m.reportsGenerated.WithLabelValues(nlpSource).Inc()
	m.reportDuration.Observe(duration.Seconds())
}

// NLPCall records one collaborator call; outcome is "success", "error" or "fallback"
func (m *Metrics) NLPCall(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.nlpCalls.WithLabelValues(outcome).Inc()
	m.nlpDuration.Observe(duration.Seconds())
}

func (m *Metrics) IncrementCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) IncrementCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// IncrementRateLimitBlock records a rejected request; scope is "ip" or "endpoint"
func (m *Metrics) IncrementRateLimitBlock(scope string) {
	if m == nil {
		return
	}
	m.rateLimitBlocks.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncrementRateLimitFallback() {
	if m == nil {
		return
	}
	m.rateLimitFallback.Inc()
}

// SetBreakerState publishes a circuit breaker state for target
func (m *Metrics) SetBreakerState(target string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(target).Set(float64(state))
}

// EventPublished records a bus publish; outcome is "success" or "error"
func (m *Metrics) EventPublished(outcome string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(outcome).Inc()
}

// GetStats returns a small summary for the health endpoint
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.requestCount)
	errors := atomic.LoadInt64(&m.errorCount)

	errorRate := 0.0
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	return map[string]interface{}{
		"uptime_seconds": int64(time.Since(m.StartTime).Seconds()),
		"request_count":  requests,
		"error_count":    errors,
		"error_rate":     errorRate,
	}
}
