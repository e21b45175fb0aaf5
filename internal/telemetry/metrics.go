package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one server on a private registry, so that
// several servers (and tests) never collide on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	allocations     *prometheus.HistogramVec
	cutsPlaced      *prometheus.CounterVec
	cutsUnplaced    *prometheus.CounterVec
}

// NewMetrics creates and registers the LineCut collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linecut",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "linecut",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		allocations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "linecut",
			Name:      "allocation_duration_seconds",
			Help:      "Time spent in the allocator by kind (raw or plan).",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"kind"}),
		cutsPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linecut",
			Name:      "cuts_placed_total",
			Help:      "Cuts assigned to a stock piece.",
		}, []string{"kind"}),
		cutsUnplaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linecut",
			Name:      "cuts_unplaced_total",
			Help:      "Cuts that fit no stock piece.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.allocations,
		m.cutsPlaced,
		m.cutsUnplaced,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveAllocation records one allocator run.
func (m *Metrics) ObserveAllocation(kind string, d time.Duration, placed, unplaced int) {
	m.allocations.WithLabelValues(kind).Observe(d.Seconds())
	m.cutsPlaced.WithLabelValues(kind).Add(float64(placed))
	m.cutsUnplaced.WithLabelValues(kind).Add(float64(unplaced))
}
