package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics collects HTTP and query-engine metrics on a private
// registry so nothing else leaks into the scrape.
type ServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	queryTotal         *prometheus.CounterVec
	queryDuration      *prometheus.HistogramVec
	querySources       *prometheus.HistogramVec
	toolInvocations    *prometheus.CounterVec
	graphDegradedTotal *prometheus.CounterVec
}

func NewServerMetrics(service string) *ServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rae",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rae",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rae",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queryTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rae",
			Subsystem: "query",
			Name:      "requests_total",
			Help:      "Total query requests by retrieval method and outcome.",
		},
		[]string{"service", "method", "status"},
	)
	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rae",
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Query duration in seconds by retrieval method.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service", "method"},
	)
	querySources := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rae",
			Subsystem: "query",
			Name:      "sources_returned",
			Help:      "Distribution of source records per successful query.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 10, 15, 21},
		},
		[]string{"service", "method"},
	)
	toolInvocations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rae",
			Subsystem: "router",
			Name:      "tool_invocations_total",
			Help:      "Total routed tool invocations by tool and outcome.",
		},
		[]string{"service", "tool", "status"},
	)
	graphDegradedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rae",
			Subsystem: "router",
			Name:      "graph_degraded_total",
			Help:      "Total requests that degraded by omitting graph sources.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal, requestDuration, requestInFlight,
		queryTotal, queryDuration, querySources,
		toolInvocations, graphDegradedTotal,
	)

	return &ServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		queryTotal:         queryTotal,
		queryDuration:      queryDuration,
		querySources:       querySources,
		toolInvocations:    toolInvocations,
		graphDegradedTotal: graphDegradedTotal,
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ServerMetrics) ObserveRequest(service, method, path string, status int, duration time.Duration) {
	m.requestTotal.WithLabelValues(service, method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

func (m *ServerMetrics) RequestStarted() { m.requestInFlight.Inc() }
func (m *ServerMetrics) RequestDone()    { m.requestInFlight.Dec() }

func (m *ServerMetrics) ObserveQuery(service string, methodID int, success bool, sources int, duration time.Duration) {
	method := strconv.Itoa(methodID)
	status := "ok"
	if !success {
		status = "error"
	}
	m.queryTotal.WithLabelValues(service, method, status).Inc()
	if success {
		m.queryDuration.WithLabelValues(service, method).Observe(duration.Seconds())
		m.querySources.WithLabelValues(service, method).Observe(float64(sources))
	}
}

func (m *ServerMetrics) ObserveToolInvocation(service, tool string, success bool) {
	status := "ok"
	if !success {
		status = "error"
	}
	m.toolInvocations.WithLabelValues(service, tool, status).Inc()
}

func (m *ServerMetrics) ObserveGraphDegraded(service string) {
	m.graphDegradedTotal.WithLabelValues(service).Inc()
}
