package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments calls made to the tournament backend.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	breakerState    prometheus.Gauge
	liveBroadcasts  prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fixtures",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Backend API requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fixtures",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		breakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fixtures",
			Subsystem: "api",
			Name:      "circuit_breaker_state",
			Help:      "0 closed, 1 half-open, 2 open.",
		}),
		liveBroadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fixtures",
			Subsystem: "live",
			Name:      "broadcasts_total",
			Help:      "Match updates pushed to websocket rooms.",
		}),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.breakerState, m.liveBroadcasts)
	return m
}

// ObserveRequest records one backend call. status 0 means the request never got a response.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) SetBreakerState(state int) {
	if m == nil {
		return
	}
	m.breakerState.Set(float64(state))
}

func (m *Metrics) IncBroadcast() {
	if m == nil {
		return
	}
	m.liveBroadcasts.Inc()
}

func (m *Metrics) LiveBroadcasts() prometheus.Counter {
	return m.liveBroadcasts
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
