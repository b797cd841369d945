package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Main Street collectors on their own registry, so several
// apps (tests included) can live in one process.
type Metrics struct {
	registry       *prometheus.Registry
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	shopEnters     *prometheus.CounterVec
	shopsSeeded    *prometheus.CounterVec
}

// New creates and registers every collector.
func New() *Metrics {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mainstreet_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mainstreet_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	shopEnters := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mainstreet_shop_enter_total",
			Help: "Enter-store clicks, by whether they were counted",
		},
		[]string{"counted"},
	)

	shopsSeeded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mainstreet_shops_seeded_total",
			Help: "Shops upserted by the reconciler, by source",
		},
		[]string{"source"},
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestCounter,
		requestLatency,
		shopEnters,
		shopsSeeded,
	)

	return &Metrics{
		registry:       registry,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		shopEnters:     shopEnters,
		shopsSeeded:    shopsSeeded,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestCounter.WithLabelValues(method, route, status).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(seconds)
}

// ShopEntered counts an enter-store click.
func (m *Metrics) ShopEntered(counted bool) {
	if m == nil {
		return
	}
	label := "false"
	if counted {
		label = "true"
	}
	m.shopEnters.WithLabelValues(label).Inc()
}

// ShopsSeeded adds n reconciled shops for source.
func (m *Metrics) ShopsSeeded(source string, n int) {
	if m == nil {
		return
	}
	m.shopsSeeded.WithLabelValues(source).Add(float64(n))
}
