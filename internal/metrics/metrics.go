// Package metrics exposes Prometheus collectors for calculations and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gearcost"

// Collector owns a private registry and every gear-cost metric
type Collector struct {
	registry *prometheus.Registry

	// Calculation metrics
	calculationsTotal   *prometheus.CounterVec
	calculationDuration prometheus.Histogram
	ignoredBundles      prometheus.Counter

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         prometheus.Counter
}

// New creates a collector and registers its metrics, plus the Go runtime and
// process collectors, on a fresh registry
func New() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		calculationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "deficit",
				Name:      "calculations_total",
				Help:      "Deficit calculations by outcome (ok, shortage, invalid)",
			},
			[]string{"outcome"},
		),

		calculationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "deficit",
				Name:      "calculation_duration_seconds",
				Help:      "Deficit calculation duration distribution",
				Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
			},
		),

		ignoredBundles: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "deficit",
				Name:      "ignored_bundles_total",
				Help:      "Purchase keys that matched no catalog bundle",
			},
		),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status_code"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration distribution",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the rate limiter",
			},
		),
	}

	for _, metric := range []prometheus.Collector{
		c.calculationsTotal,
		c.calculationDuration,
		c.ignoredBundles,
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := c.registry.Register(metric); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordCalculation records a finished deficit calculation
func (c *Collector) RecordCalculation(outcome string, duration time.Duration, ignoredBundles int) {
	c.calculationsTotal.WithLabelValues(outcome).Inc()
	c.calculationDuration.Observe(duration.Seconds())
	if ignoredBundles > 0 {
		c.ignoredBundles.Add(float64(ignoredBundles))
	}
}

// RecordHTTPRequest records a served HTTP request
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRateLimited counts a request rejected by the rate limiter
func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}
