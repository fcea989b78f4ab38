package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard server's instrumentation.
type Metrics struct {
	reg        *prometheus.Registry
	Requests   prometheus.Counter
	Errors     prometheus.Counter
	LatencySec prometheus.Histogram
}

func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	requests := prometheus.NewCounter(prometheus.CounterOpts{Name: "cartlens_requests_total"})
	errors := prometheus.NewCounter(prometheus.CounterOpts{Name: "cartlens_request_errors_total"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cartlens_request_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(requests, errors, latency)
	return &Metrics{
		reg:        r,
		Requests:   requests,
		Errors:     errors,
		LatencySec: latency,
	}
}

func (m *Metrics) Handler() http.Handler { return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}) }
