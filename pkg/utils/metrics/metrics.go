// Package metrics provides utilities for collecting and exposing request metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome classifies how a request to the Twitter API ended.
type Outcome string

const (
	// OutcomeSuccess is a 2xx response that decoded cleanly
	OutcomeSuccess Outcome = "success"
	// OutcomeNotFound is a 404 mapped to an absent value
	OutcomeNotFound Outcome = "not_found"
	// OutcomeError is any transport, API or decode failure
	OutcomeError Outcome = "error"
)

// Recorder publishes Prometheus metrics for Twitter API calls.
type Recorder struct {
	gatherer prometheus.Gatherer
	handler  http.Handler

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewRecorder constructs a Prometheus-backed Recorder. When reg is nil a dedicated
// registry is created so multiple recorders never collide on the default registerer.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twitter",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total Twitter API requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "twitter",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Latency of Twitter API requests by endpoint.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	reg.MustRegister(requests, latency)

	return &Recorder{
		gatherer: reg,
		handler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		requests: requests,
		latency:  latency,
	}
}

// ObserveRequest records one completed call. A nil Recorder is a no-op.
func (r *Recorder) ObserveRequest(endpoint string, outcome Outcome, duration time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(endpoint, string(outcome)).Inc()
	r.latency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.gatherer
}

// ServeHTTP implements http.Handler for exposing metrics via HTTP
func (r *Recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}
