// Package metrics exposes Prometheus collectors for HTTP traffic, trade
// dispatch and language model calls.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crypto_backend"

// Recorder owns the collectors of one registry. The zero value is not usable;
// call NewRecorder.
type Recorder struct {
	gatherer prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	dispatches   *prometheus.CounterVec
	llmLatency   *prometheus.HistogramVec
}

// NewRecorder registers the collectors on reg. Passing nil uses a fresh registry.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Recorder{
		gatherer: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "dispatch_total",
			Help:      "Dispatched trade actions by action and outcome",
		}, []string{"action", "outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Language model call latency by model and outcome",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"model", "outcome"}),
	}
	reg.MustRegister(r.httpRequests, r.httpLatency, r.dispatches, r.llmLatency)
	return r
}

// ObserveHTTP records one served request. route is the matched route pattern,
// not the raw path.
func (r *Recorder) ObserveHTTP(method, route string, code int, d time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveDispatch records one trade action.
func (r *Recorder) ObserveDispatch(action, outcome string) {
	r.dispatches.WithLabelValues(action, outcome).Inc()
}

// ObserveLLM records one language model call.
func (r *Recorder) ObserveLLM(model, outcome string, d time.Duration) {
	r.llmLatency.WithLabelValues(model, outcome).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
