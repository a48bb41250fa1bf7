package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

const namespace = "tramatch"

// Registry owns the process metrics. A nil *Registry is valid and records nothing.
type Registry struct {
	reg *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	guardDecisions  *prometheus.CounterVec
	viewLoads       *prometheus.CounterVec
	preloadFailures *prometheus.CounterVec
	preloadDuration prometheus.Histogram
}

// New creates a registry with the Go and process collectors and the
// application metrics registered.
func New() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route pattern.",
	}, []string{"method", "route", "status_code"})

	r.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})

	r.guardDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Route guard outcomes.",
	}, []string{"guard", "outcome"})

	r.viewLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_loads_total",
		Help:      "Page view loads by origin and result.",
	}, []string{"origin", "result"})

	r.preloadFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_preload_failures_total",
		Help:      "Views that failed to load during background preloading.",
	}, []string{"view", "error_class"})

	r.preloadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "view_preload_duration_seconds",
		Help:      "Wall time of one preload pass.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})

	r.reg.MustRegister(
		r.httpRequests,
		r.httpDuration,
		r.guardDecisions,
		r.viewLoads,
		r.preloadFailures,
		r.preloadDuration,
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer returns the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// ObserveRequest records one finished HTTP request. route is the matched
// pattern, never the raw path.
func (r *Registry) ObserveRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// GuardDecision counts a guard outcome.
func (r *Registry) GuardDecision(guard, outcome string) {
	if r == nil {
		return
	}
	r.guardDecisions.WithLabelValues(guard, outcome).Inc()
}

// ViewLoad counts a view load. origin is "request" or "preload".
func (r *Registry) ViewLoad(origin string, err error) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	r.viewLoads.WithLabelValues(origin, result).Inc()
}

// PreloadFailure counts a view that failed to preload.
func (r *Registry) PreloadFailure(view string, err error) {
	if r == nil {
		return
	}
	r.preloadFailures.WithLabelValues(view, Classify(err)).Inc()
}

// PreloadPass records the duration of a preload pass.
func (r *Registry) PreloadPass(d time.Duration) {
	if r == nil {
		return
	}
	r.preloadDuration.Observe(d.Seconds())
}
