package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// httpMetrics bundles the request instruments so tests can register them on
// their own registry.
type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	m := &httpMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
			[]string{"service"},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.inFlight)
	return m
}

var defaultHTTPMetrics = sync.OnceValue(func() *httpMetrics {
	return newHTTPMetrics(prometheus.DefaultRegisterer)
})

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// PrometheusMetrics instruments every request with a counter, a latency
// histogram and an in-flight gauge on the default registry. The path label
// is the chi route pattern, never the raw URL, so cardinality stays bounded.
func PrometheusMetrics(service string) func(next http.Handler) http.Handler {
	return defaultHTTPMetrics().middleware(service)
}

func (m *httpMetrics) middleware(service string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.inFlight.WithLabelValues(service).Inc()
			defer m.inFlight.WithLabelValues(service).Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unknown"
			}
			status := strconv.Itoa(rec.status)

			m.requests.WithLabelValues(service, r.Method, route, status).Inc()
			m.duration.WithLabelValues(service, r.Method, route, status).
				Observe(time.Since(start).Seconds())
		})
	}
}
