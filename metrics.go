package microservices

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments a Handler with request counts and latencies.
// It is an opt-in wrapper; nothing in Handler itself records metrics.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the request metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path template and status code.",
		}, []string{"method", "path", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path template.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (t *statusWriter) WriteHeader(status int) {
	t.status = status
	t.ResponseWriter.WriteHeader(status)
}

// Middleware decorates handler to record one observation per request.
// The path label is the mux route template when the request matched a
// route, so parameterized paths do not explode cardinality.
func (t *Metrics) Middleware(handler http.Handler) http.Handler {
	wrapped := func(w http.ResponseWriter, req *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		handler.ServeHTTP(sw, req)
		elapsed := time.Since(start)

		path := req.URL.Path
		if route := mux.CurrentRoute(req); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		t.requests.WithLabelValues(
			req.Method, path, strconv.Itoa(sw.status)).Inc()
		t.duration.WithLabelValues(req.Method, path).
			Observe(elapsed.Seconds())
	}
	return http.HandlerFunc(wrapped)
}
