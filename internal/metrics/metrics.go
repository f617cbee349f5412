// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	tasksExpired     prometheus.Counter
	shareResolutions *prometheus.CounterVec
}

// New builds a private registry so tests can create as many as they need.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		tasksExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_expired_total",
			Help: "Tasks moved to EXPIRED by the sweeper",
		}),
		shareResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "share_requests_resolved_total",
				Help: "Share requests resolved, by outcome",
			},
			[]string{"status"},
		),
	}
	r.reg.MustRegister(r.requestsTotal, r.requestDuration, r.tasksExpired, r.shareResolutions)
	return r
}

func (r *Registry) TasksExpired(n int64) {
	r.tasksExpired.Add(float64(n))
}

func (r *Registry) ShareResolved(status string) {
	r.shareResolutions.WithLabelValues(status).Inc()
}

// Middleware records request counts and latency labelled by chi route
// pattern, so /api/tasks/1 and /api/tasks/2 share a series.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		path := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		r.requestsTotal.WithLabelValues(req.Method, path, strconv.Itoa(status)).Inc()
		r.requestDuration.WithLabelValues(req.Method, path).Observe(time.Since(start).Seconds())
	})
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
