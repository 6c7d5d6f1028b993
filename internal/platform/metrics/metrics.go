// Package metrics exposes Prometheus instrumentation for the service layer
// and the HTTP API.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/calshare/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "calshare"

// Operation outcomes used as the status label.
const (
	StatusOK           = "ok"
	StatusValidation   = "validation"
	StatusOverlap      = "overlap"
	StatusNotFound     = "not_found"
	StatusDuplicate    = "duplicate"
	StatusAccessDenied = "access_denied"
	StatusNoSession    = "no_session"
	StatusError        = "error"
)

// Metrics holds the collectors of one process. Each instance owns its
// registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	operations      *prometheus.CounterVec
	users           prometheus.Gauge
	sessions        prometheus.Gauge
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with Go runtime and process collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total calendar operations by outcome",
			},
			[]string{"operation", "status"},
		),
		users: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registered_users",
				Help:      "Number of registered users",
			},
		),
		sessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Number of sessions currently logged in",
			},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "route", "code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordOperation counts one service operation and its outcome.
func (m *Metrics) RecordOperation(operation string, err error) {
	m.operations.WithLabelValues(operation, Status(err)).Inc()
}

// UserRegistered increments the registered users gauge.
func (m *Metrics) UserRegistered() {
	m.users.Inc()
}

// SessionStarted increments the active sessions gauge.
func (m *Metrics) SessionStarted() {
	m.sessions.Inc()
}

// SessionEnded decrements the active sessions gauge.
func (m *Metrics) SessionEnded() {
	m.sessions.Dec()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latencies labelled with the chi
// route pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(code)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Status classifies err into one of the Status* labels.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, domain.ErrValidation):
		return StatusValidation
	case errors.Is(err, domain.ErrOverlap):
		return StatusOverlap
	case errors.Is(err, domain.ErrNoSession):
		return StatusNoSession
	case errors.Is(err, domain.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, domain.ErrDuplicateUser):
		return StatusDuplicate
	case errors.Is(err, domain.ErrAccessDenied):
		return StatusAccessDenied
	default:
		return StatusError
	}
}
