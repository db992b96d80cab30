// Package metrics exposes Prometheus collectors for HTTP traffic and auth
// outcomes. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "session_auth"

// Login outcomes.
const (
	LoginSucceeded = "success"
	LoginRejected  = "rejected"
	LoginFailed    = "error"
)

type Recorder struct {
	gatherer prometheus.Gatherer

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	logins        *prometheus.CounterVec
	registrations prometheus.Counter
	logouts       *prometheus.CounterVec
	resets        prometheus.Counter
	deletions     prometheus.Counter
	guardDenials  *prometheus.CounterVec
}

// New registers all collectors on a fresh registry, so several recorders
// can coexist in tests.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		gatherer: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Successful user registrations.",
		}),
		logouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Logout calls by whether a session was stamped.",
		}, []string{"matched"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_resets_total",
			Help:      "Successful password resets.",
		}),
		deletions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_deletions_total",
			Help:      "Sessions deleted by administrators.",
		}),
		guardDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_guard_denials_total",
			Help:      "Requests rejected by the admin guard by status code.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		r.httpRequests,
		r.httpDuration,
		r.logins,
		r.registrations,
		r.logouts,
		r.resets,
		r.deletions,
		r.guardDenials,
	)

	return r
}

func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency by chi route pattern, which
// keeps path parameters such as session ids out of the label set.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		started := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		r.httpRequests.WithLabelValues(req.Method, route, strconv.Itoa(sw.status)).Inc()
		r.httpDuration.WithLabelValues(req.Method, route).Observe(time.Since(started).Seconds())
	})
}

func (r *Recorder) Login(outcome string) {
	if r == nil {
		return
	}
	r.logins.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Registered() {
	if r == nil {
		return
	}
	r.registrations.Inc()
}

func (r *Recorder) LoggedOut(matched bool) {
	if r == nil {
		return
	}
	r.logouts.WithLabelValues(strconv.FormatBool(matched)).Inc()
}

func (r *Recorder) PasswordReset() {
	if r == nil {
		return
	}
	r.resets.Inc()
}

func (r *Recorder) SessionDeleted() {
	if r == nil {
		return
	}
	r.deletions.Inc()
}

func (r *Recorder) GuardDenied(status int) {
	if r == nil {
		return
	}
	r.guardDenials.WithLabelValues(strconv.Itoa(status)).Inc()
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
