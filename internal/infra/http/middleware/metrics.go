package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_transitions_total",
			Help: "Committed lead status transitions",
		},
		[]string{"cause", "to"},
	)

	transitionDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_transition_denials_total",
			Help: "Denied manual transition requests",
		},
		[]string{"reason"},
	)

	automationDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_dispatches_total",
			Help: "Automation trigger dispatches by outcome",
		},
		[]string{"trigger", "outcome"},
	)

	leadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Leads created through intake",
		},
		[]string{"channel"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordTransition(cause, to string) {
	leadTransitions.WithLabelValues(cause, to).Inc()
}

func RecordTransitionDenial(reason string) {
	transitionDenials.WithLabelValues(reason).Inc()
}

func RecordAutomation(trigger, outcome string) {
	automationDispatches.WithLabelValues(trigger, outcome).Inc()
}

func RecordLeadCaptured(channel string) {
	leadsCaptured.WithLabelValues(channel).Inc()
}
