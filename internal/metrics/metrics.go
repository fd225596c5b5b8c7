// Package metrics exposes request counters and latency histograms to
// Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "student_records_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "code"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "student_records_http_request_duration_seconds",
			Help:    "Histogram of response latency (seconds) for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
	changeNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "student_records_change_notifications_total",
			Help: "Change notifications by resource, operation and outcome",
		},
		[]string{"resource", "operation", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(changeNotificationsTotal)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records every request under the ServeMux pattern that served
// it. It must wrap the mux directly so the pattern is visible afterwards.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		handler := r.Pattern
		if handler == "" {
			handler = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(handler, r.Method, strconv.Itoa(ww.status)).Inc()
		httpRequestDuration.WithLabelValues(handler, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ObserveNotification counts a published change notification.
func ObserveNotification(resource, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	changeNotificationsTotal.WithLabelValues(resource, operation, outcome).Inc()
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
