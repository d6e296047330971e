package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spidercare_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spidercare_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	CompletionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spidercare_completions_total",
		Help: "Chat completions by result (ok, fallback)",
	}, []string{"result"})
	SessionsSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spidercare_sessions_swept_total",
		Help: "Expired sessions removed by the sweeper",
	})
)

func init() {
	prometheus.MustRegister(HttpRequestsTotal, HttpRequestDuration, CompletionsTotal, SessionsSweptTotal)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency. route maps a request to a
// bounded label so ids in paths do not explode cardinality.
func Middleware(route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			labels := prometheus.Labels{
				"method": r.Method,
				"route":  route(r),
				"status": strconv.Itoa(rec.status),
			}
			HttpRequestsTotal.With(labels).Inc()
			HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}
