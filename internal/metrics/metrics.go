package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	cartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Cart store mutations by operation.",
		},
		[]string{"op"},
	)

	checkoutOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkout_outcomes_total",
			Help: "Checkout attempts by terminal or refusal outcome.",
		},
		[]string{"outcome"},
	)

	syncTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_writethrough_tasks_total",
			Help: "Write-through tasks by name and final status.",
		},
		[]string{"task", "status"},
	)

	syncTaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_writethrough_duration_seconds",
			Help:    "Duration of write-through tasks in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_lookups_total",
			Help: "Cache reads by key prefix and result.",
		},
		[]string{"prefix", "result"},
	)

	apiErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_errors_total",
			Help: "Error responses by kind and code.",
		},
		[]string{"kind", "code"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_active_sessions",
			Help: "Sessions currently held in memory.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

func RecordCartMutation(op string) {
	cartMutationsTotal.WithLabelValues(op).Inc()
}

func RecordCheckoutOutcome(outcome string) {
	checkoutOutcomesTotal.WithLabelValues(outcome).Inc()
}

func RecordSyncTask(task, status string, took time.Duration) {
	syncTasksTotal.WithLabelValues(task, status).Inc()
	syncTaskDuration.WithLabelValues(task).Observe(took.Seconds())
}

func RecordCacheLookup(prefix, result string) {
	cacheLookupsTotal.WithLabelValues(prefix, result).Inc()
}

func RecordAPIError(kind, code string) {
	apiErrorsTotal.WithLabelValues(kind, code).Inc()
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps server-sent events working behind the middleware.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {

			// r.Pattern is only set once the mux has routed the request
			pathPattern := r.Pattern
			if pathPattern == "" {
				pathPattern = "unmatched"
			}

			duration := time.Since(start)
			statusCodeStr := strconv.Itoa(rw.statusCode)

			httpRequestsTotal.WithLabelValues(statusCodeStr, r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
			httpRequestsInFlight.Dec()

		}()

		next.ServeHTTP(rw, r)

	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
