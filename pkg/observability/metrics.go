// Package observability centralizes the prometheus metrics for the
// planner API.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	itineraryMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_itinerary_mutations_total",
		Help: "Itinerary store mutations by operation and outcome.",
	}, []string{"operation", "outcome"})

	reconciliationPasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_map_reconciliation_passes_total",
		Help: "Map reconciliation passes applied to the drawing engine.",
	})

	reconciliationDeferred = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_map_reconciliation_deferred_total",
		Help: "Reconciliation passes deferred because the map engine was not ready.",
	})

	markerOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_map_marker_operations_total",
		Help: "Marker operations issued to the map engine.",
	}, []string{"operation"})

	saveAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_route_save_attempts_total",
		Help: "Route save attempts by outcome.",
	}, []string{"outcome"})

	httpRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
)

func ObserveMutation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	itineraryMutations.WithLabelValues(operation, outcome).Inc()
}

func ObserveReconciliation(created, updated, removed int) {
	reconciliationPasses.Inc()
	markerOps.WithLabelValues("create").Add(float64(created))
	markerOps.WithLabelValues("update").Add(float64(updated))
	markerOps.WithLabelValues("remove").Add(float64(removed))
}

func ObserveDeferredReconciliation() {
	reconciliationDeferred.Inc()
}

func ObserveSave(outcome string) {
	saveAttempts.WithLabelValues(outcome).Inc()
}

// Middleware records request latency per route and status code. The
// matched mux pattern keeps the label set bounded; raw paths would mint
// a label value per item id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, strconv.Itoa(sw.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
