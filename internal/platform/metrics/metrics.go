// Package metrics owns the process prometheus registry and the counters the webhook pipeline reports
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gitevents"

// Registry is the process registry; everything here registers against it rather than the global default
var Registry = prometheus.NewRegistry()

var (
	httpRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method, route pattern and status",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	deliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Webhook deliveries by dispatch outcome",
	}, []string{"outcome"})

	failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failures_total",
		Help:      "Failed deliveries by failure kind",
	}, []string{"kind"})

	storeOps = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_op_duration_seconds",
		Help:      "Content store round trips by operation and result",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"op", "result"})

	partialPromotions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "partial_promotions_total",
		Help:      "Talk promotions where the events file was written but the proposal was not removed",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests, deliveries, failures, storeOps, partialPromotions,
	)
}

// Handler serves the registry in the prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// ObserveHTTP records one finished request; matches middleware.AccessLogOptions.Observe
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Delivery counts a dispatched webhook by outcome
func Delivery(outcome string) { deliveries.WithLabelValues(outcome).Inc() }

// Failure counts a failed webhook by kind (not_found, conflict, storage_read...)
func Failure(kind string) { failures.WithLabelValues(kind).Inc() }

// StoreOp times a content store call
func StoreOp(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOps.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

// PartialPromotion counts a talk written without its proposal being removed
func PartialPromotion() { partialPromotions.Inc() }
