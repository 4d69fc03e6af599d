package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "amped",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, path, and status.",
	}, []string{"method", "path", "status"})

	fetchCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "amped",
		Subsystem: "fetch",
		Name:      "metric_results_total",
		Help:      "Per-metric fetch outcomes (ok, absent, unavailable).",
	}, []string{"metric", "outcome"})

	fetchAllHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "amped",
		Subsystem: "fetch",
		Name:      "orchestration_duration_seconds",
		Help:      "Wall time of a full FetchAllMetrics orchestration.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"period"})

	ingestRowsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "amped",
		Subsystem: "ingest",
		Name:      "rows_total",
		Help:      "Ingested sample rows by disposition (inserted, dropped, rejected).",
	}, []string{"disposition"})
)

func init() {
	prometheus.MustRegister(httpRequests, fetchCounter, fetchAllHistogram, ingestRowsCounter)
}

// RecordHTTPRequest counts one served HTTP request.
func RecordHTTPRequest(method, path string, status int) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// RecordFetch counts one per-metric fetch outcome.
func RecordFetch(metric, outcome string) {
	fetchCounter.WithLabelValues(metric, outcome).Inc()
}

// ObserveFetchAll records the duration of a full orchestration.
func ObserveFetchAll(period string, d time.Duration) {
	fetchAllHistogram.WithLabelValues(period).Observe(d.Seconds())
}

// RecordIngestRows counts ingested rows by disposition.
func RecordIngestRows(disposition string, n int) {
	if n <= 0 {
		return
	}
	ingestRowsCounter.WithLabelValues(disposition).Add(float64(n))
}
