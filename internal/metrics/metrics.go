package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TotalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petcare_http_requests_total",
			Help: "Total number of HTTP requests to the API",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "petcare_http_request_duration_seconds",
			Help:    "Histogram of HTTP response duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	SweepRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "petcare_update_sweeps_total",
			Help: "Total number of notification sweep invocations",
		},
	)

	UpdatesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petcare_updates_created_total",
			Help: "Total number of updates created by the sweep, by source kind",
		},
		[]string{"kind"},
	)
)

func Register() {
	prometheus.MustRegister(TotalRequests, RequestDuration, SweepRuns, UpdatesCreated)
}
