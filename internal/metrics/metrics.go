package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "madspace_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "madspace_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ReviewsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "madspace_reviews_submitted_total",
			Help: "Reviews written through the site",
		},
	)

	HistoryImports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "madspace_history_imports_total",
			Help: "Course history CSV uploads by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ReviewsSubmitted)
	prometheus.MustRegister(HistoryImports)
}
