package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragbridge_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ragbridge_http_request_duration_seconds",
			Help:    "Time taken to handle HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ScrapeJobsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragbridge_scrape_jobs_published_total",
			Help: "Total number of scrape jobs published to the queue",
		},
		[]string{"target"},
	)
)
