package aggregator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aggregationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unifeed_aggregation_runs_total",
		Help: "The total number of aggregation runs",
	})

	aggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "unifeed_aggregation_duration_seconds",
		Help:    "Duration of aggregation runs",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // Start at 100ms, double each bucket, 10 buckets
	})

	connectorErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unifeed_connector_errors_total",
		Help: "The total number of whole-connector failures per platform",
	}, []string{"platform"})

	postsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unifeed_posts_fetched_total",
		Help: "The total number of posts fetched per platform",
	}, []string{"platform"})
)
