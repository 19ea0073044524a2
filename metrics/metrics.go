package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approxdb_queries_total",
			Help: "Total number of executed queries",
		},
		[]string{"agg", "mode"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "approxdb_query_duration_seconds",
			Help:    "Query execution latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"agg", "mode"},
	)

	SamplesUsed = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "approxdb_samples_used",
			Help:    "Sample sizes consumed by approximate queries",
			Buckets: prometheus.ExponentialBuckets(10, 4, 10),
		},
	)

	RecordsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "approxdb_records_total",
			Help: "Records currently stored in the tree",
		},
	)
)

func Init() {
	prometheus.MustRegister(QueriesTotal, QueryDuration, SamplesUsed, RecordsTotal)
}
