package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CheckStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domaintracker_check_status_total",
			Help: "Number of domain probes by outcome",
		},
		[]string{"outcome"},
	)

	CheckDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "domaintracker_check_duration_seconds",
			Help:    "Duration of domain probes",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "domaintracker_check_cache_hits_total",
			Help: "Probes answered from the result cache",
		},
	)

	MonitorIterations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domaintracker_monitor_iterations_total",
			Help: "Monitor loop passes by result",
		},
		[]string{"result"},
	)
)

func Init() {
	prometheus.MustRegister(CheckStatus, CheckDuration, CacheHits, MonitorIterations)
}
