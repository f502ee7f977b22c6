package metrics

import "github.com/prometheus/client_golang/prometheus"

// Cache and retrieval Prometheus metrics.
var (
	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_requests_total",
			Help:      "Request cache lookups by operation and result",
		},
		[]string{"op", "result"}, // result: hit / miss / error
	)

	SearchChannelTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_channel_total",
			Help:      "Retrieval channel outcomes",
		},
		[]string{"kind", "channel", "status"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers cache and channel metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(CacheRequestsTotal)
	prometheus.MustRegister(SearchChannelTotal)
	retrievalMetricsRegistered = true
}
