package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Embedding Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "embedding_errors_total",
			Help:      "Total embedding errors",
		},
		[]string{"provider", "model", "error_type"},
	)
)

var embMetricsRegistered bool

// RegisterEmbeddingMetrics registers Prometheus embedding metrics. Must be called once from main.
func RegisterEmbeddingMetrics() {
	if embMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingErrorsTotal)
	embMetricsRegistered = true
}

// EmbeddingObserver records transport outcomes for one provider and model.
type EmbeddingObserver struct {
	provider string
	model    string
}

// NewEmbeddingObserver creates an observer labelled with provider and model.
func NewEmbeddingObserver(provider, model string) EmbeddingObserver {
	return EmbeddingObserver{provider: provider, model: model}
}

// Success records a served request. Zero token counts are not reported.
func (o EmbeddingObserver) Success(d time.Duration, promptTokens, totalTokens int) {
	EmbeddingRequestsTotal.WithLabelValues(o.provider, o.model, "success").Inc()
	EmbeddingRequestDuration.WithLabelValues(o.provider, o.model).Observe(d.Seconds())
	if totalTokens > 0 {
		EmbeddingTokensTotal.WithLabelValues(o.provider, o.model, "prompt").Add(float64(promptTokens))
		EmbeddingTokensTotal.WithLabelValues(o.provider, o.model, "total").Add(float64(totalTokens))
	}
}

// Failure records a failed request by error type.
func (o EmbeddingObserver) Failure(errorType string) {
	EmbeddingRequestsTotal.WithLabelValues(o.provider, o.model, "error").Inc()
	EmbeddingErrorsTotal.WithLabelValues(o.provider, o.model, errorType).Inc()
}
