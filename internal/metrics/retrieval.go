package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and evaluation Prometheus metrics.
var (
	RetrievalStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nyaya",
			Name:      "retrieval_stage_duration_seconds",
			Help:      "Wall-clock duration of each retrieval stage",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"stage"},
	)

	RetrievalWidePassTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nyaya",
			Name:      "retrieval_wide_pass_total",
			Help:      "Retrievals that fell back to the wide semantic pass",
		},
	)

	RetrievalSourceFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nyaya",
			Name:      "retrieval_source_failures_total",
			Help:      "Candidate source failures by origin",
		},
		[]string{"origin"},
	)

	RerankFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nyaya",
			Name:      "rerank_heuristic_fallback_total",
			Help:      "Reranks that fell back to heuristic-only scoring",
		},
	)

	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nyaya",
			Name:      "evaluations_total",
			Help:      "Single-query evaluations by outcome",
		},
		[]string{"outcome"}, // "ok" / "failed" / "no_ground_truth"
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalStageDuration)
	prometheus.MustRegister(RetrievalWidePassTotal)
	prometheus.MustRegister(RetrievalSourceFailuresTotal)
	prometheus.MustRegister(RerankFallbackTotal)
	prometheus.MustRegister(EvaluationsTotal)
	retrievalMetricsRegistered = true
}
