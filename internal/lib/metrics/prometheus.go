package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
)

var (
	// OperationCalls — количество вызовов операций движка по исходу.
	OperationCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housing_recommender_operation_calls_total",
			Help: "Total number of recommendation engine calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// OperationDuration — длительность операций движка.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "housing_recommender_operation_duration_seconds",
			Help:    "Recommendation engine call latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	// OperationResults — размер выдачи.
	OperationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "housing_recommender_operation_results",
			Help:    "Number of items returned by recommendation engine calls",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50},
		},
		[]string{"operation"},
	)

	// CircuitBreakerState — состояние circuit breaker (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "housing_recommender_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions — переходы между состояниями circuit breaker.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housing_recommender_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// CircuitBreakerRejections — запросы, отклонённые открытым circuit breaker.
	CircuitBreakerRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housing_recommender_circuit_breaker_rejections_total",
			Help: "Total number of repository calls rejected by an open circuit breaker",
		},
		[]string{"name"},
	)
)

func observe(op Operation, outcome string, latency time.Duration, resultCount int) {
	OperationCalls.WithLabelValues(string(op), outcome).Inc()
	OperationDuration.WithLabelValues(string(op)).Observe(latency.Seconds())
	OperationResults.WithLabelValues(string(op)).Observe(float64(resultCount))
}
