package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// supportability counters incremented by the finalization pipeline
	supportabilityCounters = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finch_agent_supportability_total",
		Help: "Supportability counters incremented during transaction finalization.",
	},
		[]string{"counter"})

	transactionMetrics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finch_agent_transaction_metric_total",
		Help: "Accumulated transaction metrics (apdex, caller and duration) by metric name.",
	},
		[]string{"metric"})

	aggregateDurationUs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finch_agent_aggregate_duration_microseconds_total",
		Help: "Accumulated transaction duration by transaction type and name.",
	},
		[]string{"type", "name"})

	aggregateCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finch_agent_aggregate_calls_total",
		Help: "Transaction call counts by transaction type and name.",
	},
		[]string{"type", "name"})
)

// PrometheusAggregator mirrors every aggregator write onto the process-wide
// prometheus registry so the agent's own health is observable.
type PrometheusAggregator struct {
	next Aggregator
}

// NewPrometheusAggregator wraps another aggregator; the wrapped one keeps
// being the source of truth for harvest snapshots.
func NewPrometheusAggregator(next Aggregator) *PrometheusAggregator {
	return &PrometheusAggregator{next: next}
}

func (pa *PrometheusAggregator) IncrementCount(name string) {
	supportabilityCounters.WithLabelValues(name).Inc()
	pa.next.IncrementCount(name)
}

func (pa *PrometheusAggregator) RecordMetric(m Metric) {
	transactionMetrics.WithLabelValues(m.Name).Add(m.Value)
	pa.next.RecordMetric(m)
}

func (pa *PrometheusAggregator) RecordAggregate(key AggregateKey, value AggregateValue) {
	aggregateDurationUs.WithLabelValues(key.Type, key.Name).Add(float64(value.DurationUs))
	aggregateCalls.WithLabelValues(key.Type, key.Name).Add(float64(value.CallCount))
	pa.next.RecordAggregate(key, value)
}
