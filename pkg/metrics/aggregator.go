package metrics

import (
	"sync"
)

// Counter names incremented by the pipeline.
const (
	ErrorCounter          = "error"
	ErrorEventCounter     = "error_event"
	TransactionsFinalized = "transactions_finalized"
	TransactionsDropped   = "transactions_dropped"
)

// Metric is one named measurement reported to the aggregator (apdex, caller
// and duration metrics).
type Metric struct {
	Name  string
	Value float64
}

// AggregateKey identifies a roll-up bucket for per-transaction statistics.
type AggregateKey struct {
	Type string
	Name string
}

// AggregateValue is one transaction's contribution to a roll-up bucket.
type AggregateValue struct {
	DurationUs int64
	DurationMs int64
	CallCount  int64
}

// Aggregator is the shared sink for counters, metrics and roll-up records.
// Implementations must be safe for concurrent writers; the pipeline is
// invoked from many finishing transactions at once.
type Aggregator interface {
	IncrementCount(name string)
	RecordMetric(m Metric)
	RecordAggregate(key AggregateKey, value AggregateValue)
}

// MemoryAggregator accumulates everything in memory. It backs tests and the
// periodic harvest snapshot.
type MemoryAggregator struct {
	mu         sync.Mutex
	counts     map[string]int64
	metrics    []Metric
	aggregates map[AggregateKey]AggregateValue
}

func NewMemoryAggregator() *MemoryAggregator {
	return &MemoryAggregator{
		counts:     make(map[string]int64),
		aggregates: make(map[AggregateKey]AggregateValue),
	}
}

func (ma *MemoryAggregator) IncrementCount(name string) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.counts[name]++
}

func (ma *MemoryAggregator) RecordMetric(m Metric) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.metrics = append(ma.metrics, m)
}

func (ma *MemoryAggregator) RecordAggregate(key AggregateKey, value AggregateValue) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	existing := ma.aggregates[key]
	existing.DurationUs += value.DurationUs
	existing.DurationMs += value.DurationMs
	existing.CallCount += value.CallCount
	ma.aggregates[key] = existing
}

func (ma *MemoryAggregator) Count(name string) int64 {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	return ma.counts[name]
}

func (ma *MemoryAggregator) Metrics() []Metric {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	out := make([]Metric, len(ma.metrics))
	copy(out, ma.metrics)
	return out
}

func (ma *MemoryAggregator) Aggregate(key AggregateKey) (AggregateValue, bool) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	v, ok := ma.aggregates[key]
	return v, ok
}
