package harvest

import (
	"github.com/asaskevich/EventBus"
	"github.com/finchapm/finch/pkg/event_bus"
	"github.com/finchapm/finch/pkg/transaction/model"
	"go.uber.org/zap"
)

// Bus topics carrying finalized records from the pipeline to the sinks.
const (
	TransactionEventTopic = "transaction_event"
	TransactionTraceTopic = "transaction_trace"
	ErrorTraceTopic       = "error_trace"
	ErrorEventTopic       = "error_event"
	SpanEventTopic        = "span_event"
)

// BusHarvester publishes every finalized record onto the event bus; the
// concrete sinks subscribe to the topics they care about. Publishing is fire
// and forget, so a slow sink never blocks finalization.
type BusHarvester struct {
	events      event_bus.FinchEventBus[model.TransactionEvent, model.TransactionEvent]
	traces      event_bus.FinchEventBus[model.TransactionTrace, model.TransactionTrace]
	errorTraces event_bus.FinchEventBus[model.ErrorTrace, model.ErrorTrace]
	errorEvents event_bus.FinchEventBus[model.ErrorEvent, model.ErrorEvent]
	spans       event_bus.FinchEventBus[model.SpanEvent, model.SpanEvent]
	logger      *zap.Logger
}

func NewBusHarvester(bus EventBus.Bus, logger *zap.Logger) *BusHarvester {
	return &BusHarvester{
		events:      event_bus.NewFinchEventBus[model.TransactionEvent, model.TransactionEvent](bus, logger),
		traces:      event_bus.NewFinchEventBus[model.TransactionTrace, model.TransactionTrace](bus, logger),
		errorTraces: event_bus.NewFinchEventBus[model.ErrorTrace, model.ErrorTrace](bus, logger),
		errorEvents: event_bus.NewFinchEventBus[model.ErrorEvent, model.ErrorEvent](bus, logger),
		spans:       event_bus.NewFinchEventBus[model.SpanEvent, model.SpanEvent](bus, logger),
		logger:      logger,
	}
}

func (bh *BusHarvester) ReportEvent(event model.TransactionEvent) {
	if err := bh.events.Publish(TransactionEventTopic, event); err != nil {
		bh.logger.Error("Failed to publish transaction event", zap.Error(err))
	}
}

func (bh *BusHarvester) ReportTrace(trace model.TransactionTrace) {
	if err := bh.traces.Publish(TransactionTraceTopic, trace); err != nil {
		bh.logger.Error("Failed to publish transaction trace", zap.Error(err))
	}
}

func (bh *BusHarvester) ReportErrorTrace(errTrace model.ErrorTrace) {
	if err := bh.errorTraces.Publish(ErrorTraceTopic, errTrace); err != nil {
		bh.logger.Error("Failed to publish error trace", zap.Error(err))
	}
}

func (bh *BusHarvester) ReportErrorEvent(errEvent model.ErrorEvent) {
	if err := bh.errorEvents.Publish(ErrorEventTopic, errEvent); err != nil {
		bh.logger.Error("Failed to publish error event", zap.Error(err))
	}
}

func (bh *BusHarvester) ReportSpan(span model.SpanEvent) {
	if err := bh.spans.Publish(SpanEventTopic, span); err != nil {
		bh.logger.Error("Failed to publish span event", zap.Error(err))
	}
}

// Harvesters returns the bus-backed sink bundle for pipeline injection.
func (bh *BusHarvester) Harvesters() Harvesters {
	return Harvesters{
		Events: bh,
		Traces: bh,
		Errors: bh,
		Spans:  bh,
	}
}
