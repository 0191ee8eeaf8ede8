package harvest

import (
	"github.com/finchapm/finch/pkg/transaction/model"
)

// Harvesters are the outbound sinks the finalization pipeline dispatches
// into. Every call is fire and forget: batching, delivery and retry are the
// sink's concern, and a failure in one sink never rolls back another.
type EventHarvester interface {
	ReportEvent(event model.TransactionEvent)
}

type TraceHarvester interface {
	ReportTrace(trace model.TransactionTrace)
}

type ErrorHarvester interface {
	ReportErrorTrace(errTrace model.ErrorTrace)
	ReportErrorEvent(errEvent model.ErrorEvent)
}

type SpanHarvester interface {
	ReportSpan(span model.SpanEvent)
}

// Harvesters bundles one sink per record type for injection into the
// pipeline.
type Harvesters struct {
	Events EventHarvester
	Traces TraceHarvester
	Errors ErrorHarvester
	Spans  SpanHarvester
}
