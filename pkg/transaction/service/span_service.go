package service

import (
	"github.com/finchapm/finch/pkg/idgen"
	"github.com/finchapm/finch/pkg/transaction/model"
	"go.uber.org/zap"
)

const spanCategoryGeneric = "generic"

// SpanService projects the correlated process segments of one transaction
// into distributed-tracing span events.
type SpanService struct {
	generator idgen.Generator
	logger    *zap.Logger
}

func NewSpanService(generator idgen.Generator, logger *zap.Logger) *SpanService {
	return &SpanService{
		generator: generator,
		logger:    logger,
	}
}

// DeriveSpans produces one span event per correlated process segment. When
// the transaction is sampled a synthetic root span representing the
// top-level execution context is prepended and flagged as the trace's entry
// point. Output order is insertion order, root first.
func (ss *SpanService) DeriveSpans(
	attrs model.Attributes,
	rootContext model.ContextID,
	processes []model.ProcessSegment,
	timing Timing,
	transactionName string,
) []model.SpanEvent {
	traceID := attrs.StringOr(model.AttrTraceID, "")
	transactionID := attrs.StringOr(model.AttrTransactionGUID, "")
	sampled := attrs.Bool(model.AttrSampled)
	priority, _ := attrs.Float64(model.AttrPriority)

	var spans []model.SpanEvent
	if sampled {
		spans = append(spans, model.SpanEvent{
			TraceID:       traceID,
			TransactionID: transactionID,
			Sampled:       true,
			Priority:      priority,
			Category:      spanCategoryGeneric,
			Name:          transactionName,
			GUID:          ss.generator.SpanGUID(traceID, rootContext),
			ParentGUID:    attrs.StringOr(model.AttrParentSpanID, ""),
			Timestamp:     timing.StartMs,
			Duration:      timing.DurationS,
			EntryPoint:    true,
		})
	}

	for _, ps := range processes {
		spans = append(spans, model.SpanEvent{
			TraceID:       traceID,
			TransactionID: transactionID,
			Sampled:       sampled,
			Priority:      priority,
			Category:      spanCategoryGeneric,
			Name:          ps.Name,
			GUID:          ss.generator.SpanGUID(traceID, ps.ContextID),
			ParentGUID:    ss.generator.SpanGUID(traceID, ps.ParentContextID),
			Timestamp:     timing.StartMs + (ps.StartTime-timing.MonoStart)/1000,
			Duration:      float64(ps.EndTime-ps.StartTime) / 1e6,
		})
	}
	return spans
}
