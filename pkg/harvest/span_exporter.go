package harvest

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/finchapm/finch/pkg/transaction/model"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonv1 "go.opentelemetry.io/proto/otlp/common/v1"
	resourcev1 "go.opentelemetry.io/proto/otlp/resource/v1"
	tracev1 "go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"
)

const exportTimeOut = 10 * time.Second

// SpanExporter forwards derived span events to an OTLP collector. Spans are
// buffered per trace id in the write-behind cache and shipped in batches.
type SpanExporter struct {
	client      protoTrace.TraceServiceClient
	cache       SpanWriteBehindCache
	serviceName string
	logger      *zap.Logger
}

func NewSpanExporter(
	client protoTrace.TraceServiceClient,
	cache SpanWriteBehindCache,
	serviceName string,
	logger *zap.Logger,
) *SpanExporter {
	return &SpanExporter{
		client:      client,
		cache:       cache,
		serviceName: serviceName,
		logger:      logger,
	}
}

// Buffer queues one span for the next flush.
func (se *SpanExporter) Buffer(span model.SpanEvent) error {
	return se.cache.Put(span.TraceID, []model.SpanEvent{span})
}

// Flush drains the buffer and exports everything in one OTLP request. A
// failed export is logged and dropped; telemetry delivery is best effort.
func (se *SpanExporter) Flush(ctx context.Context) error {
	drained := se.cache.Drain()
	if len(drained) == 0 {
		return nil
	}

	var scopeSpans []*tracev1.Span
	for _, spans := range drained {
		for _, span := range spans {
			scopeSpans = append(scopeSpans, toOtlpSpan(span))
		}
	}

	exportCtx, cancel := context.WithTimeout(ctx, exportTimeOut)
	defer cancel()
	_, err := se.client.Export(exportCtx, &protoTrace.ExportTraceServiceRequest{
		ResourceSpans: []*tracev1.ResourceSpans{
			{
				Resource: &resourcev1.Resource{
					Attributes: []*commonv1.KeyValue{
						stringAttribute("service.name", se.serviceName),
					},
				},
				ScopeSpans: []*tracev1.ScopeSpans{
					{Spans: scopeSpans},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to export spans to collector: %w", err)
	}
	return nil
}

func toOtlpSpan(span model.SpanEvent) *tracev1.Span {
	traceID, _ := hex.DecodeString(span.TraceID)
	spanID, _ := hex.DecodeString(span.GUID)
	parentSpanID, _ := hex.DecodeString(span.ParentGUID)
	startNano := uint64(span.Timestamp) * uint64(time.Millisecond)
	endNano := startNano + uint64(span.Duration*float64(time.Second))

	attributes := []*commonv1.KeyValue{
		stringAttribute("transaction.id", span.TransactionID),
		stringAttribute("span.category", span.Category),
		{
			Key:   "sampled",
			Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_BoolValue{BoolValue: span.Sampled}},
		},
		{
			Key:   "priority",
			Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_DoubleValue{DoubleValue: span.Priority}},
		},
	}
	if span.EntryPoint {
		attributes = append(attributes, &commonv1.KeyValue{
			Key:   "entry.point",
			Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_BoolValue{BoolValue: true}},
		})
	}

	return &tracev1.Span{
		TraceId:           traceID,
		SpanId:            spanID,
		ParentSpanId:      parentSpanID,
		Name:              span.Name,
		Kind:              tracev1.Span_SPAN_KIND_INTERNAL,
		StartTimeUnixNano: startNano,
		EndTimeUnixNano:   endNano,
		Attributes:        attributes,
	}
}

func stringAttribute(key, value string) *commonv1.KeyValue {
	return &commonv1.KeyValue{
		Key:   key,
		Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_StringValue{StringValue: value}},
	}
}
