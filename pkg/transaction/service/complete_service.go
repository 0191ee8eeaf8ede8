package service

import (
	"fmt"

	"github.com/finchapm/finch/pkg/harvest"
	"github.com/finchapm/finch/pkg/metrics"
	"github.com/finchapm/finch/pkg/transaction/model"
	"go.uber.org/zap"
)

// CompleteService runs the full finalization pipeline for one completed
// transaction: time normalization, trace reconstruction, span derivation,
// apdex and error classification, and dispatch to the harvesters.
type CompleteService struct {
	timeNormalizer *TimeNormalizerService
	treeBuilder    *TreeBuilderService
	spanService    *SpanService
	apdexService   *ApdexService
	errorService   *ErrorService
	harvesters     harvest.Harvesters
	aggregator     metrics.Aggregator
	logger         *zap.Logger
}

func NewCompleteService(
	timeNormalizer *TimeNormalizerService,
	treeBuilder *TreeBuilderService,
	spanService *SpanService,
	apdexService *ApdexService,
	errorService *ErrorService,
	harvesters harvest.Harvesters,
	aggregator metrics.Aggregator,
	logger *zap.Logger,
) *CompleteService {
	return &CompleteService{
		timeNormalizer: timeNormalizer,
		treeBuilder:    treeBuilder,
		spanService:    spanService,
		apdexService:   apdexService,
		errorService:   errorService,
		harvesters:     harvesters,
		aggregator:     aggregator,
		logger:         logger,
	}
}

// Complete finalizes one transaction. A malformed transaction (missing
// required timing fields) is dropped from reporting; nothing else aborts the
// pipeline, and each dispatch call is independent of the others.
func (cs *CompleteService) Complete(tx *model.Transaction) error {
	attrs := tx.Attributes

	timing, err := cs.timeNormalizer.NormalizeTransaction(attrs)
	if err != nil {
		cs.aggregator.IncrementCount(metrics.TransactionsDropped)
		cs.logger.Warn("Dropping transaction with malformed timing", zap.Error(err))
		return fmt.Errorf("failed to normalize transaction timing: %w", err)
	}
	if err := cs.timeNormalizer.ValidateFunctionSegments(tx.FunctionSegments); err != nil {
		cs.aggregator.IncrementCount(metrics.TransactionsDropped)
		cs.logger.Warn("Dropping transaction with malformed function segments", zap.Error(err))
		return fmt.Errorf("failed to validate function segments: %w", err)
	}

	kind, name := model.ResolveKindAndName(attrs)
	transactionName := kind.MetricPrefix() + "/" + name

	root, processes := cs.treeBuilder.BuildTrace(tx, timing.MonoStart, transactionName, timing.DurationUs)
	spans := cs.spanService.DeriveSpans(attrs, tx.RootContextID, processes, timing, transactionName)
	zone, threshold := cs.apdexService.Classify(kind, tx.Error != nil, timing.DurationS)

	var errTrace model.ErrorTrace
	var errEvent model.ErrorEvent
	if tx.Error != nil {
		errTrace, errEvent = cs.errorService.Classify(attrs, kind, transactionName, timing, *tx.Error)
	}

	cs.harvesters.Events.ReportEvent(model.TransactionEvent{
		Timestamp:  timing.StartMs,
		Name:       transactionName,
		DurationS:  timing.DurationS,
		Attributes: attrs,
	})

	cs.harvesters.Traces.ReportTrace(model.TransactionTrace{
		MetricName: transactionName,
		RequestURL: attrs.StringOr(model.AttrRequestURL, "/Unknown"),
		DurationS:  timing.DurationS,
		StartTime:  timing.StartMs,
		Root:       root,
	})

	if tx.Error != nil {
		cs.harvesters.Errors.ReportErrorTrace(errTrace)
		cs.harvesters.Errors.ReportErrorEvent(errEvent)
	}

	cs.aggregator.RecordMetric(metrics.Metric{Name: callerMetricName(attrs), Value: timing.DurationS})
	cs.aggregator.RecordMetric(metrics.Metric{Name: transactionName, Value: timing.DurationS})
	cs.aggregator.RecordAggregate(
		metrics.AggregateKey{Type: kind.MetricPrefix(), Name: name},
		metrics.AggregateValue{DurationUs: timing.DurationUs, DurationMs: timing.DurationMs, CallCount: 1},
	)
	if zone != model.ApdexIgnore {
		cs.aggregator.RecordMetric(metrics.Metric{Name: "Apdex/" + string(zone), Value: threshold})
	}

	for _, span := range spans {
		cs.harvesters.Spans.ReportSpan(span)
	}

	cs.aggregator.IncrementCount(metrics.TransactionsFinalized)
	return nil
}

// callerMetricName keys the caller metric by the distributed-trace parent
// headers, with Unknown placeholders when the transaction had no inbound
// trace context.
func callerMetricName(attrs model.Attributes) string {
	parentType := attrs.StringOr(model.AttrParentType, "Unknown")
	parentAccount := attrs.StringOr(model.AttrParentAccountID, "Unknown")
	parentApp := attrs.StringOr(model.AttrParentAppID, "Unknown")
	transport := attrs.StringOr(model.AttrTransportType, "Unknown")
	return fmt.Sprintf("DurationByCaller/%s/%s/%s/%s/all", parentType, parentAccount, parentApp, transport)
}
