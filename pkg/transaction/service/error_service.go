package service

import (
	"strings"

	"github.com/finchapm/finch/pkg/metrics"
	"github.com/finchapm/finch/pkg/transaction/model"
	"go.uber.org/zap"
)

// ErrorNormalizer turns a raw error reason and stack into a canonical
// type/message/stack triple.
type ErrorNormalizer interface {
	Normalize(reason string, stack []string) (errType string, message string, stackLines []string)
}

// DefaultErrorNormalizer splits "Type: message" reasons; reasons without a
// type prefix get the generic transaction-error type.
type DefaultErrorNormalizer struct{}

func (DefaultErrorNormalizer) Normalize(reason string, stack []string) (string, string, []string) {
	errType := "TransactionError"
	message := reason
	if idx := strings.Index(reason, ":"); idx > 0 {
		candidate := strings.TrimSpace(reason[:idx])
		if !strings.ContainsAny(candidate, " \t") {
			errType = candidate
			message = strings.TrimSpace(reason[idx+1:])
		}
	}
	return errType, message, stack
}

// ErrorService reshapes a raised transaction error into the backend error
// trace and error event records.
type ErrorService struct {
	normalizer ErrorNormalizer
	aggregator metrics.Aggregator
	logger     *zap.Logger
}

func NewErrorService(
	normalizer ErrorNormalizer,
	aggregator metrics.Aggregator,
	logger *zap.Logger,
) *ErrorService {
	return &ErrorService{
		normalizer: normalizer,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Classify produces the error trace and error event for one raised error.
// Unless the error was expected, the error and error-event counters are each
// incremented exactly once.
func (es *ErrorService) Classify(
	attrs model.Attributes,
	kind model.Kind,
	transactionName string,
	timing Timing,
	errInfo model.ErrorInfo,
) (model.ErrorTrace, model.ErrorEvent) {
	errType, message, stackLines := es.normalizer.Normalize(errInfo.Reason, errInfo.Stack)

	userAttrs := attrs.Clone()
	delete(userAttrs, model.AttrErrorReason)
	delete(userAttrs, model.AttrErrorStack)
	userAttrs["error_context_id"] = string(errInfo.ContextID)

	agentAttrs := map[string]interface{}{}
	if kind == model.KindWeb {
		agentAttrs["request_uri"] = attrs.StringOr(model.AttrRequestURI, "")
	}

	errTrace := model.ErrorTrace{
		TimestampS:      float64(timing.EndMs) / 1000,
		TransactionName: transactionName,
		Type:            errType,
		Message:         message,
		Expected:        errInfo.Expected,
		StackLines:      stackLines,
		AgentAttributes: agentAttrs,
		UserAttributes:  userAttrs,
	}

	eventAttrs := userAttrs.Clone()
	eventAttrs["stack_trace"] = strings.Join(stackLines, "\n")
	errEvent := model.ErrorEvent{
		TimestampS:      errTrace.TimestampS,
		TransactionName: transactionName,
		Type:            errType,
		Message:         message,
		Expected:        errInfo.Expected,
		DurationS:       timing.DurationS,
		UserAttributes:  eventAttrs,
	}
	if kind == model.KindWeb {
		errEvent.HTTPResponseCode = attrs.StringOr(model.AttrHTTPResponseCode, "")
		errEvent.RequestMethod = attrs.StringOr(model.AttrRequestMethod, "")
	}

	if !errInfo.Expected {
		es.aggregator.IncrementCount(metrics.ErrorEventCounter)
		es.aggregator.IncrementCount(metrics.ErrorCounter)
	}
	return errTrace, errEvent
}
