package service

import (
	"testing"

	"github.com/finchapm/finch/pkg/metrics"
	"github.com/finchapm/finch/pkg/transaction/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func webTiming() Timing {
	return Timing{
		StartMs:    1_700_000_000_000,
		EndMs:      1_700_000_000_500,
		DurationUs: 500_000,
		DurationMs: 500,
		DurationS:  0.5,
		MonoStart:  0,
	}
}

func TestErrorService_Classify(t *testing.T) {
	t.Run("Web transactions carry the web prefix and request fields", func(t *testing.T) {
		aggregator := metrics.NewMemoryAggregator()
		es := NewErrorService(DefaultErrorNormalizer{}, aggregator, zap.NewNop())
		attrs := model.Attributes{
			model.AttrRequestURI:       "/orders",
			model.AttrRequestMethod:    "GET",
			model.AttrHTTPResponseCode: "500",
			model.AttrErrorReason:      "boom",
			"user_id":                  "42",
		}

		errTrace, errEvent := es.Classify(attrs, model.KindWeb, "WebTransaction/orders", webTiming(), model.ErrorInfo{
			ContextID: "A",
			Reason:    "RuntimeError: boom",
			Stack:     []string{"line one", "line two"},
		})

		assert.Equal(t, "WebTransaction/orders", errTrace.TransactionName)
		assert.Equal(t, "RuntimeError", errTrace.Type)
		assert.Equal(t, "boom", errTrace.Message)
		assert.False(t, errTrace.Expected)
		assert.Equal(t, []string{"line one", "line two"}, errTrace.StackLines)
		assert.Equal(t, "/orders", errTrace.AgentAttributes["request_uri"])
		assert.Equal(t, "42", errTrace.UserAttributes["user_id"])
		assert.Equal(t, "A", errTrace.UserAttributes["error_context_id"])
		_, hasRawError := errTrace.UserAttributes[model.AttrErrorReason]
		assert.False(t, hasRawError)

		assert.Equal(t, "500", errEvent.HTTPResponseCode)
		assert.Equal(t, "GET", errEvent.RequestMethod)
		assert.Equal(t, "line one\nline two", errEvent.UserAttributes["stack_trace"])
		assert.Equal(t, 0.5, errEvent.DurationS)
	})

	t.Run("Other transactions omit the web-only fields", func(t *testing.T) {
		aggregator := metrics.NewMemoryAggregator()
		es := NewErrorService(DefaultErrorNormalizer{}, aggregator, zap.NewNop())
		attrs := model.Attributes{model.AttrOtherTransactionName: "Job"}

		errTrace, errEvent := es.Classify(attrs, model.KindOther, "OtherTransaction/Job", webTiming(), model.ErrorInfo{
			Reason: "worker blew up",
		})

		assert.Equal(t, "OtherTransaction/Job", errTrace.TransactionName)
		assert.Empty(t, errTrace.AgentAttributes)
		assert.Equal(t, "TransactionError", errTrace.Type)
		assert.Equal(t, "worker blew up", errTrace.Message)
		assert.Empty(t, errEvent.HTTPResponseCode)
		assert.Empty(t, errEvent.RequestMethod)
	})

	t.Run("An unexpected error increments both counters exactly once", func(t *testing.T) {
		aggregator := metrics.NewMemoryAggregator()
		es := NewErrorService(DefaultErrorNormalizer{}, aggregator, zap.NewNop())

		es.Classify(model.Attributes{}, model.KindWeb, "WebTransaction/x", webTiming(), model.ErrorInfo{
			Reason: "boom",
		})

		assert.Equal(t, int64(1), aggregator.Count(metrics.ErrorCounter))
		assert.Equal(t, int64(1), aggregator.Count(metrics.ErrorEventCounter))
	})

	t.Run("An expected error increments neither counter", func(t *testing.T) {
		aggregator := metrics.NewMemoryAggregator()
		es := NewErrorService(DefaultErrorNormalizer{}, aggregator, zap.NewNop())

		errTrace, _ := es.Classify(model.Attributes{}, model.KindWeb, "WebTransaction/x", webTiming(), model.ErrorInfo{
			Reason:   "boom",
			Expected: true,
		})

		assert.True(t, errTrace.Expected)
		assert.Equal(t, int64(0), aggregator.Count(metrics.ErrorCounter))
		assert.Equal(t, int64(0), aggregator.Count(metrics.ErrorEventCounter))
	})
}

func TestDefaultErrorNormalizer(t *testing.T) {
	t.Run("Splits a typed reason", func(t *testing.T) {
		errType, message, stack := DefaultErrorNormalizer{}.Normalize("ArgumentError: bad input", []string{"l1"})
		assert.Equal(t, "ArgumentError", errType)
		assert.Equal(t, "bad input", message)
		assert.Equal(t, []string{"l1"}, stack)
	})

	t.Run("Falls back to the generic type for untyped reasons", func(t *testing.T) {
		errType, message, _ := DefaultErrorNormalizer{}.Normalize("something awful: it happened here", nil)
		assert.Equal(t, "TransactionError", errType)
		assert.Equal(t, "something awful: it happened here", message)
	})
}
