package harvest

import (
	"encoding/hex"
	"testing"

	"github.com/finchapm/finch/pkg/transaction/model"
	"github.com/stretchr/testify/assert"
	tracev1 "go.opentelemetry.io/proto/otlp/trace/v1"
)

func TestToOtlpSpan(t *testing.T) {
	t.Run("Maps identity and timing onto the OTLP span", func(t *testing.T) {
		span := model.SpanEvent{
			TraceID:       "aaaa0000aaaa0000aaaa0000aaaa0000",
			TransactionID: "txn-1",
			GUID:          "bbbb0000bbbb0000",
			ParentGUID:    "cccc0000cccc0000",
			Name:          "worker",
			Category:      "generic",
			Sampled:       true,
			Priority:      1.5,
			Timestamp:     1_700_000_000_000,
			Duration:      0.25,
		}
		otlpSpan := toOtlpSpan(span)

		assert.Equal(t, "aaaa0000aaaa0000aaaa0000aaaa0000", hex.EncodeToString(otlpSpan.TraceId))
		assert.Equal(t, "bbbb0000bbbb0000", hex.EncodeToString(otlpSpan.SpanId))
		assert.Equal(t, "cccc0000cccc0000", hex.EncodeToString(otlpSpan.ParentSpanId))
		assert.Equal(t, "worker", otlpSpan.Name)
		assert.Equal(t, tracev1.Span_SPAN_KIND_INTERNAL, otlpSpan.Kind)
		assert.Equal(t, uint64(1_700_000_000_000_000_000), otlpSpan.StartTimeUnixNano)
		assert.Equal(t, uint64(1_700_000_000_250_000_000), otlpSpan.EndTimeUnixNano)
	})

	t.Run("Flags the entry-point span", func(t *testing.T) {
		otlpSpan := toOtlpSpan(model.SpanEvent{GUID: "bbbb0000bbbb0000", EntryPoint: true})
		var found bool
		for _, attr := range otlpSpan.Attributes {
			if attr.Key == "entry.point" {
				found = attr.Value.GetBoolValue()
			}
		}
		assert.True(t, found)
	})

	t.Run("Carries the transaction id and sampling attributes", func(t *testing.T) {
		otlpSpan := toOtlpSpan(model.SpanEvent{TransactionID: "txn-1", Sampled: true, Priority: 2})
		var txnID string
		var sampled bool
		var priority float64
		for _, attr := range otlpSpan.Attributes {
			switch attr.Key {
			case "transaction.id":
				txnID = attr.Value.GetStringValue()
			case "sampled":
				sampled = attr.Value.GetBoolValue()
			case "priority":
				priority = attr.Value.GetDoubleValue()
			}
		}
		assert.Equal(t, "txn-1", txnID)
		assert.True(t, sampled)
		assert.Equal(t, 2.0, priority)
	})
}
