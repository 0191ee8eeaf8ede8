package model

// Attribute keys recognized by the finalization pipeline. Raw keys are
// produced by the instrumentation layer and consumed (removed or replaced)
// by the pipeline stages; finalized keys are what the harvesters see.
const (
	// Raw timestamps, all in microseconds. SystemTime is wall-clock,
	// the mono pair comes from the runtime's monotonic clock.
	AttrSystemTime    = "system_time"
	AttrMonoStartTime = "mono_start_time"
	AttrMonoEndTime   = "mono_end_time"

	// Finalized timing.
	AttrStartTime  = "start_time"  // wall-clock ms
	AttrEndTime    = "end_time"    // wall-clock ms
	AttrDurationUs = "duration_us"
	AttrDurationMs = "duration_ms"
	AttrDurationS  = "duration_s"

	// Transaction naming. At most one of these is expected; when several
	// are present the precedence is OtherTransactionName, then PlugName,
	// then FrameworkName, then CustomName.
	AttrOtherTransactionName = "other_transaction_name"
	AttrPlugName             = "plug_name"
	AttrFrameworkName        = "framework_name"
	AttrCustomName           = "custom_name"

	// Web request attributes.
	AttrRequestURL       = "request_url"
	AttrRequestURI       = "request_uri"
	AttrRequestMethod    = "request_method"
	AttrHTTPResponseCode = "http_response_code"

	// Distributed tracing.
	AttrTraceID         = "trace_id"
	AttrTransactionGUID = "guid"
	AttrSampled         = "sampled"
	AttrPriority        = "priority"
	AttrParentSpanID    = "parent_span_id"
	AttrParentType      = "parent_type"
	AttrParentAccountID = "parent_account_id"
	AttrParentAppID     = "parent_app_id"
	AttrTransportType   = "transport_type"

	// Raw error fields, stripped from user attributes on error records.
	AttrErrorReason = "error_reason"
	AttrErrorStack  = "error_stack"
)

// Attributes is the free-form attribute mapping carried by one transaction.
// It is owned exclusively by a single pipeline invocation and is mutated in
// place by the stage transforms.
type Attributes map[string]interface{}

// Clone returns a shallow copy. Stage transforms mutate attributes in place,
// so record derivation that must not see later mutations copies first.
func (a Attributes) Clone() Attributes {
	copied := make(Attributes, len(a))
	for k, v := range a {
		copied[k] = v
	}
	return copied
}

// Int64 reads a numeric attribute, accepting the integer and float types a
// JSON round trip can produce.
func (a Attributes) Int64(key string) (int64, bool) {
	switch v := a[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func (a Attributes) Float64(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key].(string)
	return v, ok
}

func (a Attributes) Bool(key string) bool {
	v, ok := a[key].(bool)
	return ok && v
}

// StringOr returns the attribute value or a fallback when absent.
func (a Attributes) StringOr(key string, fallback string) string {
	if v, ok := a.String(key); ok {
		return v
	}
	return fallback
}
