package model

// SpanEvent is one distributed-tracing record, representing one execution
// context's lifetime within a trace.
type SpanEvent struct {
	TraceID       string  `json:"trace_id"`
	TransactionID string  `json:"transaction_id"`
	Sampled       bool    `json:"sampled"`
	Priority      float64 `json:"priority"`
	Category      string  `json:"category"`
	Name          string  `json:"name"`
	GUID          string  `json:"guid"`
	ParentGUID    string  `json:"parent_guid,omitempty"`
	Timestamp     int64   `json:"timestamp"` // wall-clock ms
	Duration      float64 `json:"duration"`  // seconds
	EntryPoint    bool    `json:"entry_point,omitempty"`
}
