package model

// Transaction bundles everything the instrumentation layer hands the
// finalization pipeline for one completed unit of work. The pipeline owns
// all of it exclusively for the duration of one invocation.
type Transaction struct {
	Attributes       Attributes        `json:"attributes"`
	RootContextID    ContextID         `json:"root_context_id"`
	FunctionSegments []FunctionSegment `json:"trace_function_segments"`
	ProcessSpawns    []SpawnEvent      `json:"trace_process_spawns"`
	ProcessNames     []NameEvent       `json:"trace_process_names"`
	ProcessExits     []ExitEvent       `json:"trace_process_exits"`
	Error            *ErrorInfo        `json:"transaction_error,omitempty"`
}

// TransactionEvent is the timestamped analytics record for one finished
// transaction.
type TransactionEvent struct {
	Timestamp  int64      `json:"timestamp"` // wall-clock ms
	Name       string     `json:"name"`      // WebTransaction/... or OtherTransaction/...
	DurationS  float64    `json:"duration"`
	Attributes Attributes `json:"attributes"`
}

// TransactionTrace is the full reconstructed execution tree for one
// transaction.
type TransactionTrace struct {
	MetricName string        `json:"metric_name"`
	RequestURL string        `json:"request_url"`
	DurationS  float64       `json:"duration"`
	StartTime  int64         `json:"start_time"` // wall-clock ms
	Root       *TraceSegment `json:"root"`
}
