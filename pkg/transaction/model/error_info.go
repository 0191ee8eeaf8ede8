package model

// ErrorInfo carries a raised transaction error as captured by the
// instrumentation layer. Expected errors are anticipated by the application
// and excluded from error-rate counters.
type ErrorInfo struct {
	ContextID ContextID `json:"context_id"`
	Reason    string    `json:"reason"`
	Stack     []string  `json:"stack"`
	Expected  bool      `json:"expected"`
}

// ErrorTrace is the backend-shaped error trace record.
type ErrorTrace struct {
	TimestampS      float64                `json:"timestamp"`
	TransactionName string                 `json:"transaction_name"`
	Type            string                 `json:"type"`
	Message         string                 `json:"message"`
	Expected        bool                   `json:"expected"`
	StackLines      []string               `json:"stack_trace"`
	AgentAttributes map[string]interface{} `json:"agent_attributes"`
	UserAttributes  map[string]interface{} `json:"user_attributes"`
}

// ErrorEvent is the same error reshaped for event ingestion. The web-only
// fields are zero for other-kind transactions.
type ErrorEvent struct {
	TimestampS       float64                `json:"timestamp"`
	TransactionName  string                 `json:"transaction_name"`
	Type             string                 `json:"error_type"`
	Message          string                 `json:"error_message"`
	Expected         bool                   `json:"expected"`
	DurationS        float64                `json:"duration"`
	HTTPResponseCode string                 `json:"http_response_code,omitempty"`
	RequestMethod    string                 `json:"request_method,omitempty"`
	UserAttributes   map[string]interface{} `json:"user_attributes"`
}
