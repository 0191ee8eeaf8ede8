package model

import "fmt"

// FunctionSegment is one captured function-call span, tagged with the
// execution context that ran it. Exactly one of Call and Named is set; the
// two shapes are variants of the same traceable-unit concept and project to
// the same TraceSegment fields through ToTraceSegment.
type FunctionSegment struct {
	ContextID ContextID `json:"context_id"`
	ID        string    `json:"id"`
	// ParentID links to another function segment's ID within the same
	// context; empty means the segment hangs directly off its process.
	ParentID  string        `json:"parent_id"`
	StartTime int64         `json:"start_time"` // monotonic µs
	EndTime   int64         `json:"end_time"`   // monotonic µs
	Call      *FunctionCall `json:"call,omitempty"`
	Named     *NamedSegment `json:"named,omitempty"`
}

// FunctionCall is the module/function/arity/args segment shape.
type FunctionCall struct {
	Module   string `json:"module"`
	Function string `json:"function"`
	Arity    int    `json:"arity"`
	Args     string `json:"args"`
}

// NamedSegment is the primary/secondary-name segment shape.
type NamedSegment struct {
	Primary    string                 `json:"primary"`
	Secondary  string                 `json:"secondary"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// TraceSegment is one node of the reconstructed execution tree. Children are
// kept sorted by RelativeStart at every level.
type TraceSegment struct {
	ID            string                 `json:"id"`
	ParentID      string                 `json:"parent_id"`
	RelativeStart int64                  `json:"relative_start"` // µs since trace start
	RelativeEnd   int64                  `json:"relative_end"`   // µs since trace start
	ClassName     string                 `json:"class_name"`
	MethodName    string                 `json:"method_name"`
	MetricName    string                 `json:"metric_name"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	Children      []*TraceSegment        `json:"children"`
}

// ToTraceSegment projects a function segment onto the common tree-node
// shape. Times are anchored to traceStart, the transaction's monotonic
// start in µs.
func (fs FunctionSegment) ToTraceSegment(traceStart int64) *TraceSegment {
	seg := &TraceSegment{
		ID:            fs.ID,
		ParentID:      fs.ParentID,
		RelativeStart: fs.StartTime - traceStart,
		RelativeEnd:   fs.EndTime - traceStart,
	}
	switch {
	case fs.Call != nil:
		seg.ClassName = fs.Call.Module
		seg.MethodName = fmt.Sprintf("%s/%d", fs.Call.Function, fs.Call.Arity)
		seg.MetricName = fmt.Sprintf("%s.%s/%d", fs.Call.Module, fs.Call.Function, fs.Call.Arity)
		if fs.Call.Args != "" {
			seg.Attributes = map[string]interface{}{"args": fs.Call.Args}
		}
	case fs.Named != nil:
		seg.ClassName = fs.Named.Primary
		seg.MethodName = fs.Named.Secondary
		seg.MetricName = fmt.Sprintf("%s/%s", fs.Named.Primary, fs.Named.Secondary)
		seg.Attributes = fs.Named.Attributes
	}
	return seg
}

// ToTraceSegment projects a correlated process onto the common tree-node
// shape. The node is keyed by its context id so that process children can be
// attached by parent context id.
func (ps ProcessSegment) ToTraceSegment(traceStart int64) *TraceSegment {
	return &TraceSegment{
		ID:            string(ps.ContextID),
		ParentID:      string(ps.ParentContextID),
		RelativeStart: ps.StartTime - traceStart,
		RelativeEnd:   ps.EndTime - traceStart,
		ClassName:     "Process",
		MethodName:    ps.Name,
		MetricName:    "Process/" + ps.Name,
	}
}
