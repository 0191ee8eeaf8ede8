package model

// ContextID identifies one concurrent unit of work inside the monitored
// application. It is an opaque correlation key and is never dereferenced.
type ContextID string

// SpawnEvent, NameEvent and ExitEvent are the three flat, unordered event
// lists emitted by the instrumentation layer. A process segment is only
// materialized for a context id present in all three lists.
type SpawnEvent struct {
	ContextID       ContextID `json:"context_id"`
	StartTime       int64     `json:"start_time"` // monotonic µs
	ParentContextID ContextID `json:"parent_context_id"`
}

type NameEvent struct {
	ContextID ContextID `json:"context_id"`
	Name      string    `json:"name"`
}

type ExitEvent struct {
	ContextID ContextID `json:"context_id"`
	EndTime   int64     `json:"end_time"` // monotonic µs
}

// ProcessSegment is a fully correlated spawn/name/exit triple.
type ProcessSegment struct {
	ContextID       ContextID
	ParentContextID ContextID
	Name            string
	StartTime       int64
	EndTime         int64
}
