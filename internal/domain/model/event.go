package model

// EventType discriminates events on a job's stream.
type EventType string

// Event types, in the order they may appear on a stream.
const (
	EventProgress EventType = "progress"
	EventSummary  EventType = "summary"
	EventError    EventType = "error"
	EventDone     EventType = "done"
)

// Event is one entry on a job's outbound stream. Payload shape depends on
// Type: NormalizedResult for progress, Summary for summary, ErrorPayload for
// error, DonePayload for done.
type Event struct {
	Type    EventType `json:"type"`
	JobID   string    `json:"job_id"`
	Payload any       `json:"payload"`
}

// ErrorPayload carries a job-level failure description.
type ErrorPayload struct {
	Message string `json:"message"`
}

// DonePayload is the terminal signal every job ends with.
type DonePayload struct {
	Message string `json:"message"`
}
