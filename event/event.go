// Package event provides a unified event stream for observing gateway
// requests and engine stage execution.
package event

import (
	"time"

	ai "github.com/didactlabs/didact"
	"github.com/didactlabs/didact/course"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events.
const (
	// RunStart fires when a session run begins.
	RunStart Type = "run_start"

	// RunEnd fires when a session reaches the Done stage.
	RunEnd Type = "run_end"

	// RunError fires when an unrecoverable error occurs.
	RunError Type = "run_error"
)

// Stage lifecycle events.
const (
	// StageStart fires when a stage handler begins work.
	StageStart Type = "stage_start"

	// StageEnd fires when a stage handler completes.
	StageEnd Type = "stage_end"

	// StageSkipped fires when a stage is skipped (no source content,
	// no graded assessment requested).
	StageSkipped Type = "stage_skipped"

	// StageReset fires when the session is reset to context gathering.
	StageReset Type = "stage_reset"
)

// Gateway request events.
const (
	// RequestStart fires before an upstream generation call.
	RequestStart Type = "request_start"

	// RequestEnd fires after a successful generation call.
	RequestEnd Type = "request_end"

	// RequestError fires after a failed generation call.
	RequestError Type = "request_error"
)

// Parsing events.
const (
	// RowsDropped fires when tabular parsing discards malformed rows.
	RowsDropped Type = "rows_dropped"
)

// Event represents an observable occurrence during a session.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// Stage is the session stage the event belongs to, if any.
	Stage course.Stage

	// Operation names the gateway operation for request events.
	Operation string

	// Provider identifies the backend serving a gateway request.
	Provider ai.Provider

	// Usage holds token counts for RequestEnd events, when available.
	Usage *ai.Usage

	// Dropped is the discarded row count for RowsDropped events.
	Dropped int

	// Duration is the elapsed time for RequestEnd/RequestError events.
	Duration time.Duration

	// Error contains the error for RunError/RequestError events.
	Error error

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
// A nil channel is ignored; a full channel drops the event.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
