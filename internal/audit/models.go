package audit

import "time"

// Event is an immutable, append-only record of something that happened to a call.
//
// Invariants:
// - Events are never updated or deleted.
// - Rejected and timed out calls appear here even though the call log skips them.
// - Recording is best-effort; call flows never block on audit failures.
type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`

	// Target identifiers (optional, depending on the event type).
	SessionID string `json:"session_id,omitempty"`
	ContactID string `json:"contact_id,omitempty"`
	Mode      string `json:"mode,omitempty"`

	// Message is a short human-readable description.
	Message string `json:"message,omitempty"`

	// DurationSeconds is set for EventTypeEnded.
	DurationSeconds *int `json:"duration,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EventType string

const (
	EventTypeRinging         EventType = "ringing"
	EventTypeAccepted        EventType = "accepted"
	EventTypeRejected        EventType = "rejected"
	EventTypeTimedOut        EventType = "timed_out"
	EventTypeOutgoingStarted EventType = "outgoing_started"
	EventTypeEnded           EventType = "ended"
	EventTypeLogsCleared     EventType = "logs_cleared"
)

// needsSession reports whether events of this type describe a single call.
func (t EventType) needsSession() bool { return t != EventTypeLogsCleared }
