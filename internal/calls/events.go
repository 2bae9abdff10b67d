package calls

import "time"

// EventKind names a slot transition.
type EventKind string

const (
	EventRinging         EventKind = "ringing"
	EventAccepted        EventKind = "accepted"
	EventRejected        EventKind = "rejected"
	EventTimedOut        EventKind = "timed_out"
	EventOutgoingStarted EventKind = "outgoing_started"
	EventEnded           EventKind = "ended"
)

// Event is emitted after every successful transition. For EventEnded,
// Entry holds the record handed to the log.
type Event struct {
	Kind    EventKind
	Session Session
	Entry   *LogEntry
	At      time.Time
}
