package calls

import (
	"fmt"
	"time"

	"callsim/internal/contacts"
)

// Session is the single call currently ringing or in progress.
//
// Slot invariant: a session lives in exactly one of the engine's two slots
// (incoming or active) and is promoted atomically from one to the other.
type Session struct {
	ID        string           `json:"id"`
	Contact   contacts.Contact `json:"contact"`
	Status    SessionStatus    `json:"status"`
	Mode      Mode             `json:"mode,omitempty"`
	StartedAt time.Time        `json:"started_at"`
}

type SessionStatus string

const (
	SessionStatusRinging SessionStatus = "ringing"
	SessionStatusOngoing SessionStatus = "ongoing"
)

type Mode string

const (
	ModeIncoming Mode = "incoming"
	ModeOutgoing Mode = "outgoing"
)

func (m Mode) Valid() bool { return m == ModeIncoming || m == ModeOutgoing }

// Phase is what the call screen shows for an active session.
// It is derived from the clock and never changes Status.
type Phase string

const (
	PhaseConnecting Phase = "connecting"
	PhaseOngoing    Phase = "ongoing"
)

func (s Session) Phase(now time.Time, connectDelay time.Duration) Phase {
	if now.Sub(s.StartedAt) < connectDelay {
		return PhaseConnecting
	}
	return PhaseOngoing
}

// Elapsed is the on-screen timer value: whole seconds since the call connected.
func (s Session) Elapsed(now time.Time, connectDelay time.Duration) int {
	return wholeSeconds(s.StartedAt.Add(connectDelay), now)
}

// LogEntry is the immutable record of a finished call.
type LogEntry struct {
	ID        string           `json:"id"`
	Contact   contacts.Contact `json:"contact"`
	Status    LogStatus        `json:"status"`
	Mode      Mode             `json:"mode"`
	StartedAt time.Time        `json:"started_at"`
	EndedAt   time.Time        `json:"ended_at"`

	// DurationSeconds is floor((EndedAt-StartedAt)/1s), never negative.
	DurationSeconds int `json:"duration"`
}

type LogStatus string

const (
	LogStatusCompleted LogStatus = "completed"
	LogStatusMissed    LogStatus = "missed"
)

func (s LogStatus) Valid() bool { return s == LogStatusCompleted || s == LogStatusMissed }

// NewLogEntry closes a session at endedAt.
func NewLogEntry(s Session, endedAt time.Time, missed bool) LogEntry {
	status := LogStatusCompleted
	if missed {
		status = LogStatusMissed
	}
	mode := s.Mode
	if mode == "" {
		mode = ModeOutgoing
	}
	return LogEntry{
		ID:              s.ID,
		Contact:         s.Contact,
		Status:          status,
		Mode:            mode,
		StartedAt:       s.StartedAt,
		EndedAt:         endedAt,
		DurationSeconds: wholeSeconds(s.StartedAt, endedAt),
	}
}

// FormatElapsed renders seconds as mm:ss.
func FormatElapsed(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func wholeSeconds(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
