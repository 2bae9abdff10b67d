package calls

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"callsim/internal/contacts"

	"github.com/google/uuid"
)

var (
	ErrInvalidState   = errors.New("calls: invalid state")
	ErrInvalidContact = errors.New("calls: invalid contact")

	ErrIncomingOccupied = fmt.Errorf("%w: a call is already ringing", ErrInvalidState)
	ErrActiveOccupied   = fmt.Errorf("%w: a call is already active", ErrInvalidState)
	ErrNoIncoming       = fmt.Errorf("%w: no incoming call", ErrInvalidState)
)

// Ringer is the ringtone/vibration collaborator.
// Its errors are logged and never change call state.
type Ringer interface {
	Start(c contacts.Contact) error
	Stop() error
}

// LogAppender receives every finished call. Append must not block on durability.
type LogAppender interface {
	Append(e LogEntry)
}

type Options struct {
	// RingTimeout clears an unanswered incoming call. Zero disables the timer.
	RingTimeout time.Duration

	// Observer sees every transition while the engine lock is held.
	// It must not call back into the engine.
	Observer func(Event)

	Clock  func() time.Time
	NewID  func() string
	Logger *slog.Logger
}

// Engine owns the incoming and active call slots.
//
// At most one call exists at any instant: a ringing call blocks new outgoing
// calls and an active call blocks new incoming ones.
type Engine struct {
	mu       sync.Mutex
	incoming *Session
	active   *Session

	ringTimer   *time.Timer
	ringTimeout time.Duration

	logs     LogAppender
	ringer   Ringer
	observer func(Event)
	clock    func() time.Time
	newID    func() string
	log      *slog.Logger
}

func NewEngine(logs LogAppender, ringer Ringer, opts Options) *Engine {
	e := &Engine{
		ringTimeout: opts.RingTimeout,
		logs:        logs,
		ringer:      ringer,
		observer:    opts.Observer,
		clock:       opts.Clock,
		newID:       opts.NewID,
		log:         opts.Logger,
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.newID == nil {
		e.newID = newSessionID
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// SimulateIncoming places contact in the incoming slot and starts ringing.
func (e *Engine) SimulateIncoming(c contacts.Contact) (Session, error) {
	if !c.Valid() {
		return Session{}, ErrInvalidContact
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.incoming != nil {
		return Session{}, ErrIncomingOccupied
	}
	if e.active != nil {
		return Session{}, ErrActiveOccupied
	}

	s := &Session{
		ID:        e.newID(),
		Contact:   c,
		Status:    SessionStatusRinging,
		StartedAt: e.now(),
	}
	e.incoming = s
	if e.ringTimeout > 0 {
		id := s.ID
		e.ringTimer = time.AfterFunc(e.ringTimeout, func() { e.expireIncoming(id) })
	}
	e.log.Info("incoming call ringing", "session_id", s.ID, "contact_id", c.ID)
	e.emit(EventRinging, *s, nil)
	e.notify("start", func(r Ringer) error { return r.Start(c) })
	return *s, nil
}

// AcceptIncoming promotes the ringing call to the active slot.
func (e *Engine) AcceptIncoming() (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.incoming == nil {
		return Session{}, ErrNoIncoming
	}
	if e.active != nil {
		return Session{}, ErrActiveOccupied
	}

	s := &Session{
		ID:        e.incoming.ID,
		Contact:   e.incoming.Contact,
		Status:    SessionStatusOngoing,
		Mode:      ModeIncoming,
		StartedAt: e.now(),
	}
	e.active, e.incoming = s, nil
	e.stopRingTimer()
	e.log.Info("incoming call accepted", "session_id", s.ID)
	e.emit(EventAccepted, *s, nil)
	e.notify("stop", Ringer.Stop)
	return *s, nil
}

// RejectIncoming drops the ringing call. Nothing is logged for it.
func (e *Engine) RejectIncoming() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.incoming == nil {
		return ErrNoIncoming
	}
	e.dropIncoming(EventRejected)
	return nil
}

// StartOutgoing places a call to contact in the active slot.
func (e *Engine) StartOutgoing(c contacts.Contact) (Session, error) {
	if !c.Valid() {
		return Session{}, ErrInvalidContact
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return Session{}, ErrActiveOccupied
	}
	if e.incoming != nil {
		return Session{}, ErrIncomingOccupied
	}

	s := &Session{
		ID:        e.newID(),
		Contact:   c,
		Status:    SessionStatusOngoing,
		Mode:      ModeOutgoing,
		StartedAt: e.now(),
	}
	e.active = s
	e.log.Info("outgoing call started", "session_id", s.ID, "contact_id", c.ID)
	e.emit(EventOutgoingStarted, *s, nil)
	return *s, nil
}

// EndCall finishes the active call and hands its record to the log.
// With no active call it does nothing and reports false.
func (e *Engine) EndCall(missed bool) (LogEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return LogEntry{}, false
	}
	ended := *e.active
	entry := NewLogEntry(ended, e.now(), missed)
	e.active = nil
	if e.logs != nil {
		e.logs.Append(entry)
	}
	e.log.Info("call ended",
		"session_id", entry.ID,
		"status", entry.Status,
		"mode", entry.Mode,
		"duration", entry.DurationSeconds,
	)
	e.emit(EventEnded, ended, &entry)
	return entry, true
}

// Snapshot holds copies of both slots.
type Snapshot struct {
	Incoming *Session `json:"incoming"`
	Active   *Session `json:"active"`
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out Snapshot
	if e.incoming != nil {
		s := *e.incoming
		out.Incoming = &s
	}
	if e.active != nil {
		s := *e.active
		out.Active = &s
	}
	return out
}

// Close stops a pending ring timer and silences the ringer. Slots are left as they are.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopRingTimer()
	if e.incoming != nil {
		e.notify("stop", Ringer.Stop)
	}
}

func (e *Engine) expireIncoming(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.incoming == nil || e.incoming.ID != id {
		return
	}
	e.ringTimer = nil
	e.dropIncoming(EventTimedOut)
}

func (e *Engine) dropIncoming(kind EventKind) {
	s := *e.incoming
	e.incoming = nil
	e.stopRingTimer()
	e.log.Info("incoming call dropped", "session_id", s.ID, "reason", kind)
	e.emit(kind, s, nil)
	e.notify("stop", Ringer.Stop)
}

func (e *Engine) emit(kind EventKind, s Session, entry *LogEntry) {
	if e.observer == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			e.log.Error("call observer panicked", "event", kind, "panic", p)
		}
	}()
	var copied *LogEntry
	if entry != nil {
		c := *entry
		copied = &c
	}
	e.observer(Event{Kind: kind, Session: s, Entry: copied, At: e.now()})
}

func (e *Engine) stopRingTimer() {
	if e.ringTimer != nil {
		e.ringTimer.Stop()
		e.ringTimer = nil
	}
}

// notify runs a ringer signal. Failures and panics stay inside the collaborator.
func (e *Engine) notify(signal string, fn func(Ringer) error) {
	if e.ringer == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			e.log.Error("ringer panicked", "signal", signal, "panic", p)
		}
	}()
	if err := fn(e.ringer); err != nil {
		e.log.Warn("ringer signal failed", "signal", signal, "err", err)
	}
}

func (e *Engine) now() time.Time { return e.clock().UTC() }

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
