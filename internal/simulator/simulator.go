package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"callsim/internal/calls"
	"callsim/internal/contacts"
	"callsim/internal/gesture"
)

// LogBook is the part of the call log the UI reads and clears.
type LogBook interface {
	Entries() []calls.LogEntry
	Clear()
}

// Trail records events the engine does not see.
type Trail interface {
	LogCleared(ctx context.Context, removed int) error
}

type Deps struct {
	Engine     *calls.Engine
	Classifier gesture.Classifier
	Logs       LogBook
	Directory  contacts.Directory
	Trail      Trail

	// ConnectDelay is how long an active call shows "connecting".
	ConnectDelay time.Duration
	Clock        func() time.Time
	Logger       *slog.Logger
}

// Simulator is the event surface the screens drive. Each handler maps one
// UI event onto the call engine, the gesture classifier or the log.
type Simulator struct {
	engine       *calls.Engine
	classifier   gesture.Classifier
	logs         LogBook
	directory    contacts.Directory
	trail        Trail
	connectDelay time.Duration
	clock        func() time.Time
	log          *slog.Logger
}

func New(d Deps) *Simulator {
	s := &Simulator{
		engine:       d.Engine,
		classifier:   d.Classifier,
		logs:         d.Logs,
		directory:    d.Directory,
		trail:        d.Trail,
		connectDelay: d.ConnectDelay,
		clock:        d.Clock,
		log:          d.Logger,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// OnCallRequested starts an outgoing call to the contact with the given id.
func (s *Simulator) OnCallRequested(contactID string) (calls.Session, error) {
	c, err := s.directory.Get(contactID)
	if err != nil {
		return calls.Session{}, fmt.Errorf("call request: %w", err)
	}
	return s.engine.StartOutgoing(c)
}

// OnIncomingSimulated rings with the given contact, or a random one when contactID is empty.
func (s *Simulator) OnIncomingSimulated(contactID string) (calls.Session, error) {
	var (
		c   contacts.Contact
		err error
	)
	if contactID == "" {
		c, err = s.directory.Random()
	} else {
		c, err = s.directory.Get(contactID)
	}
	if err != nil {
		return calls.Session{}, fmt.Errorf("simulate incoming: %w", err)
	}
	return s.engine.SimulateIncoming(c)
}

// OnSwipeCompleted classifies the final displacement and applies the decision.
// Cancel leaves the engine untouched; the caller springs the control back to 0.
func (s *Simulator) OnSwipeCompleted(displacement float64) (gesture.Decision, error) {
	d := s.classifier.Classify(displacement)
	s.log.Debug("swipe completed", "displacement", displacement, "decision", d)

	switch d {
	case gesture.Accept:
		if _, err := s.engine.AcceptIncoming(); err != nil {
			return d, err
		}
	case gesture.Reject:
		if err := s.engine.RejectIncoming(); err != nil {
			return d, err
		}
	}
	return d, nil
}

// OnEndPressed ends the active call. ok is false when no call was active.
func (s *Simulator) OnEndPressed(missed bool) (entry calls.LogEntry, ok bool) {
	return s.engine.EndCall(missed)
}

func (s *Simulator) OnClearLogsRequested() {
	removed := len(s.logs.Entries())
	s.logs.Clear()
	s.log.Info("call logs cleared", "removed", removed)
	if s.trail != nil {
		if err := s.trail.LogCleared(context.Background(), removed); err != nil {
			s.log.Warn("audit append failed", "err", err)
		}
	}
}

func (s *Simulator) Logs() []calls.LogEntry { return s.logs.Entries() }

func (s *Simulator) Contacts(page int) ([]contacts.Contact, error) { return s.directory.Page(page) }

func (s *Simulator) Contact(id string) (contacts.Contact, error) { return s.directory.Get(id) }

// ActiveView is what the call screen renders for the active slot.
type ActiveView struct {
	calls.Session
	Phase   calls.Phase `json:"phase"`
	Elapsed int         `json:"elapsed"`
	Timer   string      `json:"timer"`
}

type State struct {
	Incoming *calls.Session `json:"incoming"`
	Active   *ActiveView    `json:"active"`
}

func (s *Simulator) State() State {
	snap := s.engine.Snapshot()
	out := State{Incoming: snap.Incoming}
	if snap.Active != nil {
		now := s.clock().UTC()
		elapsed := snap.Active.Elapsed(now, s.connectDelay)
		out.Active = &ActiveView{
			Session: *snap.Active,
			Phase:   snap.Active.Phase(now, s.connectDelay),
			Elapsed: elapsed,
			Timer:   calls.FormatElapsed(elapsed),
		}
	}
	return out
}
