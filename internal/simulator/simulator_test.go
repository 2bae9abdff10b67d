package simulator

import (
	"context"
	"errors"
	"testing"
	"time"

	"callsim/internal/calllog"
	"callsim/internal/calls"
	"callsim/internal/contacts"
	"callsim/internal/gesture"
)

type harness struct {
	sim     *Simulator
	store   *calllog.Store
	now     time.Time
	cleared []int
}

func (h *harness) LogCleared(ctx context.Context, removed int) error {
	h.cleared = append(h.cleared, removed)
	return nil
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{now: time.Unix(1700000000, 0).UTC()}
	clock := func() time.Time { return h.now }

	h.store = calllog.New(calllog.NewMemoryBackend(), calllog.Options{})
	t.Cleanup(func() { _ = h.store.Close(context.Background()) })

	engine := calls.NewEngine(h.store, nil, calls.Options{Clock: clock})
	t.Cleanup(engine.Close)

	classifier, err := gesture.NewClassifier(100)
	if err != nil {
		t.Fatalf("classifier: %v", err)
	}
	dir := contacts.NewMemoryDirectory(contacts.Seed(20), 12)

	h.sim = New(Deps{
		Engine:       engine,
		Classifier:   classifier,
		Logs:         h.store,
		Directory:    dir,
		Trail:        h,
		ConnectDelay: 1500 * time.Millisecond,
		Clock:        clock,
	})
	return h
}

func TestSimulator_SwipeAcceptThenEnd(t *testing.T) {
	h := newHarness(t)
	if _, err := h.sim.OnIncomingSimulated("3"); err != nil {
		t.Fatalf("incoming: %v", err)
	}

	d, err := h.sim.OnSwipeCompleted(40)
	if err != nil || d != gesture.Cancel {
		t.Fatalf("expected cancel, got %q %v", d, err)
	}
	if h.sim.State().Incoming == nil {
		t.Fatalf("cancel must keep the call ringing")
	}

	d, err = h.sim.OnSwipeCompleted(95)
	if err != nil || d != gesture.Accept {
		t.Fatalf("expected accept, got %q %v", d, err)
	}

	st := h.sim.State()
	if st.Incoming != nil || st.Active == nil || st.Active.Phase != calls.PhaseConnecting {
		t.Fatalf("unexpected state: %+v", st)
	}
	h.now = h.now.Add(75*time.Second + 1500*time.Millisecond)
	st = h.sim.State()
	if st.Active.Phase != calls.PhaseOngoing || st.Active.Timer != "01:15" {
		t.Fatalf("unexpected active view: %+v", st.Active)
	}

	entry, ok := h.sim.OnEndPressed(false)
	if !ok {
		t.Fatalf("expected a log entry")
	}
	if entry.Mode != calls.ModeIncoming || entry.Contact.ID != "3" || entry.DurationSeconds != 76 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if logs := h.sim.Logs(); len(logs) != 1 || logs[0].ID != entry.ID {
		t.Fatalf("expected the entry in the log, got %+v", logs)
	}
}

func TestSimulator_SwipeRejectDropsCall(t *testing.T) {
	h := newHarness(t)
	if _, err := h.sim.OnIncomingSimulated(""); err != nil {
		t.Fatalf("incoming: %v", err)
	}
	d, err := h.sim.OnSwipeCompleted(-81)
	if err != nil || d != gesture.Reject {
		t.Fatalf("expected reject, got %q %v", d, err)
	}
	if st := h.sim.State(); st.Incoming != nil || st.Active != nil {
		t.Fatalf("expected idle state, got %+v", st)
	}
	if len(h.sim.Logs()) != 0 {
		t.Fatalf("rejected call must not be logged")
	}
}

func TestSimulator_SwipeWithoutIncoming(t *testing.T) {
	h := newHarness(t)
	if _, err := h.sim.OnSwipeCompleted(90); !errors.Is(err, calls.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestSimulator_OutgoingAndClear(t *testing.T) {
	h := newHarness(t)
	if _, err := h.sim.OnCallRequested("nope"); !errors.Is(err, contacts.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	s, err := h.sim.OnCallRequested("7")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if s.Mode != calls.ModeOutgoing {
		t.Fatalf("expected outgoing, got %q", s.Mode)
	}
	if _, err := h.sim.OnIncomingSimulated("8"); !errors.Is(err, calls.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if _, ok := h.sim.OnEndPressed(true); !ok {
		t.Fatalf("expected entry")
	}
	if _, ok := h.sim.OnEndPressed(false); ok {
		t.Fatalf("second end must be a no-op")
	}
	if logs := h.sim.Logs(); len(logs) != 1 || logs[0].Status != calls.LogStatusMissed {
		t.Fatalf("unexpected logs: %+v", logs)
	}

	h.sim.OnClearLogsRequested()
	if len(h.sim.Logs()) != 0 {
		t.Fatalf("expected empty log")
	}
	if len(h.cleared) != 1 || h.cleared[0] != 1 {
		t.Fatalf("expected one trail record for 1 call, got %v", h.cleared)
	}
}

func TestSimulator_ContactsPaging(t *testing.T) {
	h := newHarness(t)
	page, err := h.sim.Contacts(2)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page) != 8 || page[0].ID != "13" {
		t.Fatalf("unexpected page: %+v", page)
	}
}
