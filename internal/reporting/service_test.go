package reporting

import (
	"errors"
	"testing"
	"time"

	"callsim/internal/calls"
	"callsim/internal/contacts"
)

type staticSource []calls.LogEntry

func (s staticSource) Entries() []calls.LogEntry { return s }

func logEntry(contactID string, status calls.LogStatus, mode calls.Mode, secs int, ended time.Time) calls.LogEntry {
	return calls.LogEntry{
		ID:              contactID + string(status),
		Contact:         contacts.Contact{ID: contactID, Name: "C", Phone: "1"},
		Status:          status,
		Mode:            mode,
		StartedAt:       ended.Add(-time.Duration(secs) * time.Second),
		EndedAt:         ended,
		DurationSeconds: secs,
	}
}

func TestSummary_Aggregates(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	svc := NewService(staticSource{
		logEntry("1", calls.LogStatusCompleted, calls.ModeOutgoing, 30, now),
		logEntry("2", calls.LogStatusMissed, calls.ModeIncoming, 0, now),
		logEntry("1", calls.LogStatusCompleted, calls.ModeIncoming, 91, now),
	})

	out, err := svc.Summary(SummaryRequest{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := Summary{
		TotalCalls: 3, CompletedCalls: 2, MissedCalls: 1, IncomingCalls: 2, OutgoingCalls: 1,
		TotalDurationSeconds: 121, AverageDurationSeconds: 40, LongestCallSeconds: 91,
	}
	if out != want {
		t.Fatalf("expected %+v, got %+v", want, out)
	}
}

func TestSummary_FiltersByRangeAndContact(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	svc := NewService(staticSource{
		logEntry("1", calls.LogStatusCompleted, calls.ModeOutgoing, 10, now.Add(-2*time.Hour)),
		logEntry("1", calls.LogStatusCompleted, calls.ModeOutgoing, 20, now),
		logEntry("2", calls.LogStatusCompleted, calls.ModeOutgoing, 40, now),
	})

	out, err := svc.Summary(SummaryRequest{
		Range:     TimeRange{From: now.Add(-time.Hour), To: now.Add(time.Hour)},
		ContactID: "1",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TotalCalls != 1 || out.TotalDurationSeconds != 20 {
		t.Fatalf("unexpected summary: %+v", out)
	}
}

func TestSummary_EmptyAndInvalid(t *testing.T) {
	svc := NewService(staticSource{})
	out, err := svc.Summary(SummaryRequest{})
	if err != nil || out != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v %v", out, err)
	}

	now := time.Now()
	_, err = svc.Summary(SummaryRequest{Range: TimeRange{From: now, To: now}})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
