package reporting

import (
	"errors"

	"callsim/internal/calls"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Source supplies the call log, newest first.
type Source interface {
	Entries() []calls.LogEntry
}

type Service struct {
	src Source
}

func NewService(src Source) *Service { return &Service{src: src} }

func (s *Service) Summary(req SummaryRequest) (Summary, error) {
	if !req.Range.From.IsZero() && !req.Range.To.IsZero() && !req.Range.To.After(req.Range.From) {
		return Summary{}, ErrInvalidRequest
	}
	if s.src == nil {
		return Summary{}, errors.New("reporting: source not configured")
	}

	var out Summary
	for _, e := range s.src.Entries() {
		if !req.Range.Contains(e.EndedAt) {
			continue
		}
		if req.ContactID != "" && e.Contact.ID != req.ContactID {
			continue
		}
		out.TotalCalls++
		out.TotalDurationSeconds += e.DurationSeconds
		out.LongestCallSeconds = max(out.LongestCallSeconds, e.DurationSeconds)

		switch e.Status {
		case calls.LogStatusCompleted:
			out.CompletedCalls++
		case calls.LogStatusMissed:
			out.MissedCalls++
		}
		switch e.Mode {
		case calls.ModeIncoming:
			out.IncomingCalls++
		case calls.ModeOutgoing:
			out.OutgoingCalls++
		}
	}
	if out.TotalCalls > 0 {
		out.AverageDurationSeconds = out.TotalDurationSeconds / out.TotalCalls
	}
	return out, nil
}
