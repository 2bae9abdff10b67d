package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"callsim/internal/calls"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only. No Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Event) error
	Recent(ctx context.Context, limit int) ([]Event, error)
}

// Service records the call trail.
//
// Callers should treat audit logging as best-effort.
type Service struct {
	repo  Repository
	clock func() time.Time
	log   *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, clock: time.Now, log: log}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}
	if e.Type.needsSession() && e.SessionID == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Observe turns an engine transition into an audit event. Failures are logged.
func (s *Service) Observe(ev calls.Event) {
	e := Event{
		Type:      EventType(ev.Kind),
		SessionID: ev.Session.ID,
		ContactID: ev.Session.Contact.ID,
		Mode:      string(ev.Session.Mode),
		Message:   "call " + string(ev.Kind),
		CreatedAt: ev.At,
	}
	if ev.Entry != nil {
		d := ev.Entry.DurationSeconds
		e.DurationSeconds = &d
		e.Message = "call " + string(ev.Entry.Status)
	}
	if err := s.Append(context.Background(), e); err != nil {
		s.log.Warn("audit append failed", "type", e.Type, "session_id", e.SessionID, "err", err)
	}
}

// LogCleared records that the call log was wiped.
func (s *Service) LogCleared(ctx context.Context, removed int) error {
	return s.Append(ctx, Event{
		Type:    EventTypeLogsCleared,
		Message: fmt.Sprintf("%d calls cleared", removed),
	})
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Event, error) {
	if s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	return s.repo.Recent(ctx, limit)
}
