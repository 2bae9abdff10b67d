package calllog

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"callsim/internal/calls"
	"callsim/internal/contacts"
)

var ErrCorrupt = errors.New("calllog: corrupt payload")

// record is the persisted shape of a calls.LogEntry. Pointer fields let the
// decoder tell a missing field from a zero value.
type record struct {
	ID        *string           `json:"id"`
	Contact   *contacts.Contact `json:"contact"`
	Status    *calls.LogStatus  `json:"status"`
	Mode      *calls.Mode       `json:"mode"`
	StartedAt *time.Time        `json:"started_at"`
	EndedAt   *time.Time        `json:"ended_at"`
	Duration  *int              `json:"duration"`
}

// Encode serializes the whole sequence, newest first, as a flat JSON array.
func Encode(entries []calls.LogEntry) ([]byte, error) {
	if entries == nil {
		entries = []calls.LogEntry{}
	}
	return json.Marshal(entries)
}

// Decode parses a persisted sequence. Any record missing a required field
// makes the whole payload corrupt.
func Decode(data []byte) ([]calls.LogEntry, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	out := make([]calls.LogEntry, 0, len(recs))
	for i, r := range recs {
		e, err := r.entry()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrCorrupt, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (r record) entry() (calls.LogEntry, error) {
	switch {
	case r.ID == nil || *r.ID == "":
		return calls.LogEntry{}, errors.New("missing id")
	case r.Contact == nil || !r.Contact.Valid():
		return calls.LogEntry{}, errors.New("missing contact")
	case r.Status == nil || !r.Status.Valid():
		return calls.LogEntry{}, errors.New("missing status")
	case r.Mode == nil || !r.Mode.Valid():
		return calls.LogEntry{}, errors.New("missing mode")
	case r.StartedAt == nil || r.EndedAt == nil:
		return calls.LogEntry{}, errors.New("missing timestamps")
	case r.Duration == nil || *r.Duration < 0:
		return calls.LogEntry{}, errors.New("missing duration")
	}
	return calls.LogEntry{
		ID:              *r.ID,
		Contact:         *r.Contact,
		Status:          *r.Status,
		Mode:            *r.Mode,
		StartedAt:       *r.StartedAt,
		EndedAt:         *r.EndedAt,
		DurationSeconds: *r.Duration,
	}, nil
}
