package reporting

import "time"

// TimeRange is a half-open window [From, To) on a call's end time.
// A zero TimeRange matches everything.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (r TimeRange) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

func (r TimeRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}

// SummaryRequest asks for aggregated call-log metrics.
type SummaryRequest struct {
	Range     TimeRange `json:"range"`
	ContactID string    `json:"contact_id,omitempty"`
}

type Summary struct {
	TotalCalls     int `json:"total_calls"`
	CompletedCalls int `json:"completed_calls"`
	MissedCalls    int `json:"missed_calls"`
	IncomingCalls  int `json:"incoming_calls"`
	OutgoingCalls  int `json:"outgoing_calls"`

	TotalDurationSeconds   int `json:"total_duration_seconds"`
	AverageDurationSeconds int `json:"average_duration_seconds"`
	LongestCallSeconds     int `json:"longest_call_seconds"`
}
