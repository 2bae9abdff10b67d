package audit

import (
	"context"
	"sync"
)

// DefaultCapacity bounds MemoryRepo when no capacity is given.
const DefaultCapacity = 500

// MemoryRepo keeps the most recent events in memory. Older events fall off
// once capacity is reached.
type MemoryRepo struct {
	mu       sync.Mutex
	capacity int
	events   []Event
}

func NewMemoryRepo(capacity int) *MemoryRepo {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryRepo{capacity: capacity}
}

func (r *MemoryRepo) Append(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	if over := len(r.events) - r.capacity; over > 0 {
		r.events = append(r.events[:0:0], r.events[over:]...)
	}
	return nil
}

// Recent returns up to limit events, newest first. limit <= 0 returns all of them.
func (r *MemoryRepo) Recent(ctx context.Context, limit int) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Event, 0, n)
	for i := len(r.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.events[i])
	}
	return out, nil
}
