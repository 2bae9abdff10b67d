package contacts

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

var (
	ErrNotFound    = errors.New("contacts: not found")
	ErrInvalidPage = errors.New("contacts: invalid page")
	ErrEmpty       = errors.New("contacts: directory is empty")
)

// DefaultPageSize matches the list screen's page length.
const DefaultPageSize = 12

// Directory supplies contacts to the call core. It is read-only.
type Directory interface {
	Get(id string) (Contact, error)
	Page(page int) ([]Contact, error)
	Random() (Contact, error)
	Len() int
}

// MemoryDirectory is a fixed, in-memory contact list.
type MemoryDirectory struct {
	mu       sync.Mutex
	contacts []Contact
	byID     map[string]int
	pageSize int
	rnd      func(n int) int
}

func NewMemoryDirectory(list []Contact, pageSize int) *MemoryDirectory {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	d := &MemoryDirectory{
		contacts: make([]Contact, len(list)),
		byID:     make(map[string]int, len(list)),
		pageSize: pageSize,
		rnd:      rand.IntN,
	}
	copy(d.contacts, list)
	for i, c := range d.contacts {
		d.byID[c.ID] = i
	}
	return d
}

// Seed builds the demo directory: "Contact 1".."Contact n" with synthetic Indian mobile numbers.
func Seed(n int) []Contact {
	out := make([]Contact, 0, n)
	for i := 1; i <= n; i++ {
		suffix := fmt.Sprintf("%d", 1000+i)
		out = append(out, Contact{
			ID:    fmt.Sprintf("%d", i),
			Name:  fmt.Sprintf("Contact %d", i),
			Phone: "+91 90000" + suffix[len(suffix)-4:],
		})
	}
	return out
}

func (d *MemoryDirectory) Get(id string) (Contact, error) {
	i, ok := d.byID[id]
	if !ok {
		return Contact{}, ErrNotFound
	}
	return d.contacts[i], nil
}

// Page returns the 1-based page n. A page past the end is empty, not an error.
func (d *MemoryDirectory) Page(page int) ([]Contact, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	start := (page - 1) * d.pageSize
	if start >= len(d.contacts) {
		return []Contact{}, nil
	}
	end := min(start+d.pageSize, len(d.contacts))
	out := make([]Contact, end-start)
	copy(out, d.contacts[start:end])
	return out, nil
}

func (d *MemoryDirectory) Random() (Contact, error) {
	if len(d.contacts) == 0 {
		return Contact{}, ErrEmpty
	}
	d.mu.Lock()
	i := d.rnd(len(d.contacts))
	d.mu.Unlock()
	return d.contacts[i], nil
}

func (d *MemoryDirectory) Len() int { return len(d.contacts) }
