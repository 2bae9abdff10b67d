package calllog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"callsim/internal/calls"
)

// DefaultKey is the single key the whole log is stored under.
const DefaultKey = "@call_logs"

type Options struct {
	Key          string
	WriteTimeout time.Duration
	Logger       *slog.Logger
}

// writeOp is one pending persistence request: either a full snapshot or a removal.
type writeOp struct {
	remove bool
	data   []byte
}

// Store is the in-memory call log, newest first, mirrored to a Backend.
//
// Mutations return immediately. A single writer goroutine persists them in
// order; when it falls behind only the latest snapshot is kept, so the
// persisted value always converges on the in-memory one.
type Store struct {
	backend      Backend
	key          string
	writeTimeout time.Duration
	log          *slog.Logger

	mu      sync.Mutex
	entries []calls.LogEntry
	pending *writeOp
	waiters []chan struct{}
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// New starts the writer goroutine. Call Close to stop it.
func New(backend Backend, opts Options) *Store {
	s := &Store{
		backend:      backend,
		key:          opts.Key,
		writeTimeout: opts.WriteTimeout,
		log:          opts.Logger,
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = 5 * time.Second
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	go s.run()
	return s
}

// Load replaces the in-memory log with the persisted one. Absent or corrupt
// data yields an empty log; the failure is only logged.
func (s *Store) Load(ctx context.Context) []calls.LogEntry {
	entries := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	return cloneEntries(s.entries)
}

func (s *Store) read(ctx context.Context) []calls.LogEntry {
	if s.backend == nil {
		return []calls.LogEntry{}
	}
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return []calls.LogEntry{}
	}
	if err != nil {
		s.log.Warn("call log load failed", "key", s.key, "err", err)
		return []calls.LogEntry{}
	}
	entries, err := Decode(data)
	if err != nil {
		s.log.Warn("call log is corrupt, starting empty", "key", s.key, "err", err)
		return []calls.LogEntry{}
	}
	return entries
}

// Append prepends e and schedules a write of the whole log.
func (s *Store) Append(e calls.LogEntry) {
	s.mu.Lock()
	s.entries = append([]calls.LogEntry{e}, s.entries...)
	data, err := Encode(s.entries)
	if err != nil {
		s.mu.Unlock()
		s.log.Error("call log encode failed", "err", err)
		return
	}
	s.schedule(&writeOp{data: data})
	s.mu.Unlock()
	s.signal()
}

// Clear empties the log and schedules removal of the persisted copy.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = []calls.LogEntry{}
	s.schedule(&writeOp{remove: true})
	s.mu.Unlock()
	s.signal()
}

// Entries returns a copy of the log, newest first.
func (s *Store) Entries() []calls.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntries(s.entries)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Flush waits until every mutation made before the call has been handed to the backend.
func (s *Store) Flush(ctx context.Context) error {
	ch := make(chan struct{})
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.waiters = append(s.waiters, ch)
	s.mu.Unlock()
	s.signal()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending writes and stops the writer.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	close(s.stop)

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// schedule must be called with s.mu held.
func (s *Store) schedule(op *writeOp) {
	if s.closed {
		s.log.Warn("call log store closed, change kept in memory only")
		return
	}
	s.pending = op
}

func (s *Store) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) run() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.drain()
		case <-s.stop:
			s.drain()
			return
		}
	}
}

func (s *Store) drain() {
	for {
		s.mu.Lock()
		op, waiters := s.pending, s.waiters
		s.pending, s.waiters = nil, nil
		s.mu.Unlock()

		if op == nil && len(waiters) == 0 {
			return
		}
		if op != nil {
			s.write(op)
		}
		for _, w := range waiters {
			close(w)
		}
	}
}

func (s *Store) write(op *writeOp) {
	if s.backend == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	if op.remove {
		if err := s.backend.Delete(ctx, s.key); err != nil {
			s.log.Warn("call log clear failed", "key", s.key, "err", err)
		}
		return
	}
	if err := s.backend.Set(ctx, s.key, op.data); err != nil {
		s.log.Warn("call log save failed", "key", s.key, "bytes", len(op.data), "err", err)
	}
}

func cloneEntries(in []calls.LogEntry) []calls.LogEntry {
	out := make([]calls.LogEntry, len(in))
	copy(out, in)
	return out
}
