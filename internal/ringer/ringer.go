package ringer

import (
	"log/slog"
	"sync"
	"time"

	"callsim/internal/contacts"
)

const (
	DefaultRingtone      = "ringtone.mp3"
	DefaultPulse         = 800 * time.Millisecond
	DefaultPulseInterval = 1500 * time.Millisecond
)

// Options tunes the simulated ringer. Zero values use the defaults above.
type Options struct {
	Ringtone      string
	Pulse         time.Duration
	PulseInterval time.Duration
	Logger        *slog.Logger

	// OnPulse observes each vibration pulse.
	OnPulse func(d time.Duration)
}

// Simulated loops a ringtone and pulses vibration while a call rings.
// Playback is represented by log lines; nothing touches real audio hardware.
type Simulated struct {
	opts Options
	log  *slog.Logger

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	contact contacts.Contact
}

func NewSimulated(opts Options) *Simulated {
	if opts.Ringtone == "" {
		opts.Ringtone = DefaultRingtone
	}
	if opts.Pulse <= 0 {
		opts.Pulse = DefaultPulse
	}
	if opts.PulseInterval <= 0 {
		opts.PulseInterval = DefaultPulseInterval
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Simulated{opts: opts, log: log}
}

// Start begins ringing for c. A ringer already running is restarted.
func (r *Simulated) Start(c contacts.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.halt()
	r.contact = c
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.log.Debug("ringtone playing", "ringtone", r.opts.Ringtone, "loops", -1, "contact_id", c.ID)
	go r.vibrate(r.stop, r.done)
	return nil
}

// Stop silences the ringtone and cancels vibration. Stopping an idle ringer is a no-op.
func (r *Simulated) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		r.log.Debug("ringtone released", "contact_id", r.contact.ID)
	}
	r.halt()
	return nil
}

func (r *Simulated) Ringing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

// halt must be called with r.mu held.
func (r *Simulated) halt() {
	if r.stop == nil {
		return
	}
	close(r.stop)
	<-r.done
	r.stop, r.done = nil, nil
}

func (r *Simulated) vibrate(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(r.opts.PulseInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			r.log.Debug("vibrate", "duration_ms", r.opts.Pulse.Milliseconds())
			if r.opts.OnPulse != nil {
				r.opts.OnPulse(r.opts.Pulse)
			}
		}
	}
}

// Nop is a Ringer that does nothing.
type Nop struct{}

func (Nop) Start(contacts.Contact) error { return nil }
func (Nop) Stop() error { return nil }
