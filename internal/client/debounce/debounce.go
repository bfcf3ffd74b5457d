// Package debounce coalesces bursts of keyed updates into a single
// trailing-edge call per key. The cart container routes quantity
// changes through it so rapid +/- clicks cost one round trip, not one
// per click.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiescence window used when none is configured.
const DefaultWindow = 700 * time.Millisecond

type pending struct {
	timer *time.Timer
	value int
	seq   uint64
}

// Debouncer schedules at most one downstream call per key per
// quiescent window, always with the last value scheduled for that key.
// Keys are independent of each other.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	fire    func(key string, value int)
	entries map[string]*pending
	seq     uint64
	closed  bool
}

// New creates a Debouncer that invokes fire after a key has been quiet
// for the given window. A non-positive window falls back to
// DefaultWindow.
func New(window time.Duration, fire func(key string, value int)) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		window:  window,
		fire:    fire,
		entries: make(map[string]*pending),
	}
}

// Schedule records value for key and restarts the key's window. Any
// previously pending call for the same key is cancelled; its value is
// never sent.
func (d *Debouncer) Schedule(key string, value int) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq

	if e, ok := d.entries[key]; ok {
		e.timer.Stop()
	}
	e := &pending{value: value, seq: seq}
	e.timer = time.AfterFunc(d.window, func() { d.expire(key, seq) })
	d.entries[key] = e
	d.mu.Unlock()
}

// expire fires the pending call for key, unless the entry was replaced
// or flushed after this timer was armed.
func (d *Debouncer) expire(key string, seq uint64) {
	d.mu.Lock()
	e, ok := d.entries[key]
	if !ok || e.seq != seq || d.closed {
		d.mu.Unlock()
		return
	}
	delete(d.entries, key)
	value := e.value
	d.mu.Unlock()

	d.fire(key, value)
}

// Flush fires any pending call for key immediately, cancelling its
// timer. It is a no-op when nothing is pending.
func (d *Debouncer) Flush(key string) {
	d.mu.Lock()
	e, ok := d.entries[key]
	if !ok || d.closed {
		d.mu.Unlock()
		return
	}
	e.timer.Stop()
	delete(d.entries, key)
	value := e.value
	d.mu.Unlock()

	d.fire(key, value)
}

// Close cancels every pending timer without firing. The Debouncer
// ignores all calls afterwards; used on teardown so timers never fire
// against a dismantled container.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for key, e := range d.entries {
		e.timer.Stop()
		delete(d.entries, key)
	}
}

// Pending reports whether key has an unsent value.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.entries[key]
	return ok
}
