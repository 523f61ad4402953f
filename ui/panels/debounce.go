// Package panels provides UI panels for the application.
package panels

import (
	"sync"
	"time"
)

// debounceDelay is how long entry fields settle before their values are
// applied.
const debounceDelay = 300 * time.Millisecond

// Debouncer coalesces rapid calls into one, firing only after the delay
// elapses with no further calls. A generation counter discards timers
// superseded by later calls.
type Debouncer struct {
	mu    sync.Mutex
	gen   uint64
	delay time.Duration
}

// NewDebouncer creates a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Call schedules f, cancelling any previously scheduled call.
func (d *Debouncer) Call(f func()) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.gen == gen
		d.mu.Unlock()
		if current {
			f()
		}
	})
}
