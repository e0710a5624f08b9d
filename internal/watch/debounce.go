package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into one call of fn, made once no
// trigger has arrived for the quiet period. Editors often emit several
// write/rename events per save; each burst should re-render only once.
type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	fn      func()
	timer   *time.Timer
	stopped bool
}

// NewDebouncer returns a Debouncer calling fn after quiet of inactivity.
func NewDebouncer(quiet time.Duration, fn func()) *Debouncer {
	return &Debouncer{quiet: quiet, fn: fn}
}

// Trigger starts or restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fn)
}

// Stop cancels a pending call; later triggers are ignored. It does not wait
// for a call that already started.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
