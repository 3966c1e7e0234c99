package pure_utils

import (
	"sync"
	"time"
)

// AfterFunc schedules fn after d and returns a stop function. The production
// implementation is the standard timer; tests substitute a manual scheduler
// so they advance a simulated clock instead of sleeping.
type AfterFunc func(d time.Duration, fn func()) (stop func() bool)

func StdAfterFunc(d time.Duration, fn func()) (stop func() bool) {
	return time.AfterFunc(d, fn).Stop
}

// Debouncer delays calls to fn until triggers pause for the configured
// delay. Repeated triggers within the window supersede each other, so a
// burst of keystrokes produces a single call.
type Debouncer struct {
	delay time.Duration
	after AfterFunc
	fn    func()

	mu   sync.Mutex
	stop func() bool
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return NewDebouncerWithScheduler(delay, fn, StdAfterFunc)
}

func NewDebouncerWithScheduler(delay time.Duration, fn func(), after AfterFunc) *Debouncer {
	return &Debouncer{delay: delay, after: after, fn: fn}
}

// Trigger (re)starts the delay window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		d.stop()
	}
	d.stop = d.after(d.delay, d.fn)
}

// Cancel drops any pending call. Safe to call with nothing pending.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
}
