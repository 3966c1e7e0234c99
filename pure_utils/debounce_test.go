package pure_utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// manualScheduler collects scheduled callbacks so tests fire them
// explicitly instead of waiting on real timers.
type manualScheduler struct {
	pending []*manualTimer
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (s *manualScheduler) after(d time.Duration, fn func()) func() bool {
	timer := &manualTimer{fn: fn}
	s.pending = append(s.pending, timer)
	return func() bool {
		stopped := !timer.stopped
		timer.stopped = true
		return stopped
	}
}

// fire runs every pending callback that was not stopped.
func (s *manualScheduler) fire() int {
	fired := 0
	for _, timer := range s.pending {
		if !timer.stopped {
			timer.stopped = true
			timer.fn()
			fired++
		}
	}
	return fired
}

func TestDebouncerCoalescesTriggers(t *testing.T) {
	calls := 0
	sched := &manualScheduler{}
	debouncer := NewDebouncerWithScheduler(300*time.Millisecond, func() { calls++ }, sched.after)

	debouncer.Trigger()
	debouncer.Trigger()
	debouncer.Trigger()

	assert.Equal(t, 0, calls, "nothing fires before the window elapses")
	assert.Equal(t, 1, sched.fire(), "only the last scheduled call is live")
	assert.Equal(t, 1, calls)
}

func TestDebouncerCancel(t *testing.T) {
	calls := 0
	sched := &manualScheduler{}
	debouncer := NewDebouncerWithScheduler(300*time.Millisecond, func() { calls++ }, sched.after)

	debouncer.Trigger()
	debouncer.Cancel()

	assert.Equal(t, 0, sched.fire())
	assert.Equal(t, 0, calls)

	// Cancel with nothing pending is a no-op.
	debouncer.Cancel()
}

func TestDebouncerRetriggersAfterFire(t *testing.T) {
	calls := 0
	sched := &manualScheduler{}
	debouncer := NewDebouncerWithScheduler(300*time.Millisecond, func() { calls++ }, sched.after)

	debouncer.Trigger()
	sched.fire()
	debouncer.Trigger()
	sched.fire()

	assert.Equal(t, 2, calls)
}
