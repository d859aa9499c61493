package timers

import (
	"sync"
	"time"
)

// Timer is a single-shot, cancellable countdown.
// The zero value is ready to use. Safe for concurrent use.
type Timer struct {
	// mu guards the fields below.
	mu sync.Mutex
	// inner is the running countdown, nil when idle.
	inner *time.Timer
	// generation invalidates callbacks of replaced or cancelled countdowns.
	generation uint64
}

// Start schedules fire to run once after d, replacing any running countdown.
// The replaced countdown will not fire even if its deadline already passed
// in the runtime but its callback has not entered the generation check yet.
func (t *Timer) Start(d time.Duration, fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	current := t.generation

	if t.inner != nil {
		t.inner.Stop()
	}

	t.inner = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.generation != current {
			t.mu.Unlock()

			return
		}

		t.inner = nil
		t.mu.Unlock()

		fire()
	})
}

// Cancel stops a running countdown. Cancelling an idle, already-cancelled or
// already-expired timer is a no-op.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++

	if t.inner != nil {
		t.inner.Stop()
		t.inner = nil
	}
}

// Active reports whether a countdown is currently scheduled.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.inner != nil
}
