// Package countdown provides a small ticking timer for OTP and reset
// screens: it shows code expiry and gates resend actions.
package countdown

import (
	"sync"
	"time"
)

// Timer counts down once per second from an initial value, clamping at
// zero. The completion callback fires exactly once per run, when the
// remaining time reaches zero from a positive value. At most one
// ticking loop exists per Timer; Start while running is a no-op.
type Timer struct {
	mu        sync.Mutex
	initial   int
	remaining int
	running   bool
	interval  time.Duration
	onTick    func(remaining int)
	onDone    func()
	stopCh    chan struct{}
}

// Option configures a Timer.
type Option func(*Timer)

// WithInterval overrides the one-second tick interval. Used by tests.
func WithInterval(d time.Duration) Option {
	return func(t *Timer) {
		t.interval = d
	}
}

// WithOnTick registers a callback invoked after every decrement with
// the new remaining value.
func WithOnTick(fn func(remaining int)) Option {
	return func(t *Timer) {
		t.onTick = fn
	}
}

// WithOnComplete registers the completion callback.
func WithOnComplete(fn func()) Option {
	return func(t *Timer) {
		t.onDone = fn
	}
}

// New creates a stopped timer with the given initial value in seconds.
func New(initialSeconds int, opts ...Option) *Timer {
	if initialSeconds < 0 {
		initialSeconds = 0
	}
	t := &Timer{
		initial:   initialSeconds,
		remaining: initialSeconds,
		interval:  time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins ticking. Calling Start while already running, or after
// the remaining time has reached zero, does nothing — there is never a
// second ticking loop and the value never decrements below zero.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.running || t.remaining == 0 {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	stopCh := t.stopCh
	t.mu.Unlock()

	go t.loop(stopCh)
}

// Stop halts ticking without resetting the remaining time.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timer) stopLocked() {
	if !t.running {
		return
	}
	t.running = false
	close(t.stopCh)
	t.stopCh = nil
}

// Reset stops the timer and sets the remaining time to newValue, or to
// the original initial value when called without arguments.
func (t *Timer) Reset(newValue ...int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	if len(newValue) > 0 && newValue[0] >= 0 {
		t.remaining = newValue[0]
	} else {
		t.remaining = t.initial
	}
}

// Remaining returns the seconds left.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Running reports whether the timer is ticking.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) loop(stopCh chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if done := t.tick(); done {
				return
			}
		}
	}
}

// tick decrements once. Returns true when the run has completed.
func (t *Timer) tick() bool {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return true
	}
	t.remaining--
	if t.remaining < 0 {
		t.remaining = 0
	}
	remaining := t.remaining
	completed := remaining == 0
	if completed {
		t.running = false
		t.stopCh = nil
	}
	onTick, onDone := t.onTick, t.onDone
	t.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if completed && onDone != nil {
		onDone()
	}
	return completed
}
