package engine

import (
	"sync"
	"time"
)

// Clock abstracts wall time so countdowns and dispatch delays can run on
// virtual time in tests instead of real sleeps.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
	AfterFunc(d time.Duration, f func()) Timer
}

// Ticker delivers periodic tick timestamps until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Timer is a pending one-shot callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// SystemClock returns the production clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type systemTicker struct {
	t *time.Ticker
}

func (st *systemTicker) C() <-chan time.Time { return st.t.C }
func (st *systemTicker) Stop()               { st.t.Stop() }

// ManualClock is a deterministic Clock for tests. Advance moves the current
// instant and fires any AfterFunc timers that come due, on the caller's
// goroutine. Tickers created from a ManualClock never fire on their own;
// tests drive countdowns synchronously via Countdown.Tick instead.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

// NewManualClock returns a ManualClock pinned at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward and invokes due timers in deadline order.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	var due []*manualTimer
	remaining := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case !t.deadline.After(now):
			due = append(due, t)
		default:
			remaining = append(remaining, t)
		}
	}
	c.timers = remaining
	c.mu.Unlock()

	for _, t := range due {
		t.fire()
	}
}

func (c *ManualClock) NewTicker(d time.Duration) Ticker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

type manualTicker struct {
	ch chan time.Time
}

func (mt *manualTicker) C() <-chan time.Time { return mt.ch }
func (mt *manualTicker) Stop()               {}

type manualTimer struct {
	mu       sync.Mutex
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func (t *manualTimer) fire() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	f := t.f
	t.mu.Unlock()
	f()
}

// Stop reports whether the timer was still pending.
func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
