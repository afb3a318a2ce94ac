package engine

import (
	"sync"
	"time"
)

// TickInterval is the cadence at which a running countdown reports remaining
// time. Remaining is always recomputed from the absolute start timestamp, so
// reported values never drift from wall clock by more than one interval.
const TickInterval = 100 * time.Millisecond

// Countdown tracks a fixed duration against a Clock. On every tick it invokes
// the update callback with the remaining time (non-increasing, clamped at
// zero) and, exactly once when the remaining time reaches zero, invokes the
// expiry callback and stops itself.
//
// A Countdown is owned by exactly one session; callbacks are invoked without
// the countdown's lock held so they may call Stop or Reset.
type Countdown struct {
	mu       sync.Mutex
	clock    Clock
	duration time.Duration
	interval time.Duration
	onTick   func(remaining time.Duration)
	onExpire func()

	start   time.Time
	ticker  Ticker
	done    chan struct{}
	running bool
	expired bool
}

// NewCountdown creates a countdown for the given duration. Either callback
// may be nil.
func NewCountdown(clock Clock, duration time.Duration, onTick func(time.Duration), onExpire func()) *Countdown {
	return &Countdown{
		clock:    clock,
		duration: duration,
		interval: TickInterval,
		onTick:   onTick,
		onExpire: onExpire,
	}
}

// Start begins tracking from the current instant. Starting a running
// countdown is a no-op.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.start = c.clock.Now()
	c.expired = false
	c.startLocked()
	ticker, done := c.ticker, c.done
	c.mu.Unlock()

	go c.loop(ticker, done)
}

func (c *Countdown) startLocked() {
	c.ticker = c.clock.NewTicker(c.interval)
	c.done = make(chan struct{})
	c.running = true
}

func (c *Countdown) loop(ticker Ticker, done chan struct{}) {
	for {
		select {
		case now := <-ticker.C():
			c.Tick(now)
		case <-done:
			return
		}
	}
}

// Tick observes the clock at the given instant, reports remaining time and
// fires expiry when the duration has elapsed. The running loop calls this on
// every ticker delivery; tests on a ManualClock call it directly to advance
// the countdown deterministically.
func (c *Countdown) Tick(now time.Time) {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	remaining := c.duration - now.Sub(c.start)
	if remaining < 0 {
		remaining = 0
	}
	fireExpire := false
	if remaining == 0 && !c.expired {
		c.expired = true
		c.stopLocked()
		fireExpire = true
	}
	onTick, onExpire := c.onTick, c.onExpire
	c.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if fireExpire && onExpire != nil {
		onExpire()
	}
}

// Stop halts the countdown and releases its ticker. Safe to call any number
// of times and from expiry callbacks.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Countdown) stopLocked() {
	if !c.running {
		return
	}
	c.running = false
	c.ticker.Stop()
	close(c.done)
}

// Reset re-bases the start timestamp to the current instant without changing
// the duration, reviving the countdown if it already expired. Used when a
// session reuses one countdown across two phases.
func (c *Countdown) Reset() {
	c.mu.Lock()
	c.start = c.clock.Now()
	c.expired = false
	if c.running {
		c.mu.Unlock()
		return
	}
	c.startLocked()
	ticker, done := c.ticker, c.done
	c.mu.Unlock()

	go c.loop(ticker, done)
}

// Remaining recomputes the time left from the absolute start timestamp.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	remaining := c.duration - c.clock.Now().Sub(c.start)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Duration returns the configured duration.
func (c *Countdown) Duration() time.Duration {
	return c.duration
}
