package game

import (
	"sync"
	"time"
)

// SessionClock drives one room: a deadline timer that fires once and a
// draw ticker that fires every interval. Pause freezes the remaining
// budget; resume restarts both timers from it, with the draw cadence
// starting fresh (partial interval progress is not rolled over).
//
// Callbacks run on the clock's goroutine without the clock lock held,
// so they may call back into Pause/Cancel. The coordinator serializes
// them against player actions with the room lock.
type SessionClock struct {
	mu         sync.Mutex
	interval   time.Duration
	remaining  time.Duration
	startedAt  time.Time
	onTick     func()
	onDeadline func()
	stop       chan struct{}
	running    bool
}

func NewSessionClock() *SessionClock {
	return &SessionClock{}
}

// Start arms both timers. No-op if the clock is already running.
func (c *SessionClock) Start(remaining, interval time.Duration, onTick, onDeadline func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.remaining = remaining
	c.interval = interval
	c.onTick = onTick
	c.onDeadline = onDeadline
	c.startLocked()
}

func (c *SessionClock) startLocked() {
	stop := make(chan struct{})
	c.stop = stop
	c.startedAt = time.Now()
	c.running = true
	go c.run(stop, c.remaining, c.interval)
}

func (c *SessionClock) run(stop chan struct{}, remaining, interval time.Duration) {
	deadline := time.NewTimer(remaining)
	ticker := time.NewTicker(interval)
	defer deadline.Stop()
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-deadline.C:
			c.mu.Lock()
			live := c.stop == stop && c.running
			if live {
				c.running = false
				c.remaining = 0
			}
			cb := c.onDeadline
			c.mu.Unlock()
			if live && cb != nil {
				cb()
			}
			return
		case <-ticker.C:
			c.mu.Lock()
			live := c.stop == stop && c.running
			cb := c.onTick
			c.mu.Unlock()
			if !live {
				return
			}
			if cb != nil {
				cb()
			}
		}
	}
}

// Prime arms the clock's budget and callbacks without starting the
// timers, leaving it in the paused position. Used when rebuilding a
// room from a snapshot; Resume then starts it.
func (c *SessionClock) Prime(remaining, interval time.Duration, onTick, onDeadline func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.remaining = remaining
	c.interval = interval
	c.onTick = onTick
	c.onDeadline = onDeadline
}

// Pause stops both timers and freezes the remaining budget. Returns
// the elapsed time of the run just stopped and the frozen remainder.
// No-op when the clock is not running.
func (c *SessionClock) Pause() (elapsed, remaining time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return 0, c.remaining
	}
	close(c.stop)
	c.running = false
	elapsed = time.Since(c.startedAt)
	c.remaining -= elapsed
	if c.remaining < 0 {
		c.remaining = 0
	}
	return elapsed, c.remaining
}

// Resume restarts both timers from the frozen budget.
func (c *SessionClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.remaining <= 0 {
		return
	}
	c.startLocked()
}

// Cancel stops both timers. Idempotent.
func (c *SessionClock) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		close(c.stop)
		c.running = false
	}
}

// Remaining reports the session budget left right now.
func (c *SessionClock) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return c.remaining
	}
	left := c.remaining - time.Since(c.startedAt)
	if left < 0 {
		left = 0
	}
	return left
}

// Running reports whether the timers are armed.
func (c *SessionClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
