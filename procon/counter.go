package procon

import "time"

// counterPeriod is the interval between periodic input reports on a real
// Pro Controller, grounded on switch_pro.hpp's HighResolutionTimer
// counter_timer_ (4960 microseconds).
const counterPeriod = 4960 * time.Microsecond

// Counter drives the periodic report cadence. It does not measure elapsed
// wall-clock time: if the caller falls behind (a scheduling stall, a
// suspended goroutine), the next Tick() only advances the report counter
// byte by one, exactly as a free-running hardware timer would, rather than
// replaying every missed tick.
type Counter struct {
	period   time.Duration
	value    uint8
	lastTick time.Time
}

// NewCounter returns a Counter starting at zero, ready to tick.
func NewCounter() *Counter {
	return &Counter{period: counterPeriod}
}

// Start resets the counter's clock reference to now, used both at first
// attach and after a transport reconnect (spec.md's "restartable across
// suspend/resume").
func (c *Counter) Start(now time.Time) {
	c.lastTick = now
}

// Tick advances the counter by exactly one regardless of how much wall
// time has actually elapsed, and returns the new value. The caller (the
// periodic report loop) is responsible for calling Tick once per period;
// Counter only owns the byte's wraparound.
func (c *Counter) Tick() uint8 {
	c.value++
	return c.value
}

// Value returns the current counter byte without advancing it.
func (c *Counter) Value() uint8 { return c.value }

// Period returns the configured tick interval, for callers building a
// time.Ticker around this counter.
func (c *Counter) Period() time.Duration { return c.period }
