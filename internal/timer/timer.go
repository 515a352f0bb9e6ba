// Package timer implements the countdown driving session expiry.
package timer

// Countdown is a pause-aware second counter. It never reads the wall
// clock; the caller drives it with Tick at whatever cadence it chooses.
type Countdown struct {
	duration  int
	remaining int
	running   bool
	paused    bool
}

// Start arms the countdown with a duration in ticks.
func (c *Countdown) Start(duration int) {
	c.duration = duration
	c.remaining = duration
	c.running = true
	c.paused = false
}

// Tick decrements the remaining time by one unit unless paused or idle.
func (c *Countdown) Tick() {
	if !c.running || c.paused || c.remaining <= 0 {
		return
	}
	c.remaining--
}

// Pause freezes the countdown.
func (c *Countdown) Pause() { c.paused = true }

// Resume unfreezes the countdown.
func (c *Countdown) Resume() { c.paused = false }

// Toggle flips the paused flag and reports the new value.
func (c *Countdown) Toggle() bool {
	c.paused = !c.paused
	return c.paused
}

// Paused reports whether ticks are currently ignored.
func (c *Countdown) Paused() bool { return c.paused }

// Expired reports whether the remaining time reached zero.
func (c *Countdown) Expired() bool { return c.running && c.remaining <= 0 }

// Remaining returns the remaining ticks.
func (c *Countdown) Remaining() int { return c.remaining }

// Duration returns the configured duration.
func (c *Countdown) Duration() int { return c.duration }

// Elapsed returns how many ticks have been consumed.
func (c *Countdown) Elapsed() int { return c.duration - c.remaining }

// Reset re-arms the countdown to its configured duration and unpauses it.
func (c *Countdown) Reset() {
	c.remaining = c.duration
	c.running = false
	c.paused = false
}
