package engine

import "time"

// Clock tracks simulated time: a per-round logical tick plus the seconds
// elapsed since match start, from which wall-clock timestamps derive.
//
// Ticks are derived from a configured rate (ticks per simulated second) and
// only ever move forward within a round; BeginRound resets the tick to zero
// while match-elapsed time keeps accumulating. This gives the two ordering
// guarantees the event log promises: ticks non-decreasing within a round,
// wall time non-decreasing across the whole log.
//
// The simulation is single-threaded, so Clock needs no synchronization.
type Clock struct {
	rate         int
	tick         int64
	elapsed      float64
	roundElapsed float64 // match-elapsed seconds at the current round's start
	start        time.Time
}

// NewClock creates a clock at tick 0 anchored to the given wall-clock start.
func NewClock(rate int, start time.Time) *Clock {
	return &Clock{rate: rate, start: start}
}

// BeginRound resets the round-local tick. Match-elapsed time is unaffected.
func (c *Clock) BeginRound() {
	c.tick = 0
	c.roundElapsed = c.elapsed
}

// Advance moves simulated time forward by the given number of seconds.
func (c *Clock) Advance(seconds float64) {
	if seconds < 0 {
		return
	}
	c.tick += int64(seconds * float64(c.rate))
	c.elapsed += seconds
}

// Tick returns the current round-local tick.
func (c *Clock) Tick() int64 {
	return c.tick
}

// Seconds returns the seconds elapsed inside the current round.
func (c *Clock) Seconds() float64 {
	return float64(c.tick) / float64(c.rate)
}

// Now returns the wall-clock time for the current simulated instant.
func (c *Clock) Now() time.Time {
	return c.start.Add(time.Duration(c.elapsed * float64(time.Second)))
}

// TimeAtTick returns the wall-clock time for a tick within the current
// round. Used for events stamped at a tick other than the current one.
func (c *Clock) TimeAtTick(tick int64) time.Time {
	sec := c.roundElapsed + float64(tick)/float64(c.rate)
	return c.start.Add(time.Duration(sec * float64(time.Second)))
}
