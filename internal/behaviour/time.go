package behaviour

import "time"

// Time is the per-frame clock snapshot handed to every Update.
type Time struct {
	Elapsed time.Duration // since the first tick
	Delta   time.Duration // since the previous tick
	Frame   uint64        // number of ticks so far, starting at 1
}

// ElapsedSeconds returns Elapsed as float32 seconds.
func (t Time) ElapsedSeconds() float32 {
	return float32(t.Elapsed.Seconds())
}

// DeltaSeconds returns Delta as float32 seconds.
func (t Time) DeltaSeconds() float32 {
	return float32(t.Delta.Seconds())
}

// Clock turns wall-clock instants into Time values.
type Clock struct {
	start time.Time
	last  time.Time
	frame uint64
}

func NewClock() *Clock {
	return &Clock{}
}

// Tick advances the clock to now. The first tick starts the clock at zero.
// An instant earlier than the previous one yields a zero delta.
func (c *Clock) Tick(now time.Time) Time {
	if c.frame == 0 {
		c.start = now
		c.last = now
	}
	delta := now.Sub(c.last)
	if delta < 0 {
		delta = 0
		now = c.last
	}
	c.last = now
	c.frame++

	return Time{
		Elapsed: c.last.Sub(c.start),
		Delta:   delta,
		Frame:   c.frame,
	}
}
