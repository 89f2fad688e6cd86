package core

import "time"

// Clock measures elapsed wall time in seconds since Start.
type Clock struct {
	startTime float64
	elapsed   float64
	now       func() float64
}

func NewClock() *Clock {
	return &Clock{now: absoluteTime}
}

// NewClockWithSource builds a clock that reads time (in seconds) from fn.
func NewClockWithSource(fn func() float64) *Clock {
	return &Clock{now: fn}
}

func absoluteTime() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if c.startTime != 0 {
		c.elapsed = c.now() - c.startTime
	}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.now()
	c.elapsed = 0
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.startTime = 0
}

// Elapsed returns the seconds between Start and the last Update.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

// ElapsedMs is Elapsed in milliseconds, the unit XR frame callbacks use.
func (c *Clock) ElapsedMs() float64 {
	return c.elapsed * 1000.0
}
