package clock

// Counter is the bounded bidirectional counter at the heart of the clock.
// It owns its tick timer: timebase pulses go in through Clock, ticks come
// out as checked steps of the value. All mutation goes through the methods
// below and the caller must serialize them (a single goroutine in the
// daemon).
type Counter struct {
	unit  Unit
	value uint16
	dir   Direction
	run   RunState
	timer *CTC
	wraps int // boundary wraps during the current Clock batch
}

// NewCounter creates a running, ascending counter at zero whose tick timer
// fires every top+1 pulses.
func NewCounter(unit Unit, top uint32) *Counter {
	c := &Counter{
		unit: unit,
		dir:  Ascending,
		run:  Running,
	}
	c.timer = NewCTC(top, c.advanceFromTimer)
	return c
}

// Clock feeds elapsed timebase pulses to the tick timer. It returns the
// number of times the value wrapped at a boundary during this batch.
// While paused the timer is disabled, so pulses are discarded and both the
// value and the timer position stay frozen.
func (c *Counter) Clock(pulses int) int {
	c.wraps = 0
	c.timer.Clock(pulses)
	return c.wraps
}

func (c *Counter) advanceFromTimer() {
	c.Advance()
}

// Advance applies one tick: a single step in the current direction with
// explicit wraparound at both boundaries. Ascending wraps limit-1 -> 0,
// descending wraps 0 -> limit-1 through a checked zero test, never through
// unsigned underflow. No-op while paused.
func (c *Counter) Advance() {
	if c.run != Running {
		return
	}

	limit := c.unit.Limit()
	switch c.dir {
	case Ascending:
		if c.value == limit-1 {
			c.value = 0
			c.wraps++
			return
		}
		c.value++
	case Descending:
		if c.value == 0 {
			c.value = limit - 1
			c.wraps++
			return
		}
		c.value--
	}
}

// ToggleRun flips between running and paused, gating the tick timer so a
// paused counter holds its partial period and resumes exactly where it
// left off. Returns the new run state.
func (c *Counter) ToggleRun() RunState {
	if c.run == Running {
		c.run = Paused
		c.timer.Disable()
	} else {
		c.run = Running
		c.timer.Enable()
	}
	return c.run
}

// SwapDirection reverses the count direction and mirrors the timer position
// so the fraction of the current tick already elapsed still counts toward
// the next (now opposite) tick. Two swaps restore both the direction and
// the position. Returns the new direction.
func (c *Counter) SwapDirection() Direction {
	if c.dir == Ascending {
		c.dir = Descending
	} else {
		c.dir = Ascending
	}
	c.timer.Mirror()
	return c.dir
}

// Reset returns the value and the timer position to zero. Direction and
// run state are left alone: a paused counter stays paused at zero.
func (c *Counter) Reset() {
	c.value = 0
	c.timer.SetPosition(0)
}

// Value returns the current counter value, always in [0, limit).
func (c *Counter) Value() uint16 { return c.value }

// Direction returns the current count direction.
func (c *Counter) Direction() Direction { return c.dir }

// Running reports whether ticks currently advance the value.
func (c *Counter) Running() bool { return c.run == Running }

// TimerPosition returns the raw tick timer position, exposed read-only for
// status reporting and tests.
func (c *Counter) TimerPosition() uint32 { return c.timer.Position() }

// Unit returns the counting variant.
func (c *Counter) Unit() Unit { return c.unit }
