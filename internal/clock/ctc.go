package clock

// CTC emulates a clear-on-match hardware timer: it counts pulses from an
// external timebase up to a top value, fires the match callback, and clears
// to zero. Disabling it freezes the position and discards pulses, so no
// partial period leaks across a pause/resume boundary.
type CTC struct {
	top     uint32
	pos     uint32
	enabled bool
	onMatch func()
}

// NewCTC creates an enabled timer that fires onMatch every top+1 pulses.
func NewCTC(top uint32, onMatch func()) *CTC {
	return &CTC{
		top:     top,
		enabled: true,
		onMatch: onMatch,
	}
}

// Clock advances the timer by a batch of pulses and returns the number of
// matches fired. Delivering missed pulses in one large batch is equivalent
// to delivering them one at a time.
func (c *CTC) Clock(pulses int) int {
	if !c.enabled || pulses <= 0 {
		return 0
	}

	period := uint64(c.top) + 1
	total := uint64(c.pos) + uint64(pulses)
	matches := int(total / period)
	c.pos = uint32(total % period)

	for i := 0; i < matches; i++ {
		if c.onMatch != nil {
			c.onMatch()
		}
	}
	return matches
}

// Enable resumes counting from the held position.
func (c *CTC) Enable() { c.enabled = true }

// Disable freezes the position. Pulses delivered while disabled are discarded.
func (c *CTC) Disable() { c.enabled = false }

// Enabled reports whether the timer is counting.
func (c *CTC) Enabled() bool { return c.enabled }

// Position returns the raw position in [0, top].
func (c *CTC) Position() uint32 { return c.pos }

// SetPosition overwrites the raw position, clamping to top.
func (c *CTC) SetPosition(pos uint32) {
	if pos > c.top {
		pos = c.top
	}
	c.pos = pos
}

// Mirror reflects the position (pos = top - pos) so the time already spent
// inside the current period counts toward the next match in the opposite
// count direction.
func (c *CTC) Mirror() { c.pos = c.top - c.pos }
