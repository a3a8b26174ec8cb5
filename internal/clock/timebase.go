package clock

import "time"

// Timebase converts wall-clock progress into whole pulses at a fixed
// period, carrying the sub-pulse remainder between calls so no time is lost
// to integer division. The loop's resolution ticker only wakes the caller;
// elapsed time is measured here, so a late wake self-corrects by returning
// all missed pulses in one batch.
type Timebase struct {
	period time.Duration
	last   time.Time
}

// NewTimebase creates a timebase anchored at start.
func NewTimebase(period time.Duration, start time.Time) *Timebase {
	return &Timebase{period: period, last: start}
}

// Pulses returns the whole pulses elapsed since the previous call. A clock
// that steps backwards contributes zero pulses until it passes the previous
// high-water mark again.
func (tb *Timebase) Pulses(now time.Time) int {
	if tb.period <= 0 {
		return 0
	}

	elapsed := now.Sub(tb.last)
	if elapsed < tb.period {
		return 0
	}

	n := elapsed / tb.period
	tb.last = tb.last.Add(n * tb.period)
	return int(n)
}

// Period returns the pulse period.
func (tb *Timebase) Period() time.Duration { return tb.period }
