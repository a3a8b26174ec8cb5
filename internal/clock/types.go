// Package clock contains the pure counting core of the panel-clock daemon.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Wall time enters only as pulse batches fed to Counter.Clock and as
// time.Time parameters.
package clock

import (
	"fmt"
	"time"
)

// Direction is the direction the counter moves on each tick.
type Direction string

const (
	Ascending  Direction = "UP"
	Descending Direction = "DOWN"
)

// RunState reports whether ticks advance the counter.
type RunState string

const (
	Running RunState = "RUNNING"
	Paused  RunState = "PAUSED"
)

// Unit selects the counting variant: whole seconds shown directly on the
// two-digit display, or milliseconds counted internally with seconds shown.
type Unit string

const (
	Seconds Unit = "seconds"
	Millis  Unit = "millis"
)

// ParseUnit validates a unit name from configuration.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case Seconds:
		return Seconds, nil
	case Millis:
		return Millis, nil
	}
	return "", fmt.Errorf("unknown unit %q (want %q or %q)", s, Seconds, Millis)
}

// Limit returns the exclusive upper bound for counter values.
func (u Unit) Limit() uint16 {
	if u == Millis {
		return 60000
	}
	return 60
}

// DisplayScale returns the divisor applied to a value before it is split
// into two digits.
func (u Unit) DisplayScale() uint16 {
	if u == Millis {
		return 1000
	}
	return 1
}

// TickPeriod returns the wall-clock duration of one counter tick.
func (u Unit) TickPeriod() time.Duration {
	if u == Millis {
		return time.Millisecond
	}
	return time.Second
}

// TimerTop returns the tick timer's top value for this unit at the given
// pulse period: the tick fires every top+1 pulses. A period that does not
// divide the tick evenly only changes the effective rate, never the
// counting logic.
func (u Unit) TimerTop(period time.Duration) uint32 {
	if period <= 0 {
		return 0
	}
	n := u.TickPeriod() / period
	if n < 1 {
		n = 1
	}
	return uint32(n - 1)
}

// Button identifies one of the three control buttons.
type Button int

const (
	BtnStartStop Button = iota
	BtnSwap
	BtnReset
)

func (b Button) String() string {
	switch b {
	case BtnStartStop:
		return "start-stop"
	case BtnSwap:
		return "swap"
	case BtnReset:
		return "reset"
	}
	return "unknown"
}

// EventType represents a state transition event.
type EventType string

const (
	EventStarted       EventType = "STARTED"
	EventStopped       EventType = "STOPPED"
	EventDirectionUp   EventType = "DIRECTION_UP"
	EventDirectionDown EventType = "DIRECTION_DOWN"
	EventReset         EventType = "RESET"
	EventWrap          EventType = "WRAP"
)

// Source says where an operation originated.
type Source string

const (
	SourceButton Source = "button"
	SourceRemote Source = "remote"
	SourceSelf   Source = "self" // wraps are self-generated
)

// Event represents a state transition to be published. Value, Direction and
// Running carry the post-transition state.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Value     uint16
	Unit      Unit
	Direction Direction
	Running   bool
	Source    Source
}

// PressCounts tracks the number of applied operations and boundary wraps
// since startup.
type PressCounts struct {
	StartStop int
	Swap      int
	Reset     int
	Wraps     int
}
