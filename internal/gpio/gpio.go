// Package gpio provides GPIO access for the panel clock with hardware
// abstraction. The real implementation uses the Linux GPIO character
// device. The fake implementations allow testing without hardware.
package gpio

// Reader reads the three control button states.
type Reader interface {
	// Read returns the logical pressed states of the start/stop, swap and
	// reset buttons. The buttons short to ground against pull-ups, so the
	// raw lines are inverted: raw low = pressed.
	Read() (startStop, swap, reset bool, err error)

	// Close releases GPIO resources.
	Close() error
}

// Port drives a parallel group of output lines as one byte-wide port.
type Port interface {
	// Write drives bit i of the pattern onto the i-th line of the port.
	// Pattern bits beyond the port width are ignored.
	Write(pattern byte) error

	// Close releases GPIO resources.
	Close() error
}

// DefaultChip is the GPIO character device for the 40-pin header.
const DefaultChip = "gpiochip0"

// Default button pins (BCM numbering).
const (
	DefaultPinStartStop = 16
	DefaultPinSwap      = 20
	DefaultPinReset     = 21
)

// Default segment port pins (BCM numbering), one line per segment a-g.
var (
	DefaultOnesPins = []int{2, 3, 4, 17, 27, 22, 10}
	DefaultTensPins = []int{9, 11, 5, 6, 13, 19, 26}
)
