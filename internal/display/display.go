// Package display turns counter values into seven-segment patterns and
// fans them out to display backends.
//
// Patterns follow the wiring of the clock hardware: bit 0 is segment a
// through bit 6 for segment g, bit 7 drives the decimal point and stays
// clear in normal output. A set bit means the segment is lit.
package display

// segments maps a decimal digit to its segment pattern (bit 0 = a ... bit 6 = g).
var segments = [10]byte{
	0x3F, // 0
	0x06, // 1
	0x5B, // 2
	0x4F, // 3
	0x66, // 4
	0x6D, // 5
	0x7D, // 6
	0x07, // 7
	0x7F, // 8
	0x67, // 9
}

// AllSegments lights every segment including the decimal point. Used by the
// startup lamp test.
const AllSegments byte = 0xFF

// Blank turns every segment off.
const Blank byte = 0x00

// Split scales a value down and splits it into ones and tens digits.
// Counter values are bounded below 60000 and millisecond values are scaled
// by 1000, so the result always fits two digits.
func Split(value, scale uint16) (ones, tens byte) {
	if scale == 0 {
		scale = 1
	}
	v := value / scale
	return byte(v % 10), byte(v / 10 % 10)
}

// Pattern returns the segment pattern for a single digit 0-9. Anything
// larger renders blank.
func Pattern(digit byte) byte {
	if digit > 9 {
		return Blank
	}
	return segments[digit]
}

// Digits returns the segment patterns for both display positions: lo for
// the ones digit, hi for the tens.
func Digits(value, scale uint16) (lo, hi byte) {
	ones, tens := Split(value, scale)
	return Pattern(ones), Pattern(tens)
}

// DigitForPattern reverse-maps a pattern (decimal point ignored) to its
// digit. Returns 0xFF for patterns that are not a plain digit, which
// digit-addressed backends render blank.
func DigitForPattern(pattern byte) byte {
	for d, p := range segments {
		if p == pattern&0x7F {
			return byte(d)
		}
	}
	return 0xFF
}

// Sink receives precomputed digit patterns. Write is called on the refresh
// cadence regardless of whether the value changed, so implementations must
// tolerate repeated identical frames.
type Sink interface {
	// Write shows the two patterns: lo on the ones digit, hi on the tens.
	Write(lo, hi byte) error

	// Close releases the backend.
	Close() error
}

// Multi fans writes out to several sinks. Every sink receives the frame;
// the first error wins.
type Multi []Sink

// Write sends the frame to all sinks.
func (m Multi) Write(lo, hi byte) error {
	var firstErr error
	for _, s := range m {
		if err := s.Write(lo, hi); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes all sinks.
func (m Multi) Close() error {
	var firstErr error
	for _, s := range m {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Null discards frames.
type Null struct{}

// Write discards the frame.
func (Null) Write(lo, hi byte) error { return nil }

// Close does nothing.
func (Null) Close() error { return nil }
