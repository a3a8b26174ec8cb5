//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(chipName string, pinStartStop, pinSwap, pinReset int) (*RealReader, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (bool, bool, bool, error) {
	return false, false, false, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}

// RealPort is not available on non-Linux platforms.
type RealPort struct{}

// NewRealPort returns an error on non-Linux platforms.
func NewRealPort(chipName string, pins []int) (*RealPort, error) {
	return nil, errUnsupported
}

// Write is not implemented on non-Linux platforms.
func (p *RealPort) Write(pattern byte) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (p *RealPort) Close() error {
	return nil
}
