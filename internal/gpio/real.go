//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the buttons from actual hardware using the Linux GPIO
// character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
	vals  []int
}

// NewRealReader requests the three button pins on the given chip as inputs
// with internal pull-ups. A released button reads high, a pressed one low.
func NewRealReader(chipName string, pinStartStop, pinSwap, pinReset int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	offsets := []int{pinStartStop, pinSwap, pinReset}
	lines, err := chip.RequestLines(offsets, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pins %v: %w", offsets, err)
	}

	return &RealReader{
		chip:  chip,
		lines: lines,
		vals:  make([]int, len(offsets)),
	}, nil
}

// Read returns the logical pressed states of the three buttons.
// Inverts the raw lines: raw low (0) = pressed.
func (r *RealReader) Read() (bool, bool, bool, error) {
	if err := r.lines.Values(r.vals); err != nil {
		return false, false, false, fmt.Errorf("read button pins: %w", err)
	}
	return r.vals[0] == 0, r.vals[1] == 0, r.vals[2] == 0, nil
}

// Close releases GPIO resources. The bias is dropped first so the pins
// return to their unbiased boot state.
func (r *RealReader) Close() error {
	var errs []error

	if r.lines != nil {
		if err := r.lines.Reconfigure(gpiocdev.AsInput, gpiocdev.WithBiasDisabled); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure button pins: %w", err))
		}
		if err := r.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pins: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealPort drives a group of GPIO lines as one parallel output port.
type RealPort struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
	width int
	vals  []int
}

// NewRealPort requests the given pins on the given chip as outputs driven
// low, in pattern bit order (pins[0] carries bit 0).
func NewRealPort(chipName string, pins []int) (*RealPort, error) {
	if len(pins) == 0 || len(pins) > 8 {
		return nil, fmt.Errorf("port width %d: want 1 to 8 pins", len(pins))
	}

	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	initial := make([]int, len(pins))
	lines, err := chip.RequestLines(pins, gpiocdev.AsOutput(initial...))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request port pins %v: %w", pins, err)
	}

	return &RealPort{
		chip:  chip,
		lines: lines,
		width: len(pins),
		vals:  make([]int, len(pins)),
	}, nil
}

// Write drives bit i of the pattern onto the i-th pin of the port.
func (p *RealPort) Write(pattern byte) error {
	for i := 0; i < p.width; i++ {
		p.vals[i] = int((pattern >> i) & 1)
	}
	if err := p.lines.SetValues(p.vals); err != nil {
		return fmt.Errorf("set port pins: %w", err)
	}
	return nil
}

// Close blanks the port and returns the pins to inputs before releasing,
// so no segment line is left driven after shutdown.
func (p *RealPort) Close() error {
	var errs []error

	if p.lines != nil {
		if err := p.lines.SetValues(make([]int, p.width)); err != nil {
			errs = append(errs, fmt.Errorf("blank port: %w", err))
		}
		if err := p.lines.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure port pins: %w", err))
		}
		if err := p.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close port pins: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
