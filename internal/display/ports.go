package display

import (
	"fmt"

	"github.com/sweeney/panel-clock/internal/gpio"
)

// Ports drives two GPIO ports, one per digit, with raw segment patterns.
// Segment lines are active high: a set pattern bit drives its line high.
type Ports struct {
	ones gpio.Port
	tens gpio.Port
}

// NewPorts wires the ones and tens digit ports.
func NewPorts(ones, tens gpio.Port) *Ports {
	return &Ports{ones: ones, tens: tens}
}

// Write drives both digit ports.
func (p *Ports) Write(lo, hi byte) error {
	if err := p.ones.Write(lo); err != nil {
		return fmt.Errorf("ones digit: %w", err)
	}
	if err := p.tens.Write(hi); err != nil {
		return fmt.Errorf("tens digit: %w", err)
	}
	return nil
}

// Close releases both ports.
func (p *Ports) Close() error {
	var errs []error

	if err := p.ones.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close ones port: %w", err))
	}
	if err := p.tens.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close tens port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
