package display

import (
	"fmt"

	"github.com/kou-tkbys/ht16k33"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// HT16K33 drives a two-digit seven-segment backpack over I2C. The
// controller is addressed by digit value rather than raw pattern, so
// patterns are reverse-mapped through the segment table before writing.
// The full-on lamp test therefore shows "8." on both digits, the
// conventional lamp test for digit-addressed drivers.
type HT16K33 struct {
	bus     i2c.BusCloser
	dev     ht16k33.Device
	last    [2]byte
	written bool
}

// NewHT16K33 opens the named I2C bus ("" selects the first available),
// registers host drivers, and configures the controller at addr.
func NewHT16K33(busName string, addr uint8, brightness uint8) (*HT16K33, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	// The driver swallows Tx errors; a missing or misaddressed device shows
	// up as a dark display, not a returned error.
	dev := ht16k33.New(bus, addr)
	dev.Configure()
	dev.SetBrightness(brightness)

	return &HT16K33{bus: bus, dev: dev}, nil
}

// Write maps the patterns to digits and pushes the frame. Unchanged frames
// are skipped to keep I2C traffic down.
func (h *HT16K33) Write(lo, hi byte) error {
	if h.written && h.last == [2]byte{lo, hi} {
		return nil
	}

	h.dev.SetDigitOnDisplay(0, 0, '0'+rune(DigitForPattern(hi)), hi&0x80 != 0)
	h.dev.SetDigitOnDisplay(0, 1, '0'+rune(DigitForPattern(lo)), lo&0x80 != 0)
	h.dev.Display()

	h.last = [2]byte{lo, hi}
	h.written = true
	return nil
}

// Close blanks the display and releases the bus.
func (h *HT16K33) Close() error {
	h.dev.ClearAll()
	h.dev.Display()
	if err := h.bus.Close(); err != nil {
		return fmt.Errorf("close i2c bus: %w", err)
	}
	return nil
}
