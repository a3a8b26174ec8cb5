package display

import (
	"fmt"
	"io"
	"strings"
)

// Console renders the two digits as three-row ASCII art on a terminal,
// redrawing in place with ANSI cursor movement. Repeated identical frames
// are skipped so an idle clock does not scroll or flicker.
type Console struct {
	w       io.Writer
	last    [2]byte
	written bool
}

// NewConsole creates a console sink writing to w (usually os.Stdout).
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// renderDigit returns the three rows of ASCII art for one segment pattern.
func renderDigit(pattern byte) [3]string {
	pick := func(bit uint, on string) string {
		if pattern&(1<<bit) != 0 {
			return on
		}
		return " "
	}
	return [3]string{
		" " + pick(0, "_") + " ",
		pick(5, "|") + pick(6, "_") + pick(1, "|"),
		pick(4, "|") + pick(3, "_") + pick(2, "|"),
	}
}

// Write draws the frame, replacing the previous one.
func (c *Console) Write(lo, hi byte) error {
	if c.written && c.last == [2]byte{lo, hi} {
		return nil
	}

	tens := renderDigit(hi)
	ones := renderDigit(lo)

	var b strings.Builder
	if c.written {
		// Move back over the previous three rows.
		b.WriteString("\033[3A")
	}
	for row := 0; row < 3; row++ {
		b.WriteString("\033[2K")
		b.WriteString(tens[row])
		b.WriteString(" ")
		b.WriteString(ones[row])
		b.WriteString("\n")
	}

	if _, err := io.WriteString(c.w, b.String()); err != nil {
		return fmt.Errorf("console write: %w", err)
	}

	c.last = [2]byte{lo, hi}
	c.written = true
	return nil
}

// Close leaves the last frame on screen.
func (c *Console) Close() error { return nil }
