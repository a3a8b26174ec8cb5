package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleRendersZeroZero(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	if err := c.Write(Pattern(0), Pattern(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "\033[2K _   _ \n" +
		"\033[2K| | | |\n" +
		"\033[2K|_| |_|\n"
	if got := buf.String(); got != want {
		t.Errorf("frame mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestConsoleRendersOne(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	// 01: tens shows 0, ones shows 1.
	if err := c.Write(Pattern(1), Pattern(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "\033[2K _     \n" +
		"\033[2K| |   |\n" +
		"\033[2K|_|   |\n"
	if got := buf.String(); got != want {
		t.Errorf("frame mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestConsoleSkipsIdenticalFrames(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Write(Pattern(4), Pattern(2))
	n := buf.Len()

	if err := c.Write(Pattern(4), Pattern(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != n {
		t.Errorf("identical frame was redrawn: %d bytes added", buf.Len()-n)
	}
}

func TestConsoleRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Write(Pattern(0), Pattern(0))
	c.Write(Pattern(1), Pattern(0))

	out := buf.String()
	if strings.Count(out, "\033[3A") != 1 {
		t.Errorf("expected exactly one cursor-up sequence, got %d", strings.Count(out, "\033[3A"))
	}
	if !strings.HasSuffix(out, "|_|   |\n") {
		t.Errorf("expected second frame last, got %q", out)
	}
}
