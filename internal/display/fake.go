package display

// FakeSink records every frame written to it.
type FakeSink struct {
	// Frames contains all written (lo, hi) pattern pairs in order.
	Frames [][2]byte

	// Closed tracks if Close was called.
	Closed bool

	// WriteError, if set, will be returned by Write.
	WriteError error
}

// NewFakeSink creates an empty FakeSink.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// Write records the frame.
func (f *FakeSink) Write(lo, hi byte) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Frames = append(f.Frames, [2]byte{lo, hi})
	return nil
}

// Close marks the sink as closed.
func (f *FakeSink) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent frame, or blanks if nothing was written.
func (f *FakeSink) Last() (lo, hi byte) {
	if len(f.Frames) == 0 {
		return Blank, Blank
	}
	frame := f.Frames[len(f.Frames)-1]
	return frame[0], frame[1]
}
