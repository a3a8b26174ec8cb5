package gpio

import "errors"

// FakeReader is a test double that returns scripted button samples.
type FakeReader struct {
	// Samples contains scripted button states to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Sample represents a single poll of the three buttons (already in logical
// pressed form).
type Sample struct {
	StartStop bool
	Swap      bool
	Reset     bool
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (bool, bool, bool, error) {
	if f.ReadError != nil {
		return false, false, false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, false, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.StartStop, sample.Swap, sample.Reset, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakePort records every pattern written to it.
type FakePort struct {
	// Patterns contains all written patterns in order.
	Patterns []byte

	// Closed tracks if Close was called.
	Closed bool

	// WriteError, if set, will be returned by Write().
	WriteError error
}

// NewFakePort creates an empty FakePort.
func NewFakePort() *FakePort {
	return &FakePort{}
}

// Write records the pattern.
func (f *FakePort) Write(pattern byte) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Patterns = append(f.Patterns, pattern)
	return nil
}

// Close marks the port as closed.
func (f *FakePort) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently written pattern, or 0 if none.
func (f *FakePort) Last() byte {
	if len(f.Patterns) == 0 {
		return 0
	}
	return f.Patterns[len(f.Patterns)-1]
}
