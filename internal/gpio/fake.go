package gpio

import "errors"

// FakeReader is a test double that returns scripted signal samples.
type FakeReader struct {
	// Samples contains scripted values to return.
	// Each call to Read() consumes the next sample.
	Samples []Signals

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Signals) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (Signals, error) {
	if f.ReadError != nil {
		return Signals{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return Signals{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// RGB is one recorded indicator colour.
type RGB struct {
	R, G, B uint8
}

// FakeLEDs records indicator writes.
type FakeLEDs struct {
	Powered bool
	Colours []RGB
	Closed  bool

	// Err, if set, is returned by SetPower and SetRGB.
	Err error
}

// SetPower records the supply state.
func (f *FakeLEDs) SetPower(on bool) error {
	if f.Err != nil {
		return f.Err
	}
	f.Powered = on
	return nil
}

// SetRGB records the colour.
func (f *FakeLEDs) SetRGB(r, g, b uint8) error {
	if f.Err != nil {
		return f.Err
	}
	f.Colours = append(f.Colours, RGB{r, g, b})
	return nil
}

// Close marks the indicator as closed.
func (f *FakeLEDs) Close() error {
	f.Closed = true
	f.Powered = false
	return nil
}

// Last returns the most recent colour, or zero if none was set.
func (f *FakeLEDs) Last() RGB {
	if len(f.Colours) == 0 {
		return RGB{}
	}
	return f.Colours[len(f.Colours)-1]
}
