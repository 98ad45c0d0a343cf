package gpio

import "errors"

// FakeButton is a test double that returns scripted button levels.
type FakeButton struct {
	// Samples contains scripted levels to return.
	// Each call to Pressed() consumes the next sample.
	Samples []bool

	// Level is returned once Samples is exhausted.
	Level bool

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Pressed()
	ReadError error
}

// NewFakeButton creates a FakeButton with the given samples.
func NewFakeButton(samples ...bool) *FakeButton {
	return &FakeButton{Samples: samples}
}

// Pressed returns the next scripted sample, then Level.
func (f *FakeButton) Pressed() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if f.index < len(f.Samples) {
		s := f.Samples[f.index]
		f.index++
		return s, nil
	}
	return f.Level, nil
}

// Close marks the button as closed.
func (f *FakeButton) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the button to the beginning of samples.
func (f *FakeButton) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeLEDs records every write.
type FakeLEDs struct {
	Writes   [][3]bool
	SetError error
	Closed   bool
}

// Set records the levels.
func (f *FakeLEDs) Set(red, green, blue bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Writes = append(f.Writes, [3]bool{red, green, blue})
	return nil
}

// Last returns the most recent write.
func (f *FakeLEDs) Last() ([3]bool, error) {
	if len(f.Writes) == 0 {
		return [3]bool{}, errors.New("no writes")
	}
	return f.Writes[len(f.Writes)-1], nil
}

// Close marks the LEDs as closed.
func (f *FakeLEDs) Close() error {
	f.Closed = true
	return nil
}
