package network

import "github.com/sweeney/pitboss/internal/tick"

// FakeProvider is a test double whose status is set directly by the test.
type FakeProvider struct {
	Saved    bool
	BeginErr error

	Status Status
	Link   Info

	// Polls counts calls to Poll.
	Polls int
	// Forgotten tracks if Forget was called.
	Forgotten bool
}

// NewFakeProvider creates a provider with saved credentials, disconnected.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{Saved: true}
}

// Begin reports the scripted init result.
func (f *FakeProvider) Begin() (bool, error) {
	return f.Saved, f.BeginErr
}

// Poll returns the scripted status.
func (f *FakeProvider) Poll(tick.Millis) Status {
	f.Polls++
	return f.Status
}

// Info returns the scripted link details.
func (f *FakeProvider) Info() Info {
	return f.Link
}

// Forget records the call.
func (f *FakeProvider) Forget() error {
	f.Forgotten = true
	return nil
}

// Connect sets the connected flag and link details.
func (f *FakeProvider) Connect(info Info) {
	f.Status.Connected = true
	f.Status.Provisioning = false
	f.Link = info
}

// Disconnect clears the connected flag and link details.
func (f *FakeProvider) Disconnect() {
	f.Status.Connected = false
	f.Link = Info{}
}
