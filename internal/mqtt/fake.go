package mqtt

import (
	"time"

	"github.com/sweeney/pitboss/internal/sensor"
)

// FakeAnnouncer records calls for test assertions.
type FakeAnnouncer struct {
	// Starts and Stops count lifecycle calls.
	Starts int
	Stops  int

	// Readings contains all readings that were published.
	Readings []sensor.Reading

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// StartError, if set, will be returned by Start.
	StartError error

	// PublishError, if set, will be returned by PublishReading.
	PublishError error

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakeAnnouncer creates a FakeAnnouncer for testing.
func NewFakeAnnouncer() *FakeAnnouncer {
	return &FakeAnnouncer{}
}

// Start records the call.
func (f *FakeAnnouncer) Start() error {
	f.Starts++
	return f.StartError
}

// Stop records the call.
func (f *FakeAnnouncer) Stop() error {
	f.Stops++
	return nil
}

// PublishReading records the reading.
func (f *FakeAnnouncer) PublishReading(r sensor.Reading, at time.Time) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatReading(r, at)
	if err != nil {
		return err
	}
	f.Readings = append(f.Readings, r)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// IsConnected reports whether the fake announcer is "connected".
func (f *FakeAnnouncer) IsConnected() bool {
	return f.Connected
}

// Running reports whether Start has been called more often than Stop.
func (f *FakeAnnouncer) Running() bool {
	return f.Starts > f.Stops
}
