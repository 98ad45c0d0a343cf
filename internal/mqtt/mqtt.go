// Package mqtt announces the device on the network: a retained ONLINE/OFFLINE
// presence message and the thermocouple readings, with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/pitboss/internal/sensor"
)

// Presence payloads published on the status topic.
const (
	Online  = "ONLINE"
	Offline = "OFFLINE"
)

// StatusTopic returns the retained presence topic for a device.
func StatusTopic(device string) string {
	return "pitboss/" + device + "/status"
}

// TemperatureTopic returns the reading telemetry topic for a device.
func TemperatureTopic(device string) string {
	return "pitboss/" + device + "/temperature"
}

// Announcer publishes presence and readings.
type Announcer interface {
	// Start begins announcing. It must not block on the broker.
	Start() error

	// Stop withdraws the announcement and disconnects without waiting on
	// the broker.
	Stop() error

	// PublishReading sends a reading, or queues it while the broker link
	// is down. Returns error if publishing fails (should not crash the process).
	PublishReading(r sensor.Reading, at time.Time) error

	// IsConnected reports whether the broker link is up.
	IsConnected() bool
}

// ReadingPayload is the JSON body published on the temperature topic.
type ReadingPayload struct {
	Timestamp     string  `json:"timestamp"`
	ColdJunctionC float64 `json:"coldJunctionC"`
	HotJunctionC  float64 `json:"hotJunctionC"`
	HotJunctionF  float64 `json:"hotJunctionF"`
}

// FormatReading creates the JSON payload for a reading.
func FormatReading(r sensor.Reading, at time.Time) ([]byte, error) {
	return json.Marshal(ReadingPayload{
		Timestamp:     at.UTC().Format(time.RFC3339),
		ColdJunctionC: r.ColdJunctionC,
		HotJunctionC:  r.HotJunctionC,
		HotJunctionF:  sensor.CelsiusToFahrenheit(r.HotJunctionC),
	})
}
