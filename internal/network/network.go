// Package network reports link state for the connectivity monitor.
// The host's network manager (pi-helper) owns association, retry and the
// captive portal; this package only observes what it publishes.
package network

import "github.com/sweeney/pitboss/internal/tick"

// Status is one observation of the link.
type Status struct {
	// Connected is the provider's "is currently connected" flag.
	Connected bool
	// Provisioning is set while the provider accepts new credentials.
	Provisioning bool
	// Err is set when the provider has failed in a way it cannot recover from.
	Err error
}

// Info describes the active link. Fields are empty when disconnected.
type Info struct {
	Address       string
	SSID          string
	SignalQuality int // percent
}

// Provider is the connectivity collaborator.
type Provider interface {
	// Begin initializes the provider and reports whether network
	// credentials have been saved.
	Begin() (saved bool, err error)

	// Poll returns the current link status. It must not block.
	Poll(now tick.Millis) Status

	// Info returns details of the current link.
	Info() Info

	// Forget erases saved credentials.
	Forget() error
}

// SignalQuality converts an RSSI in dBm into a 0-100 quality percentage.
func SignalQuality(rssi int) int {
	switch {
	case rssi <= -100:
		return 0
	case rssi >= -50:
		return 100
	default:
		return 2 * (rssi + 100)
	}
}
