// Package app contains the Coordinator: the root of the device that owns
// every monitor, derives the application state from them and drives the
// collaborators that reflect it.
package app

import (
	"errors"
	"time"

	"github.com/sweeney/pitboss/internal/monitor"
	"github.com/sweeney/pitboss/internal/sensor"
)

// State is the application state.
type State string

const (
	Booting      State = "BOOTING"
	Provisioning State = "PROVISIONING"
	Disconnected State = "DISCONNECTED"
	Ready        State = "READY"
	FatalError   State = "FATAL_ERROR"
	SensorError  State = "SENSOR_ERROR"
)

// Terminal requests returned by Tick. The power primitive has already been
// invoked when they are returned.
var (
	ErrSleepRequested   = errors.New("sleep requested")
	ErrRestartRequested = errors.New("restart requested")
)

// Derive maps the monitor states to an application state. FatalError, once
// entered, is held by the Coordinator and never re-derived.
func Derive(conn monitor.ConnState, s monitor.SensorState) State {
	switch {
	case conn == monitor.ConnError:
		return FatalError
	case s == monitor.SensorError:
		return SensorError
	case conn == monitor.ConnProvisioning:
		return Provisioning
	case conn == monitor.ConnDisconnected:
		return Disconnected
	default:
		return Ready
	}
}

// Surface is the HTTP status surface.
type Surface interface {
	Start() error
	Stop() error
}

// Announcer is the outward network announcement.
type Announcer interface {
	Start() error
	Stop() error
	PublishReading(r sensor.Reading, at time.Time) error
	IsConnected() bool
}
