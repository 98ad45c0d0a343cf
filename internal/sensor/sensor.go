// Package sensor reads thermocouple junction temperatures.
// The MAX31855 driver bit-bangs SPI over GPIO lines; the Modbus driver talks
// to a thermocouple transmitter over Modbus TCP. The fake allows testing
// without hardware.
package sensor

import "errors"

// Reading is one successful poll of both junctions, in degrees Celsius.
type Reading struct {
	ColdJunctionC float64
	HotJunctionC  float64
}

// Driver performs one sensor poll.
type Driver interface {
	// Read returns both junction temperatures or an error describing why
	// the poll failed. A failed read never returns a partial Reading.
	Read() (Reading, error)

	// Close releases driver resources.
	Close() error
}

var (
	// ErrNoDevice means the converter did not answer (bus floating or unpowered).
	ErrNoDevice = errors.New("sensor: no device on bus")
	// ErrColdJunction means the reference temperature could not be read.
	ErrColdJunction = errors.New("sensor: unable to read cold junction temperature")
	// ErrOpenCircuit means no thermocouple is plugged in.
	ErrOpenCircuit = errors.New("sensor: thermocouple open circuit")
	// ErrShortGND means the thermocouple is shorted to ground.
	ErrShortGND = errors.New("sensor: thermocouple shorted to GND")
	// ErrShortVCC means the thermocouple is shorted to VCC.
	ErrShortVCC = errors.New("sensor: thermocouple shorted to VCC")
)

// CelsiusToFahrenheit converts a temperature for display.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9.0/5.0 + 32
}
