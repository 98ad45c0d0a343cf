// Package gpio provides button input, status LED output and SPI lines with
// hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Button reads the power button line.
type Button interface {
	// Pressed returns the logical button level.
	// The raw GPIO value is inverted: raw low = pressed (pull-up, active low).
	Pressed() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// LEDs drives the three channels of the status LED.
type LEDs interface {
	Set(red, green, blue bool) error
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinButton = 17
	DefaultPinRed    = 22
	DefaultPinGreen  = 23
	DefaultPinBlue   = 24
	DefaultPinCS     = 8
	DefaultPinSCK    = 11
	DefaultPinMISO   = 9
)

// DefaultChip is the GPIO chip on a Raspberry Pi.
const DefaultChip = "gpiochip0"
