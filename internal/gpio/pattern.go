package gpio

import (
	"log"

	"github.com/sweeney/pitboss/internal/tick"
)

// Pattern is a status LED waveform.
type Pattern string

const (
	PatternOff Pattern = "OFF"
	// PatternWaiting breathes all three channels at slightly different
	// periods so the colour drifts.
	PatternWaiting Pattern = "WAITING"
	// PatternError holds red on.
	PatternError Pattern = "ERROR"
	// PatternReady breathes green slowly.
	PatternReady Pattern = "READY"
)

// Breathing periods in milliseconds. The lines are digital, so a breath is a
// 50% duty square wave of the period.
const (
	waitingRedMs   = 900
	waitingGreenMs = 1000
	waitingBlueMs  = 1100
	readyGreenMs   = 5000
)

// Levels returns the channel levels of p after elapsed milliseconds.
func Levels(p Pattern, elapsed uint32) (red, green, blue bool) {
	switch p {
	case PatternWaiting:
		return breathe(elapsed, waitingRedMs), breathe(elapsed, waitingGreenMs), breathe(elapsed, waitingBlueMs)
	case PatternError:
		return true, false, false
	case PatternReady:
		return false, breathe(elapsed, readyGreenMs), false
	}
	return false, false, false
}

func breathe(elapsed, period uint32) bool {
	return elapsed%period < period/2
}

// Driver plays patterns on an LED. Update must be called every tick.
type Driver struct {
	leds    LEDs
	pattern Pattern
	start   tick.Millis
	now     tick.Millis
	written [3]bool
	valid   bool
}

// NewDriver creates a driver with the LED off.
func NewDriver(leds LEDs) *Driver {
	return &Driver{leds: leds, pattern: PatternOff}
}

// Show switches to pattern p, restarting its waveform.
func (d *Driver) Show(p Pattern) {
	d.pattern = p
	d.start = d.now
	d.write(d.now)
}

// Update advances the waveform to now and writes the lines if they change.
func (d *Driver) Update(now tick.Millis) {
	d.now = now
	d.write(now)
}

// Pattern returns the pattern being played.
func (d *Driver) Pattern() Pattern {
	return d.pattern
}

func (d *Driver) write(now tick.Millis) {
	r, g, b := Levels(d.pattern, now.Since(d.start))
	next := [3]bool{r, g, b}
	if d.valid && next == d.written {
		return
	}
	if err := d.leds.Set(r, g, b); err != nil {
		log.Printf("gpio: led write error: %v", err)
		return
	}
	d.written = next
	d.valid = true
}
