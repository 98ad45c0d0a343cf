package monitor

import (
	"github.com/sweeney/pitboss/internal/fsm"
	"github.com/sweeney/pitboss/internal/tick"
)

// DisplayState is the display power machine's state.
type DisplayState string

const (
	DisplayOn  DisplayState = "ON"
	DisplayOff DisplayState = "OFF"
)

// Display owns the screen inactivity timer.
type Display struct {
	timeoutMs uint32
	machine   *fsm.Machine[DisplayState]
	onAt      tick.Millis
}

// NewDisplay creates a monitor resting in Off. A timeout of 0 keeps the
// screen on until it is put to sleep explicitly.
func NewDisplay(timeoutMs uint32) *Display {
	return &Display{
		timeoutMs: timeoutMs,
		machine:   fsm.New(DisplayOff),
	}
}

// Setup turns the screen on.
func (d *Display) Setup(now tick.Millis) {
	d.Wake(now)
}

// Wake forces On. Waking an already-on screen re-enters On but leaves the
// inactivity timer running from the original Off->On transition.
func (d *Display) Wake(now tick.Millis) {
	if d.machine.Current() == DisplayOff {
		d.onAt = now
	}
	d.machine.TransitionTo(DisplayOn)
}

// Sleep forces Off.
func (d *Display) Sleep() {
	d.machine.TransitionTo(DisplayOff)
}

// Tick applies the inactivity timeout and reports whether the screen may be
// drawn this tick. An off screen stays off until woken.
func (d *Display) Tick(now tick.Millis) bool {
	if d.machine.Current() == DisplayOff {
		return false
	}
	if d.timeoutMs != 0 && now.Since(d.onAt) >= d.timeoutMs {
		d.machine.TransitionTo(DisplayOff)
		return false
	}
	return true
}

// State returns the current state.
func (d *Display) State() DisplayState { return d.machine.Current() }

// Previous returns the state before the last transition.
func (d *Display) Previous() DisplayState { return d.machine.Previous() }

// OnEnter registers fn for state.
func (d *Display) OnEnter(state DisplayState, fn fsm.Listener[DisplayState]) fsm.Handle[DisplayState] {
	return d.machine.OnEnter(state, fn)
}
