package monitor

import "github.com/sweeney/pitboss/internal/fsm"

// IndicatorState is the status LED machine's state.
type IndicatorState string

const (
	IndicatorWaiting IndicatorState = "WAITING"
	IndicatorError   IndicatorState = "ERROR"
	IndicatorReady   IndicatorState = "READY"
)

// Indicator mirrors the application state for the status LED. It has no
// timers; the waveform belongs to the LED driver.
type Indicator struct {
	machine *fsm.Machine[IndicatorState]
}

// NewIndicator creates an indicator resting in Waiting.
func NewIndicator() *Indicator {
	return &Indicator{machine: fsm.New(IndicatorWaiting)}
}

// Waiting shows that the device is booting or looking for a network.
func (i *Indicator) Waiting() { i.machine.TransitionTo(IndicatorWaiting) }

// Error shows a fatal or sensor fault.
func (i *Indicator) Error() { i.machine.TransitionTo(IndicatorError) }

// Ready shows that readings are being served.
func (i *Indicator) Ready() { i.machine.TransitionTo(IndicatorReady) }

// State returns the current state.
func (i *Indicator) State() IndicatorState { return i.machine.Current() }

// OnEnter registers fn for state.
func (i *Indicator) OnEnter(state IndicatorState, fn fsm.Listener[IndicatorState]) fsm.Handle[IndicatorState] {
	return i.machine.OnEnter(state, fn)
}
