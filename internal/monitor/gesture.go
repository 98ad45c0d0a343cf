package monitor

import (
	"github.com/sweeney/pitboss/internal/logic"
	"github.com/sweeney/pitboss/internal/tick"
)

// Gesture is a request produced by the power button.
type Gesture string

const (
	// GestureWake asks for the screen to turn on.
	GestureWake Gesture = "WAKE"
	// GestureSleepArmed reports that releasing now will sleep the device.
	GestureSleepArmed Gesture = "SLEEP_ARMED"
	// GestureSleep asks for deep sleep.
	GestureSleep Gesture = "SLEEP"
	// GestureRestart asks for a factory reset and restart.
	GestureRestart Gesture = "RESTART"
)

// GestureTimer is the classifier's state.
type GestureTimer struct {
	Pressing   bool
	PressStart tick.Millis
	SleepArmed bool
	// LongFired is set once a restart has been requested for this press.
	LongFired bool
}

// ButtonGesture classifies debounced button samples into gestures.
type ButtonGesture struct {
	shortHoldMs uint32
	longHoldMs  uint32
	timer       GestureTimer
}

// NewButtonGesture creates a classifier. Holding for shortHoldMs arms sleep;
// holding for longHoldMs requests a restart.
func NewButtonGesture(shortHoldMs, longHoldMs uint32) *ButtonGesture {
	return &ButtonGesture{shortHoldMs: shortHoldMs, longHoldMs: longHoldMs}
}

// Update consumes one debounced sample and returns the gestures it produced,
// in order. displayOff is the display power state at the time of the sample.
//
// A press that was already down when the debouncer baselined never counts:
// only a press edge starts the hold timer.
func (g *ButtonGesture) Update(s logic.Sample, displayOff bool) []Gesture {
	var out []Gesture

	switch s.Edge {
	case logic.EdgePress:
		g.timer = GestureTimer{Pressing: true, PressStart: s.Since}
		if displayOff {
			out = append(out, GestureWake)
		}
	case logic.EdgeRelease:
		if g.timer.SleepArmed {
			out = append(out, GestureSleep)
		}
		g.timer = GestureTimer{}
		return out
	}

	if !g.timer.Pressing || g.timer.LongFired {
		return out
	}

	held := s.Now.Since(g.timer.PressStart)
	switch {
	case held >= g.longHoldMs:
		// Long hold wins over sleep-arm when both thresholds pass at once.
		g.timer.LongFired = true
		g.timer.SleepArmed = false
		out = append(out, GestureRestart)
	case held >= g.shortHoldMs && !g.timer.SleepArmed:
		g.timer.SleepArmed = true
		out = append(out, GestureSleepArmed)
	}
	return out
}

// Timer returns a copy of the classifier state.
func (g *ButtonGesture) Timer() GestureTimer {
	return g.timer
}
