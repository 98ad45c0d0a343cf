// Package logic contains pure input-conditioning logic for the power button.
// This package has NO external dependencies (no GPIO, OS, or time.Sleep).
// Time is always injectable via tick.Millis parameters.
package logic

import "github.com/sweeney/pitboss/internal/tick"

// Level is the logical level of the button.
type Level string

const (
	LevelPressed  Level = "PRESSED"
	LevelReleased Level = "RELEASED"
)

// Edge is a debounced level change.
type Edge string

const (
	EdgePress   Edge = "PRESS"
	EdgeRelease Edge = "RELEASE"
)

// Input is a single raw sample of the button.
type Input struct {
	Pressed bool // true = pressed (already inverted from raw GPIO)
	Now     tick.Millis
}

// Sample is the debounced view of the button after one Input.
type Sample struct {
	// Pressed is the stable level.
	Pressed bool
	// Edge is set on the sample where the stable level changed.
	Edge Edge
	// Since is when the stable level was last entered.
	Since tick.Millis
	// Now echoes the input time.
	Now tick.Millis
}

// HeldFor returns how long the button has been stably pressed, or 0.
func (s Sample) HeldFor() uint32 {
	if !s.Pressed {
		return 0
	}
	return s.Now.Since(s.Since)
}

// channelState tracks debounce state for the button line.
type channelState struct {
	// Current stable (debounced) level
	stable Level
	// Pending level during debounce
	pending Level
	// Time when pending level was first observed
	pendingSince tick.Millis
	// Time when the stable level was entered
	stableSince tick.Millis
	// Whether we have established a baseline
	baselined bool
}

// EdgeCounts tracks the number of debounced edges since startup.
type EdgeCounts struct {
	Presses  int
	Releases int
}
