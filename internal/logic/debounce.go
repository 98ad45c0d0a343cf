package logic

import "github.com/sweeney/pitboss/internal/tick"

// Debouncer turns raw button samples into stable levels and edges.
type Debouncer struct {
	window uint32
	ch     channelState
	counts EdgeCounts
}

// NewDebouncer creates a debouncer that accepts a level only after it has
// been observed continuously for window milliseconds.
func NewDebouncer(window uint32) *Debouncer {
	return &Debouncer{window: window}
}

// Process takes a new raw sample and returns the debounced view.
// No edge is reported until a baseline has been established; the baseline
// itself never produces an edge, so a button held through boot is not
// treated as a fresh press.
func (d *Debouncer) Process(in Input) Sample {
	level := boolToLevel(in.Pressed)
	edge := d.processChannel(level, in.Now)

	switch edge {
	case EdgePress:
		d.counts.Presses++
	case EdgeRelease:
		d.counts.Releases++
	}

	return Sample{
		Pressed: d.ch.baselined && d.ch.stable == LevelPressed,
		Edge:    edge,
		Since:   d.ch.stableSince,
		Now:     in.Now,
	}
}

func (d *Debouncer) processChannel(level Level, now tick.Millis) Edge {
	ch := &d.ch

	// First time seeing the line
	if !ch.baselined {
		if ch.pending == "" || ch.pending != level {
			ch.pending = level
			ch.pendingSince = now
		}
		if now.Since(ch.pendingSince) >= d.window {
			ch.stable = level
			ch.stableSince = ch.pendingSince
			ch.baselined = true
			ch.pending = ""
		}
		return ""
	}

	if level == ch.stable {
		ch.pending = ""
		return ""
	}

	if ch.pending != level {
		ch.pending = level
		ch.pendingSince = now
	}

	if now.Since(ch.pendingSince) >= d.window {
		ch.stable = level
		ch.stableSince = ch.pendingSince
		ch.pending = ""
		return edgeFor(level)
	}

	return ""
}

func boolToLevel(pressed bool) Level {
	if pressed {
		return LevelPressed
	}
	return LevelReleased
}

func edgeFor(to Level) Edge {
	if to == LevelPressed {
		return EdgePress
	}
	return EdgeRelease
}

// IsBaselined returns whether the debouncer has established a baseline.
func (d *Debouncer) IsBaselined() bool {
	return d.ch.baselined
}

// Counts returns the debounced edge counts.
func (d *Debouncer) Counts() EdgeCounts {
	return d.counts
}
