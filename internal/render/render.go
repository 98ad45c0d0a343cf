// Package render turns the coordinator's display view into frames and paints
// them on a panel at a bounded frame rate.
package render

import (
	"fmt"
	"math"

	"github.com/sweeney/pitboss/internal/tick"
)

// FrameInterval is the minimum time between two painted frames.
const FrameInterval = 100

// Link states understood by Frame. They match the connectivity monitor's
// state names.
const (
	LinkError        = "ERROR"
	LinkDisconnected = "DISCONNECTED"
	LinkProvisioning = "PROVISIONING"
	LinkConnected    = "CONNECTED"
)

// View is the already-computed state the screen shows.
type View struct {
	Link          string
	Address       string
	NetworkName   string
	SignalQuality int

	// SensorReady gates the temperature; HotJunctionF is only drawn when set.
	SensorReady  bool
	HotJunctionF float64

	// Clock is the formatted wall time, empty until time is configured.
	Clock string
}

// Panel paints text frames.
type Panel interface {
	Show(lines []string) error
	Clear() error
}

// Frame lays out a view as text lines.
func Frame(v View) []string {
	var lines []string
	switch v.Link {
	case LinkConnected:
		lines = append(lines,
			v.Address,
			v.NetworkName,
			fmt.Sprintf("Signal: %d%%", v.SignalQuality),
		)
	case LinkDisconnected:
		lines = append(lines, "Connecting...")
	case LinkProvisioning:
		lines = append(lines, "WiFi config portal active...")
	case LinkError:
		lines = append(lines, "WiFi failed to initialize...")
	}
	if v.SensorReady {
		lines = append(lines, fmt.Sprintf("%.0f F", math.Round(v.HotJunctionF)))
	}
	if v.Clock != "" {
		lines = append(lines, v.Clock)
	}
	return lines
}

// Renderer throttles painting to FrameInterval.
type Renderer struct {
	panel     Panel
	lastFrame tick.Millis
	painted   bool
	frames    int
}

// New creates a Renderer that paints on p.
func New(p Panel) *Renderer {
	return &Renderer{panel: p}
}

// Render paints v if at least FrameInterval has passed since the previous
// frame. It reports whether a frame was painted.
func (r *Renderer) Render(now tick.Millis, v View) (bool, error) {
	if r.painted && now.Since(r.lastFrame) < FrameInterval {
		return false, nil
	}
	r.lastFrame = now
	r.painted = true
	if err := r.panel.Show(Frame(v)); err != nil {
		return false, fmt.Errorf("render: %w", err)
	}
	r.frames++
	return true, nil
}

// Clear blanks the panel. The next Render paints immediately.
func (r *Renderer) Clear() error {
	r.painted = false
	if err := r.panel.Clear(); err != nil {
		return fmt.Errorf("render: clear: %w", err)
	}
	return nil
}

// Frames returns the number of frames painted.
func (r *Renderer) Frames() int {
	return r.frames
}
