// Package status provides a thread-safe status tracker for the pitboss daemon.
// The tick loop writes it; HTTP handlers read it from their own goroutines.
package status

import (
	"runtime"
	"sync"
	"time"
)

// DateTimeLayout is the wall-clock format shown on the display and served
// by /temperature.
const DateTimeLayout = "2006-01-02 03:04:05 PM"

// Connectivity is the link view. This is a local copy to avoid importing
// internal/monitor from status.
type Connectivity struct {
	State         string
	Address       string
	SSID          string
	SignalQuality int
}

// Sensor is the thermocouple view. The temperatures are the last good
// reading and are kept while the sensor is in error; Err carries the reason.
type Sensor struct {
	State         string
	ColdJunctionC float64
	HotJunctionC  float64
	HasReading    bool
	Err           string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Application        string
	Connectivity       Connectivity
	Sensor             Sensor
	AnnouncerConnected bool
	Broker             string
	DeviceName         string
	StartTime          time.Time
	Now                time.Time
	HeapFree           uint64

	// Location is the wall-clock zone Now is reported in. Nil means local.
	Location *time.Location
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time, device name and
// broker URL.
func NewTracker(startTime time.Time, deviceName, broker string) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime:  startTime,
			DeviceName: deviceName,
			Broker:     broker,
		},
	}
}

// SetApplication records the derived application state.
func (t *Tracker) SetApplication(state string) {
	t.mu.Lock()
	t.snap.Application = state
	t.mu.Unlock()
}

// SetConnectivity records the link view.
func (t *Tracker) SetConnectivity(c Connectivity) {
	t.mu.Lock()
	t.snap.Connectivity = c
	t.mu.Unlock()
}

// SetSensor records the thermocouple view.
func (t *Tracker) SetSensor(s Sensor) {
	t.mu.Lock()
	t.snap.Sensor = s
	t.mu.Unlock()
}

// SetLocation sets the zone wall-clock times are reported in.
func (t *Tracker) SetLocation(loc *time.Location) {
	t.mu.Lock()
	t.snap.Location = loc
	t.mu.Unlock()
}

// SetAnnouncerConnected sets the MQTT connection status.
func (t *Tracker) SetAnnouncerConnected(connected bool) {
	t.mu.Lock()
	t.snap.AnnouncerConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// Now and HeapFree are sampled at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	if s.Location != nil {
		s.Now = s.Now.In(s.Location)
	}
	s.HeapFree = heapFree()
	return s
}

func heapFree() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapSys < ms.HeapAlloc {
		return 0
	}
	return ms.HeapSys - ms.HeapAlloc
}
