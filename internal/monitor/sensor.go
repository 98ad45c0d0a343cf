package monitor

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/pitboss/internal/fsm"
	"github.com/sweeney/pitboss/internal/sensor"
	"github.com/sweeney/pitboss/internal/tick"
)

// SensorState is the sensor machine's state.
type SensorState string

const (
	SensorError SensorState = "ERROR"
	SensorReady SensorState = "READY"
)

// Sensor polls the thermocouple driver on a fixed interval.
type Sensor struct {
	driver       sensor.Driver
	intervalMs   uint32
	startupDelay time.Duration
	machine      *fsm.Machine[SensorState]

	// Verbose logs every successful reading.
	Verbose bool

	lastPoll tick.Millis
	reading  sensor.Reading
	lastErr  error
	polls    int
}

// NewSensor creates a monitor resting in Error until the boot probe runs.
func NewSensor(d sensor.Driver, intervalMs uint32, startupDelay time.Duration) *Sensor {
	return &Sensor{
		driver:       d,
		intervalMs:   intervalMs,
		startupDelay: startupDelay,
		machine:      fsm.New(SensorError),
	}
}

// Setup waits out the sensor warm-up and then probes it once. The probe
// always transitions, so listeners learn the initial state. It returns
// ctx.Err() if the context ends during warm-up.
func (s *Sensor) Setup(ctx context.Context, now func() tick.Millis) error {
	log.Printf("sensor: initialized, waiting %v for stabilization before verifying operation", s.startupDelay)
	if s.startupDelay > 0 {
		t := time.NewTimer(s.startupDelay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}

	s.lastPoll = now()
	r, err := s.driver.Read()
	s.polls++
	if err != nil {
		s.lastErr = err
		log.Printf("sensor: initialization failed: %v", err)
		s.machine.TransitionTo(SensorError)
		return nil
	}
	s.reading = r
	s.machine.TransitionTo(SensorReady)
	return nil
}

// Tick reads the sensor when the poll interval has elapsed and reports
// whether a poll completed.
func (s *Sensor) Tick(now tick.Millis) bool {
	if now.Since(s.lastPoll) < s.intervalMs {
		return false
	}
	s.lastPoll = now
	s.polls++

	r, err := s.driver.Read()
	if err != nil {
		s.lastErr = err
		if s.machine.Current() == SensorReady {
			log.Printf("sensor: read failed: %v; will continue polling for reconnection", err)
			s.machine.TransitionTo(SensorError)
		}
		return true
	}

	s.reading = r
	s.lastErr = nil
	if s.Verbose {
		log.Printf("sensor: cold=%.2fC hot=%.2fC", r.ColdJunctionC, r.HotJunctionC)
	}
	if s.machine.Current() == SensorError {
		log.Printf("sensor: thermocouple has been reconnected")
		s.machine.TransitionTo(SensorReady)
	}
	return true
}

// Reading returns the reading from the most recent successful poll.
func (s *Sensor) Reading() sensor.Reading { return s.reading }

// Err returns the error from the most recent poll, or nil if it succeeded.
func (s *Sensor) Err() error { return s.lastErr }

// Polls returns the number of completed polls, including the boot probe.
func (s *Sensor) Polls() int { return s.polls }

// State returns the current state.
func (s *Sensor) State() SensorState { return s.machine.Current() }

// Previous returns the state before the last transition.
func (s *Sensor) Previous() SensorState { return s.machine.Previous() }

// OnEnter registers fn for state.
func (s *Sensor) OnEnter(state SensorState, fn fsm.Listener[SensorState]) fsm.Handle[SensorState] {
	return s.machine.OnEnter(state, fn)
}
