package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/pitboss/internal/config"
	"github.com/sweeney/pitboss/internal/fsm"
	"github.com/sweeney/pitboss/internal/gpio"
	"github.com/sweeney/pitboss/internal/logic"
	"github.com/sweeney/pitboss/internal/monitor"
	"github.com/sweeney/pitboss/internal/network"
	"github.com/sweeney/pitboss/internal/power"
	"github.com/sweeney/pitboss/internal/render"
	"github.com/sweeney/pitboss/internal/sensor"
	"github.com/sweeney/pitboss/internal/status"
	"github.com/sweeney/pitboss/internal/tick"
)

// Deps are the collaborators the Coordinator drives. Surface, Announcer and
// Tracker may be nil; everything else is required.
type Deps struct {
	Network network.Provider
	Sensor  sensor.Driver
	Button  gpio.Button
	LEDs    gpio.LEDs
	Panel   render.Panel
	Power   power.Controller

	Surface   Surface
	Announcer Announcer
	Tracker   *status.Tracker

	// Now returns wall time. Defaults to time.Now.
	Now func() time.Time
}

// Coordinator owns the monitors and derives the application state. It is
// not safe for concurrent use: Setup and Tick run on one goroutine.
type Coordinator struct {
	deps     Deps
	location *time.Location
	machine  *fsm.Machine[State]

	conn      *monitor.Connectivity
	sensor    *monitor.Sensor
	display   *monitor.Display
	indicator *monitor.Indicator
	gesture   *monitor.ButtonGesture
	debouncer *logic.Debouncer

	leds     *gpio.Driver
	renderer *render.Renderer

	surfaceUp  bool
	clockReady bool
	hasReading bool
	buttonErr  bool
}

// New constructs a Coordinator resting in Booting. Nothing touches hardware
// until Setup.
func New(cfg config.Config, d Deps) *Coordinator {
	if d.Now == nil {
		d.Now = time.Now
	}
	c := &Coordinator{
		deps:      d,
		location:  cfg.Location(),
		machine:   fsm.New(Booting),
		conn:      monitor.NewConnectivity(d.Network),
		sensor:    monitor.NewSensor(d.Sensor, cfg.ThermocoupleReadInterval, tick.Duration(cfg.ThermocoupleStartupDelay)),
		display:   monitor.NewDisplay(cfg.ScreenTimeout),
		indicator: monitor.NewIndicator(),
		gesture:   monitor.NewButtonGesture(cfg.SleepHold, cfg.ResetHold),
		debouncer: logic.NewDebouncer(cfg.ButtonDebounce),
		leds:      gpio.NewDriver(d.LEDs),
		renderer:  render.New(d.Panel),
	}
	c.sensor.Verbose = cfg.LogLevel >= config.LogVerbose
	c.subscribe()
	return c
}

// subscribe wires listeners outward-in: monitors never reference the
// Coordinator.
func (c *Coordinator) subscribe() {
	c.indicator.OnEnter(monitor.IndicatorWaiting, func(_, _ monitor.IndicatorState) { c.leds.Show(gpio.PatternWaiting) })
	c.indicator.OnEnter(monitor.IndicatorError, func(_, _ monitor.IndicatorState) { c.leds.Show(gpio.PatternError) })
	c.indicator.OnEnter(monitor.IndicatorReady, func(_, _ monitor.IndicatorState) { c.leds.Show(gpio.PatternReady) })

	for _, s := range []State{Booting, Provisioning, Disconnected} {
		c.machine.OnEnter(s, func(_, _ State) { c.indicator.Waiting() })
	}
	for _, s := range []State{FatalError, SensorError} {
		c.machine.OnEnter(s, func(_, _ State) { c.indicator.Error() })
	}
	c.machine.OnEnter(Ready, func(_, _ State) { c.indicator.Ready() })

	for _, s := range []State{Booting, Provisioning, Disconnected, Ready, FatalError, SensorError} {
		c.machine.OnEnter(s, func(from, to State) {
			log.Printf("app: %s -> %s", from, to)
			if c.deps.Tracker != nil {
				c.deps.Tracker.SetApplication(string(to))
			}
		})
	}

	c.machine.OnEnter(Ready, func(_, _ State) {
		c.startClock()
		c.startSurfaces()
	})
	c.machine.OnEnter(FatalError, func(_, _ State) { c.stopSurfaces() })
	// Losing the link stops the surfaces whatever the sensor is doing; a
	// sensor fault can hold the application state at SensorError.
	for _, s := range []monitor.ConnState{monitor.ConnDisconnected, monitor.ConnProvisioning, monitor.ConnError} {
		c.conn.OnEnter(s, func(_, _ monitor.ConnState) { c.stopSurfaces() })
	}

	c.display.OnEnter(monitor.DisplayOn, func(from, _ monitor.DisplayState) {
		if from == monitor.DisplayOn {
			return
		}
		log.Printf("display: screen on")
		c.clearPanel()
	})
	c.display.OnEnter(monitor.DisplayOff, func(from, _ monitor.DisplayState) {
		if from == monitor.DisplayOff {
			return
		}
		log.Printf("display: screen off")
		c.clearPanel()
	})

	c.conn.OnEnter(monitor.ConnConnected, func(_, _ monitor.ConnState) {
		snap := c.conn.Snapshot()
		log.Printf("network: connected to %q as %s (signal %d%%)", snap.NetworkName, snap.Address, snap.SignalQuality)
	})
}

// Fatal forces FatalError. It is used for boot-time failures such as an
// unreadable configuration and may be called before Setup.
func (c *Coordinator) Fatal(err error) {
	log.Printf("app: fatal: %v", err)
	if c.machine.Current() != FatalError {
		c.machine.TransitionTo(FatalError)
	}
}

// Setup initializes every monitor and derives the first application state.
// It blocks for the sensor warm-up and returns ctx.Err() if ctx ends first.
// After a prior Fatal it does nothing further.
func (c *Coordinator) Setup(ctx context.Context, now func() tick.Millis) error {
	c.leds.Update(now())
	if c.machine.Current() == FatalError {
		return nil
	}

	c.machine.TransitionTo(Booting)
	c.display.Setup(now())
	c.conn.Setup()
	if err := c.sensor.Setup(ctx, now); err != nil {
		return fmt.Errorf("sensor setup: %w", err)
	}
	c.hasReading = c.sensor.Err() == nil

	c.derive()
	c.publish()
	return nil
}

// Tick advances every monitor once, in order: connectivity, sensor, button
// and display, then derives and publishes the application state. It returns
// ErrSleepRequested or ErrRestartRequested when a gesture ended the run.
func (c *Coordinator) Tick(now tick.Millis) error {
	c.leds.Update(now)
	if c.machine.Current() == FatalError {
		return nil
	}

	c.conn.Tick(now)
	if c.sensor.Tick(now) {
		c.onPoll()
	}

	if err := c.tickButton(now); err != nil {
		return err
	}
	if c.display.Tick(now) {
		if _, err := c.renderer.Render(now, c.view()); err != nil {
			log.Printf("display: %v", err)
		}
	}

	c.derive()
	c.publish()
	return nil
}

func (c *Coordinator) onPoll() {
	if c.sensor.Err() != nil {
		return
	}
	c.hasReading = true
	if c.surfaceUp && c.deps.Announcer != nil {
		if err := c.deps.Announcer.PublishReading(c.sensor.Reading(), c.deps.Now()); err != nil {
			log.Printf("mqtt: publish error: %v", err)
		}
	}
}

func (c *Coordinator) tickButton(now tick.Millis) error {
	pressed, err := c.deps.Button.Pressed()
	if err != nil {
		if !c.buttonErr {
			log.Printf("gpio: button read error: %v", err)
			c.buttonErr = true
		}
		return nil
	}
	c.buttonErr = false

	s := c.debouncer.Process(logic.Input{Pressed: pressed, Now: now})
	for _, g := range c.gesture.Update(s, c.display.State() == monitor.DisplayOff) {
		switch g {
		case monitor.GestureWake:
			c.display.Wake(now)
		case monitor.GestureSleepArmed:
			log.Printf("app: release the button to sleep")
		case monitor.GestureSleep:
			return c.sleep()
		case monitor.GestureRestart:
			return c.restart()
		}
	}
	return nil
}

func (c *Coordinator) sleep() error {
	log.Printf("app: entering deep sleep")
	c.display.Sleep()
	c.stopSurfaces()
	if err := c.deps.Power.Sleep(); err != nil {
		return errors.Join(ErrSleepRequested, err)
	}
	return ErrSleepRequested
}

func (c *Coordinator) restart() error {
	log.Printf("app: user has held the button, forgetting network credentials and restarting")
	if err := c.conn.Forget(); err != nil {
		log.Printf("network: forget credentials: %v", err)
	}
	c.stopSurfaces()
	if err := c.deps.Power.Restart(); err != nil {
		return errors.Join(ErrRestartRequested, err)
	}
	return ErrRestartRequested
}

func (c *Coordinator) derive() {
	if c.machine.Current() == FatalError {
		return
	}
	next := Derive(c.conn.State(), c.sensor.State())
	if next != c.machine.Current() {
		c.machine.TransitionTo(next)
	}
}

func (c *Coordinator) publish() {
	t := c.deps.Tracker
	if t == nil {
		return
	}
	snap := c.conn.Snapshot()
	t.SetConnectivity(status.Connectivity{
		State:         string(snap.State),
		Address:       snap.Address,
		SSID:          snap.NetworkName,
		SignalQuality: snap.SignalQuality,
	})
	r := c.sensor.Reading()
	s := status.Sensor{
		State:         string(c.sensor.State()),
		ColdJunctionC: r.ColdJunctionC,
		HotJunctionC:  r.HotJunctionC,
		HasReading:    c.hasReading,
	}
	if err := c.sensor.Err(); err != nil {
		s.Err = err.Error()
	}
	t.SetSensor(s)
	if c.deps.Announcer != nil {
		t.SetAnnouncerConnected(c.deps.Announcer.IsConnected())
	}
}

func (c *Coordinator) view() render.View {
	snap := c.conn.Snapshot()
	v := render.View{
		Link:          string(snap.State),
		Address:       snap.Address,
		NetworkName:   snap.NetworkName,
		SignalQuality: snap.SignalQuality,
		SensorReady:   c.sensor.State() == monitor.SensorReady,
		HotJunctionF:  sensor.CelsiusToFahrenheit(c.sensor.Reading().HotJunctionC),
	}
	if c.clockReady {
		v.Clock = c.deps.Now().In(c.location).Format(status.DateTimeLayout)
	}
	return v
}

func (c *Coordinator) startClock() {
	if c.clockReady {
		return
	}
	c.clockReady = true
	if c.deps.Tracker != nil {
		c.deps.Tracker.SetLocation(c.location)
	}
	log.Printf("app: got time: %s", c.deps.Now().In(c.location).Format(status.DateTimeLayout))
}

func (c *Coordinator) startSurfaces() {
	if c.surfaceUp {
		return
	}
	c.surfaceUp = true
	if c.deps.Surface != nil {
		log.Printf("web: starting web server")
		if err := c.deps.Surface.Start(); err != nil {
			log.Printf("web: start: %v", err)
		}
	}
	if c.deps.Announcer != nil {
		if err := c.deps.Announcer.Start(); err != nil {
			log.Printf("mqtt: start: %v", err)
		}
	}
}

func (c *Coordinator) stopSurfaces() {
	if !c.surfaceUp {
		return
	}
	c.surfaceUp = false
	if c.deps.Surface != nil {
		log.Printf("web: stopping web server")
		if err := c.deps.Surface.Stop(); err != nil {
			log.Printf("web: stop: %v", err)
		}
	}
	if c.deps.Announcer != nil {
		if err := c.deps.Announcer.Stop(); err != nil {
			log.Printf("mqtt: stop: %v", err)
		}
	}
}

// Shutdown stops the surfaces and blanks the outputs. It is used on a
// signal-driven exit.
func (c *Coordinator) Shutdown() {
	c.stopSurfaces()
	c.clearPanel()
	if err := c.deps.LEDs.Set(false, false, false); err != nil {
		log.Printf("gpio: led write error: %v", err)
	}
}

func (c *Coordinator) clearPanel() {
	if err := c.renderer.Clear(); err != nil {
		log.Printf("display: %v", err)
	}
}

// OnApplicationState registers fn for state.
func (c *Coordinator) OnApplicationState(state State, fn fsm.Listener[State]) fsm.Handle[State] {
	return c.machine.OnEnter(state, fn)
}

// State returns the application state.
func (c *Coordinator) State() State { return c.machine.Current() }

// Previous returns the application state before the last transition.
func (c *Coordinator) Previous() State { return c.machine.Previous() }

// Connectivity returns the connectivity monitor.
func (c *Coordinator) Connectivity() *monitor.Connectivity { return c.conn }

// Sensor returns the sensor monitor.
func (c *Coordinator) Sensor() *monitor.Sensor { return c.sensor }

// Display returns the display power monitor.
func (c *Coordinator) Display() *monitor.Display { return c.display }

// Indicator returns the status LED monitor.
func (c *Coordinator) Indicator() *monitor.Indicator { return c.indicator }

// LEDPattern returns the waveform currently shown on the status LED.
func (c *Coordinator) LEDPattern() gpio.Pattern { return c.leds.Pattern() }

// Surfaces reports whether the HTTP surface and announcement are running.
func (c *Coordinator) Surfaces() bool { return c.surfaceUp }
