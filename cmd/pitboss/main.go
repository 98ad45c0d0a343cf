// Command pitboss reads a grill thermocouple, shows it on the status LED and
// panel, and serves it over HTTP and MQTT while the network is up.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/pitboss/internal/app"
	"github.com/sweeney/pitboss/internal/config"
	"github.com/sweeney/pitboss/internal/gpio"
	"github.com/sweeney/pitboss/internal/mqtt"
	"github.com/sweeney/pitboss/internal/network"
	"github.com/sweeney/pitboss/internal/power"
	"github.com/sweeney/pitboss/internal/render"
	"github.com/sweeney/pitboss/internal/sensor"
	"github.com/sweeney/pitboss/internal/status"
	"github.com/sweeney/pitboss/internal/tick"
	"github.com/sweeney/pitboss/internal/web"
)

// loopInterval is how often the coordinator ticks.
const loopInterval = 10 * time.Millisecond

func main() {
	path := flag.String("config", config.DefaultPath, "Path to the YAML configuration file")
	httpAddr := flag.String("http", config.DefaultHTTPAddr, "HTTP status address (empty to disable), overrides the config file")
	broker := flag.String("broker", "", "MQTT broker URL (empty to disable), overrides the config file")
	printState := flag.Bool("print-state", false, "Print one sensor reading and exit")

	flag.Parse()

	var o overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "http":
			o.httpAddr = httpAddr
		case "broker":
			o.broker = broker
		}
	})

	log.SetPrefix("pitboss: ")
	if err := run(*path, o, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// overrides holds the flags that were set explicitly on the command line.
type overrides struct {
	httpAddr *string
	broker   *string
}

// loadConfig reads path and applies o. A missing file yields the defaults;
// any other failure is returned alongside the defaults so the device can
// still report it.
func loadConfig(path string, o overrides) (config.Config, error) {
	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("config: %s not found, using defaults", path)
		err = nil
	case err != nil:
		cfg = config.Default()
	}
	if o.httpAddr != nil {
		cfg.HTTPAddr = *o.httpAddr
	}
	if o.broker != nil {
		cfg.Broker = *o.broker
	}
	return cfg, err
}

func run(path string, o overrides, printState bool) error {
	cfg, cfgErr := loadConfig(path, o)
	if cfg.LogLevel == config.LogSilent {
		log.SetOutput(io.Discard)
	}

	driver, err := openSensor(cfg)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer driver.Close()

	if printState {
		r, err := driver.Read()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		fmt.Printf("cold=%.2fC hot=%.2fC (%.0fF)\n",
			r.ColdJunctionC, r.HotJunctionC, sensor.CelsiusToFahrenheit(r.HotJunctionC))
		return nil
	}

	button, err := gpio.NewRealButton(cfg.GPIO.Chip, cfg.GPIO.Button)
	if err != nil {
		return fmt.Errorf("init button: %w", err)
	}
	defer button.Close()

	leds, err := gpio.NewRealLEDs(cfg.GPIO.Chip, cfg.GPIO.Red, cfg.GPIO.Green, cfg.GPIO.Blue)
	if err != nil {
		return fmt.Errorf("init leds: %w", err)
	}
	defer leds.Close()

	panel, closePanel, err := openPanel(cfg.Display.Device)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer closePanel()

	pc, err := power.NewCommandController(cfg.Power.SleepCommand, cfg.Power.RestartCommand)
	if err != nil {
		return err
	}

	boot := time.Now()
	device := cfg.DeviceName(config.MachineIDPath)
	tracker := status.NewTracker(boot, device, cfg.Broker)

	deps := app.Deps{
		Network: network.NewEnvFileProvider(cfg.Network.EnvFile, cfg.Network.CredentialsFile),
		Sensor:  driver,
		Button:  button,
		LEDs:    leds,
		Panel:   panel,
		Power:   pc,
		Tracker: tracker,
	}
	// Surfaces stop in the background; let them finish before exiting.
	var draining []interface{ Wait() }
	defer func() {
		for _, d := range draining {
			d.Wait()
		}
	}()
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, cfg)
		deps.Surface = srv
		draining = append(draining, srv)
	}
	if cfg.Broker != "" {
		ann := mqtt.NewRealAnnouncer(cfg.Broker, device)
		deps.Announcer = ann
		draining = append(draining, ann)
	}

	coord := app.New(cfg, deps)
	if cfgErr != nil {
		coord.Fatal(cfgErr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	clock := tick.NewClock(boot)
	now := func() tick.Millis { return clock.At(time.Now()) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case s := <-sigCh:
			log.Printf("received %v during setup, shutting down", s)
			cancel()
		case <-ctx.Done():
		}
	}()
	if err := coord.Setup(ctx, now); err != nil {
		coord.Shutdown()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	cancel()

	log.Printf("started: device=%s sensor=%s http=%q broker=%q", device, cfg.Sensor.Driver, cfg.HTTPAddr, cfg.Broker)

	ticker := time.NewTicker(loopInterval)
	defer ticker.Stop()

	return runLoop(coord, clock, ticker.C, sigCh)
}

// runLoop ticks coord until a signal arrives or a button gesture ends the
// run.
func runLoop(coord *app.Coordinator, clock tick.Clock, ticks <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			coord.Shutdown()
			return nil

		case t := <-ticks:
			err := coord.Tick(clock.At(t))
			if err == nil {
				continue
			}
			if errors.Is(err, app.ErrSleepRequested) || errors.Is(err, app.ErrRestartRequested) {
				log.Printf("exiting: %v", err)
				return nil
			}
			return err
		}
	}
}

func openSensor(cfg config.Config) (sensor.Driver, error) {
	if cfg.Sensor.Driver == config.DriverModbus {
		m := cfg.Sensor.Modbus
		return sensor.NewAsync(sensor.NewModbus(sensor.ModbusConfig{
			Address:  m.Address,
			SlaveID:  byte(m.SlaveID),
			Register: uint16(m.Register),
			Scale:    m.Scale,
			Timeout:  tick.Duration(m.TimeoutMs),
		})), nil
	}

	spi, err := gpio.NewRealSPI(cfg.GPIO.Chip, cfg.Sensor.CS, cfg.Sensor.SCK, cfg.Sensor.MISO)
	if err != nil {
		return nil, err
	}
	d, err := sensor.NewMAX31855(spi)
	if err != nil {
		spi.Close()
		return nil, err
	}
	return d, nil
}

// openPanel opens the terminal named by device. An empty device paints
// nowhere.
func openPanel(device string) (render.Panel, func(), error) {
	if device == "" {
		return render.NewTextPanel(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(device, os.O_WRONLY, 0)
	if err != nil {
		return nil, nil, err
	}
	return render.NewTextPanel(f), func() { f.Close() }, nil
}
