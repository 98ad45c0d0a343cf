// Package config loads the device configuration file. The file is YAML; the
// original JSON config.json is valid YAML and loads unchanged.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/pitboss/internal/gpio"
	"github.com/sweeney/pitboss/internal/network"
	"github.com/sweeney/pitboss/internal/power"
)

// DefaultPath is where the daemon looks for its configuration.
const DefaultPath = "/etc/pitboss/config.yaml"

// Defaults.
const (
	DefaultNTPServer                = "pool.ntp.org"
	DefaultThermocoupleReadInterval = 2000
	DefaultThermocoupleStartupDelay = 100
	DefaultScreenTimeout            = 30000
	DefaultSleepHold                = 2000
	DefaultResetHold                = 10000
	DefaultButtonDebounce           = 50
	DefaultHTTPAddr                 = ":80"
	DefaultLogLevel                 = LogVerbose
)

// Log levels, from silent to verbose.
const (
	LogSilent = iota
	LogFatal
	LogError
	LogWarning
	LogNotice
	LogTrace
	LogVerbose
)

// Sensor drivers.
const (
	DriverMAX31855 = "max31855"
	DriverModbus   = "modbus"
)

// Supported Wi-Fi regulatory domains.
var wifiCountries = map[string]bool{"US": true, "CN": true, "JP": true}

// Config is the effective device configuration. All durations are
// milliseconds and offsets are seconds.
type Config struct {
	LogLevel    int    `yaml:"logLevel" json:"logLevel"`
	WifiCountry string `yaml:"wifiCountry" json:"wifiCountry"`
	NTPServer   string `yaml:"ntpServer" json:"ntpServer"`
	GMTOffset   int    `yaml:"gmtOffset" json:"gmtOffset"`
	DSTOffset   int    `yaml:"dstOffset" json:"dstOffset"`

	ThermocoupleReadInterval uint32 `yaml:"thermocoupleReadInterval" json:"thermocoupleReadInterval"`
	ThermocoupleStartupDelay uint32 `yaml:"thermocoupleStartupDelay" json:"thermocoupleStartupDelay"`
	ScreenTimeout            uint32 `yaml:"screenTimeout" json:"screenTimeout"`
	SleepHold                uint32 `yaml:"sleepHold" json:"sleepHold"`
	ResetHold                uint32 `yaml:"resetHold" json:"resetHold"`
	ButtonDebounce           uint32 `yaml:"buttonDebounce" json:"buttonDebounce"`

	// HTTPAddr is the status server address; empty disables it.
	HTTPAddr string `yaml:"httpAddr" json:"httpAddr"`
	// Broker is the MQTT broker URL; empty disables announcement.
	Broker string `yaml:"broker" json:"broker"`
	// Device overrides the generated device name.
	Device string `yaml:"device" json:"device,omitempty"`

	Sensor  Sensor  `yaml:"sensor" json:"sensor"`
	GPIO    GPIO    `yaml:"gpio" json:"gpio"`
	Network Network `yaml:"network" json:"network"`
	Power   Power   `yaml:"power" json:"power"`
	Display Display `yaml:"display" json:"display"`
}

// Sensor selects and configures the thermocouple driver.
type Sensor struct {
	Driver string `yaml:"driver" json:"driver"`
	CS     int    `yaml:"cs" json:"cs"`
	SCK    int    `yaml:"sck" json:"sck"`
	MISO   int    `yaml:"miso" json:"miso"`
	Modbus Modbus `yaml:"modbus" json:"modbus"`
}

// Modbus configures a Modbus TCP thermocouple transmitter.
type Modbus struct {
	Address   string  `yaml:"address" json:"address"`
	SlaveID   int     `yaml:"slaveId" json:"slaveId"`
	Register  int     `yaml:"register" json:"register"`
	Scale     float64 `yaml:"scale" json:"scale"`
	TimeoutMs uint32  `yaml:"timeout" json:"timeout"`
}

// GPIO lists the BCM line offsets of the button and status LED.
type GPIO struct {
	Chip   string `yaml:"chip" json:"chip"`
	Button int    `yaml:"button" json:"button"`
	Red    int    `yaml:"red" json:"red"`
	Green  int    `yaml:"green" json:"green"`
	Blue   int    `yaml:"blue" json:"blue"`
}

// Network locates the connectivity provider's files.
type Network struct {
	EnvFile         string `yaml:"envFile" json:"envFile"`
	CredentialsFile string `yaml:"credentialsFile" json:"credentialsFile"`
}

// Power holds the deep-sleep and restart commands.
type Power struct {
	SleepCommand   string `yaml:"sleepCommand" json:"sleepCommand"`
	RestartCommand string `yaml:"restartCommand" json:"restartCommand"`
}

// Display selects the terminal frames are painted on; empty disables it.
type Display struct {
	Device string `yaml:"device" json:"device"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:                 DefaultLogLevel,
		WifiCountry:              "US",
		NTPServer:                DefaultNTPServer,
		ThermocoupleReadInterval: DefaultThermocoupleReadInterval,
		ThermocoupleStartupDelay: DefaultThermocoupleStartupDelay,
		ScreenTimeout:            DefaultScreenTimeout,
		SleepHold:                DefaultSleepHold,
		ResetHold:                DefaultResetHold,
		ButtonDebounce:           DefaultButtonDebounce,
		HTTPAddr:                 DefaultHTTPAddr,
		Sensor: Sensor{
			Driver: DriverMAX31855,
			CS:     gpio.DefaultPinCS,
			SCK:    gpio.DefaultPinSCK,
			MISO:   gpio.DefaultPinMISO,
			Modbus: Modbus{SlaveID: 1, Scale: 0.1, TimeoutMs: 200},
		},
		GPIO: GPIO{
			Chip:   gpio.DefaultChip,
			Button: gpio.DefaultPinButton,
			Red:    gpio.DefaultPinRed,
			Green:  gpio.DefaultPinGreen,
			Blue:   gpio.DefaultPinBlue,
		},
		Network: Network{EnvFile: network.DefaultEnvFile},
		Power: Power{
			SleepCommand:   power.DefaultSleepCommand,
			RestartCommand: power.DefaultRestartCommand,
		},
	}
}

// Load reads and validates the file at path. A missing file yields the
// defaults together with an error wrapping fs.ErrNotExist, which callers may
// treat as a warning. Any other error leaves the defaults in place and must
// be treated as fatal.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return parsed, nil
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.LogLevel < LogSilent || c.LogLevel > LogVerbose {
		errs = append(errs, fmt.Errorf("logLevel %d out of range 0..6", c.LogLevel))
	}
	if !wifiCountries[c.WifiCountry] {
		errs = append(errs, fmt.Errorf("unknown country: %s", c.WifiCountry))
	}
	if c.ThermocoupleReadInterval == 0 {
		errs = append(errs, errors.New("thermocoupleReadInterval must be positive"))
	}
	if c.SleepHold == 0 {
		errs = append(errs, errors.New("sleepHold must be positive"))
	}
	if c.ResetHold <= c.SleepHold {
		errs = append(errs, fmt.Errorf("resetHold %d must exceed sleepHold %d", c.ResetHold, c.SleepHold))
	}
	if c.ButtonDebounce >= c.SleepHold {
		errs = append(errs, fmt.Errorf("buttonDebounce %d must be shorter than sleepHold %d", c.ButtonDebounce, c.SleepHold))
	}
	switch c.Sensor.Driver {
	case DriverMAX31855:
	case DriverModbus:
		if c.Sensor.Modbus.Address == "" {
			errs = append(errs, errors.New("sensor.modbus.address is required for the modbus driver"))
		}
		if c.Sensor.Modbus.SlaveID < 0 || c.Sensor.Modbus.SlaveID > 247 {
			errs = append(errs, fmt.Errorf("sensor.modbus.slaveId %d out of range", c.Sensor.Modbus.SlaveID))
		}
		if c.Sensor.Modbus.Register < 0 || c.Sensor.Modbus.Register > 0xFFFE {
			errs = append(errs, fmt.Errorf("sensor.modbus.register %d out of range", c.Sensor.Modbus.Register))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown sensor driver: %q", c.Sensor.Driver))
	}
	for _, p := range []struct {
		name string
		pin  int
	}{
		{"gpio.button", c.GPIO.Button}, {"gpio.red", c.GPIO.Red}, {"gpio.green", c.GPIO.Green},
		{"gpio.blue", c.GPIO.Blue}, {"sensor.cs", c.Sensor.CS}, {"sensor.sck", c.Sensor.SCK},
		{"sensor.miso", c.Sensor.MISO},
	} {
		if p.pin < 0 {
			errs = append(errs, fmt.Errorf("%s: negative line offset %d", p.name, p.pin))
		}
	}
	return errors.Join(errs...)
}

// Location returns the fixed zone described by gmtOffset and dstOffset.
func (c Config) Location() *time.Location {
	offset := c.GMTOffset + c.DSTOffset
	if offset == 0 {
		return time.UTC
	}
	sign := '+'
	if offset < 0 {
		sign = '-'
	}
	a := abs(offset)
	return time.FixedZone(fmt.Sprintf("UTC%c%02d%02d", sign, a/3600, a%3600/60), offset)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
