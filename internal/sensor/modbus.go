package sensor

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// ModbusConfig describes a thermocouple transmitter reachable over Modbus TCP.
// The hot junction is read from Register and the cold junction from
// Register+1, both as signed 16-bit input registers scaled by Scale.
type ModbusConfig struct {
	Address  string // host:port
	SlaveID  byte
	Register uint16
	Scale    float64
	Timeout  time.Duration
}

// Modbus polls a Modbus TCP thermocouple transmitter.
type Modbus struct {
	cfg     ModbusConfig
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// NewModbus creates a Modbus driver. The connection is opened lazily on the
// first Read and re-opened after a failed one.
func NewModbus(cfg ModbusConfig) *Modbus {
	if cfg.Scale == 0 {
		cfg.Scale = 0.1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 200 * time.Millisecond
	}
	handler := modbus.NewTCPClientHandler(cfg.Address)
	handler.Timeout = cfg.Timeout
	handler.SlaveId = cfg.SlaveID
	return &Modbus{
		cfg:     cfg,
		handler: handler,
		client:  modbus.NewClient(handler),
	}
}

// Read fetches both junction registers in one request.
func (m *Modbus) Read() (Reading, error) {
	results, err := m.client.ReadInputRegisters(m.cfg.Register, 2)
	if err != nil {
		m.handler.Close()
		return Reading{}, fmt.Errorf("read input registers %d: %w", m.cfg.Register, err)
	}
	return decodeRegisters(results, m.cfg.Scale)
}

func decodeRegisters(b []byte, scale float64) (Reading, error) {
	if len(b) < 4 {
		return Reading{}, fmt.Errorf("%w: short register response (%d bytes)", ErrNoDevice, len(b))
	}
	hot := int16(binary.BigEndian.Uint16(b[0:2]))
	cold := int16(binary.BigEndian.Uint16(b[2:4]))
	// Transmitters report a broken wire as the most negative value.
	if hot == -32768 {
		return Reading{}, ErrOpenCircuit
	}
	if cold == -32768 {
		return Reading{}, ErrColdJunction
	}
	return Reading{
		ColdJunctionC: float64(cold) * scale,
		HotJunctionC:  float64(hot) * scale,
	}, nil
}

// Close closes the TCP connection.
func (m *Modbus) Close() error {
	return m.handler.Close()
}
