package sensor

import (
	"fmt"
	"time"
)

// MAX31855 frame layout (32 bits, MSB first):
//
//	D31..D18  thermocouple temperature, signed 14-bit, 0.25 C/LSB
//	D16       fault
//	D15..D4   internal (cold junction) temperature, signed 12-bit, 0.0625 C/LSB
//	D2        short to VCC
//	D1        short to GND
//	D0        open circuit
const (
	faultBit  = 1 << 16
	faultSCV  = 1 << 2
	faultSCG  = 1 << 1
	faultOC   = 1 << 0
	faultMask = faultSCV | faultSCG | faultOC
)

// DecodeFrame converts a raw 32-bit MAX31855 frame into a Reading.
func DecodeFrame(raw uint32) (Reading, error) {
	if raw == 0 || raw == 0xFFFFFFFF {
		return Reading{}, ErrNoDevice
	}

	cold := float64(int32(raw<<16)>>20) * 0.0625

	if raw&faultBit != 0 || raw&faultMask != 0 {
		switch {
		case raw&faultOC != 0:
			return Reading{}, ErrOpenCircuit
		case raw&faultSCG != 0:
			return Reading{}, ErrShortGND
		case raw&faultSCV != 0:
			return Reading{}, ErrShortVCC
		default:
			return Reading{}, fmt.Errorf("%w: fault bit set (frame %#08x)", ErrColdJunction, raw)
		}
	}

	hot := float64(int32(raw)>>18) * 0.25
	return Reading{ColdJunctionC: cold, HotJunctionC: hot}, nil
}

// SPILines is the minimal pin access the bit-banged SPI reader needs.
type SPILines interface {
	SetCS(high bool) error
	SetClock(high bool) error
	MISO() (bool, error)
	Close() error
}

// MAX31855 reads a MAX31855 converter over bit-banged SPI.
type MAX31855 struct {
	lines SPILines
	// halfPeriod is the delay between clock edges; the part allows 5 MHz
	// so a microsecond is comfortably slow.
	halfPeriod time.Duration
}

// NewMAX31855 creates a driver on the given lines and parks the bus idle.
func NewMAX31855(lines SPILines) (*MAX31855, error) {
	m := &MAX31855{lines: lines, halfPeriod: time.Microsecond}
	if err := lines.SetCS(true); err != nil {
		return nil, fmt.Errorf("idle CS: %w", err)
	}
	if err := lines.SetClock(false); err != nil {
		return nil, fmt.Errorf("idle SCK: %w", err)
	}
	return m, nil
}

// Read clocks one frame out of the converter and decodes it.
func (m *MAX31855) Read() (Reading, error) {
	raw, err := m.readFrame()
	if err != nil {
		return Reading{}, err
	}
	return DecodeFrame(raw)
}

func (m *MAX31855) readFrame() (uint32, error) {
	if err := m.lines.SetCS(false); err != nil {
		return 0, fmt.Errorf("assert CS: %w", err)
	}
	defer m.lines.SetCS(true)
	m.delay()

	var raw uint32
	for i := 0; i < 32; i++ {
		if err := m.lines.SetClock(false); err != nil {
			return 0, fmt.Errorf("clock low: %w", err)
		}
		m.delay()
		bit, err := m.lines.MISO()
		if err != nil {
			return 0, fmt.Errorf("read MISO: %w", err)
		}
		raw <<= 1
		if bit {
			raw |= 1
		}
		if err := m.lines.SetClock(true); err != nil {
			return 0, fmt.Errorf("clock high: %w", err)
		}
		m.delay()
	}
	if err := m.lines.SetClock(false); err != nil {
		return 0, fmt.Errorf("clock idle: %w", err)
	}
	return raw, nil
}

func (m *MAX31855) delay() {
	if m.halfPeriod > 0 {
		time.Sleep(m.halfPeriod)
	}
}

// Close releases the SPI lines.
func (m *MAX31855) Close() error {
	return m.lines.Close()
}
