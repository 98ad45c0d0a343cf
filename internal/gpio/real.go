//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealButton reads the power button from actual hardware.
type RealButton struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealButton requests pin as an input with pull-up.
func NewRealButton(chipName string, pin int) (*RealButton, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pin, err)
	}

	return &RealButton{chip: chip, line: line}, nil
}

// Pressed returns true while the line is pulled low.
func (b *RealButton) Pressed() (bool, error) {
	raw, err := b.line.Value()
	if err != nil {
		return false, fmt.Errorf("read button pin: %w", err)
	}
	return raw == 0, nil
}

// Close releases GPIO resources.
// Reconfigures the pin to input with pull-down (matching Pi boot defaults)
// before closing.
func (b *RealButton) Close() error {
	var errs []error
	if b.line != nil {
		if err := b.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure button pin: %w", err))
		}
		if err := b.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealLEDs drives the RGB status LED as three output lines.
type RealLEDs struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
}

// NewRealLEDs requests the three pins as outputs, all off.
func NewRealLEDs(chipName string, red, green, blue int) (*RealLEDs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	lines, err := chip.RequestLines([]int{red, green, blue}, gpiocdev.AsOutput(0, 0, 0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request led pins %d/%d/%d: %w", red, green, blue, err)
	}
	return &RealLEDs{chip: chip, lines: lines}, nil
}

// Set writes all three channels at once.
func (l *RealLEDs) Set(red, green, blue bool) error {
	if err := l.lines.SetValues([]int{bit(red), bit(green), bit(blue)}); err != nil {
		return fmt.Errorf("set led pins: %w", err)
	}
	return nil
}

// Close turns the LED off and releases the lines.
func (l *RealLEDs) Close() error {
	var errs []error
	if l.lines != nil {
		if err := l.lines.SetValues([]int{0, 0, 0}); err != nil {
			errs = append(errs, fmt.Errorf("clear led pins: %w", err))
		}
		if err := l.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close led pins: %w", err))
		}
	}
	if l.chip != nil {
		if err := l.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealSPI exposes chip-select, clock and MISO lines for a bit-banged
// read-only SPI device.
type RealSPI struct {
	chip *gpiocdev.Chip
	cs   *gpiocdev.Line
	sck  *gpiocdev.Line
	miso *gpiocdev.Line
}

// NewRealSPI requests CS (idle high), SCK (idle low) and MISO.
func NewRealSPI(chipName string, cs, sck, miso int) (*RealSPI, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	s := &RealSPI{chip: chip}
	if s.cs, err = chip.RequestLine(cs, gpiocdev.AsOutput(1)); err != nil {
		s.Close()
		return nil, fmt.Errorf("request CS pin %d: %w", cs, err)
	}
	if s.sck, err = chip.RequestLine(sck, gpiocdev.AsOutput(0)); err != nil {
		s.Close()
		return nil, fmt.Errorf("request SCK pin %d: %w", sck, err)
	}
	if s.miso, err = chip.RequestLine(miso, gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		s.Close()
		return nil, fmt.Errorf("request MISO pin %d: %w", miso, err)
	}
	return s, nil
}

// SetCS drives chip-select.
func (s *RealSPI) SetCS(high bool) error { return s.cs.SetValue(bit(high)) }

// SetClock drives the clock line.
func (s *RealSPI) SetClock(high bool) error { return s.sck.SetValue(bit(high)) }

// MISO samples the data line.
func (s *RealSPI) MISO() (bool, error) {
	v, err := s.miso.Value()
	return v == 1, err
}

// Close releases the SPI lines.
func (s *RealSPI) Close() error {
	var errs []error
	for _, l := range []*gpiocdev.Line{s.cs, s.sck, s.miso} {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
