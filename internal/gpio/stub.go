//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealButton is not available on non-Linux platforms.
type RealButton struct{}

// NewRealButton returns an error on non-Linux platforms.
func NewRealButton(string, int) (*RealButton, error) { return nil, errUnsupported }

// Pressed is not implemented on non-Linux platforms.
func (b *RealButton) Pressed() (bool, error) { return false, errUnsupported }

// Close is not implemented on non-Linux platforms.
func (b *RealButton) Close() error { return nil }

// RealLEDs is not available on non-Linux platforms.
type RealLEDs struct{}

// NewRealLEDs returns an error on non-Linux platforms.
func NewRealLEDs(string, int, int, int) (*RealLEDs, error) { return nil, errUnsupported }

// Set is not implemented on non-Linux platforms.
func (l *RealLEDs) Set(bool, bool, bool) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (l *RealLEDs) Close() error { return nil }

// RealSPI is not available on non-Linux platforms.
type RealSPI struct{}

// NewRealSPI returns an error on non-Linux platforms.
func NewRealSPI(string, int, int, int) (*RealSPI, error) { return nil, errUnsupported }

// SetCS is not implemented on non-Linux platforms.
func (s *RealSPI) SetCS(bool) error { return errUnsupported }

// SetClock is not implemented on non-Linux platforms.
func (s *RealSPI) SetClock(bool) error { return errUnsupported }

// MISO is not implemented on non-Linux platforms.
func (s *RealSPI) MISO() (bool, error) { return false, errUnsupported }

// Close is not implemented on non-Linux platforms.
func (s *RealSPI) Close() error { return nil }
