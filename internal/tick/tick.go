// Package tick provides the wrapping millisecond counter every timer in the
// device is measured against.
package tick

import "time"

// Millis is a monotonically increasing millisecond counter that wraps at 2^32.
type Millis uint32

// Since returns the milliseconds elapsed from start to m. Unsigned
// subtraction keeps the result correct across a wrap as long as the true
// elapsed time is under half the counter range.
func (m Millis) Since(start Millis) uint32 {
	return uint32(m - start)
}

// Add returns m advanced by d milliseconds.
func (m Millis) Add(d uint32) Millis {
	return m + Millis(d)
}

// Clock converts wall time into Millis relative to a boot instant.
type Clock struct {
	boot time.Time
}

// NewClock returns a Clock whose counter reads zero at boot.
func NewClock(boot time.Time) Clock {
	return Clock{boot: boot}
}

// At returns the counter value for t. Values past 2^32 ms wrap.
func (c Clock) At(t time.Time) Millis {
	return Millis(uint64(t.Sub(c.boot).Milliseconds()))
}

// Duration converts a millisecond count into a time.Duration.
func Duration(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
