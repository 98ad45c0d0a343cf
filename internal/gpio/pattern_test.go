package gpio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sweeney/pitboss/internal/tick"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		elapsed uint32
		want    [3]bool
	}{
		{"off", PatternOff, 0, [3]bool{false, false, false}},
		{"error solid red", PatternError, 12345, [3]bool{true, false, false}},
		{"ready start", PatternReady, 0, [3]bool{false, true, false}},
		{"ready second half", PatternReady, 2500, [3]bool{false, false, false}},
		{"ready wraps period", PatternReady, 5001, [3]bool{false, true, false}},
		{"waiting start", PatternWaiting, 0, [3]bool{true, true, true}},
		{"waiting red off first", PatternWaiting, 460, [3]bool{false, true, true}},
		{"waiting all off", PatternWaiting, 560, [3]bool{false, false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := Levels(tt.pattern, tt.elapsed)
			assert.Equal(t, tt.want, [3]bool{r, g, b})
		})
	}
}

func TestDriverWritesOnlyChanges(t *testing.T) {
	leds := &FakeLEDs{}
	d := NewDriver(leds)

	d.Update(100)
	assert.Len(t, leds.Writes, 1, "first update writes the off state")

	d.Show(PatternError)
	assert.Equal(t, [3]bool{true, false, false}, leds.Writes[len(leds.Writes)-1])
	n := len(leds.Writes)

	for now := 100; now < 5000; now += 10 {
		d.Update(tickAt(now))
	}
	assert.Len(t, leds.Writes, n, "a solid pattern never rewrites")
	assert.Equal(t, PatternError, d.Pattern())
}

func TestDriverRestartsWaveform(t *testing.T) {
	leds := &FakeLEDs{}
	d := NewDriver(leds)

	d.Update(1000)
	d.Show(PatternReady)
	last, _ := leds.Last()
	assert.Equal(t, [3]bool{false, true, false}, last, "waveform starts at Show")

	d.Update(1000 + 2500)
	last, _ = leds.Last()
	assert.Equal(t, [3]bool{false, false, false}, last)
}

func TestDriverLogsWriteError(t *testing.T) {
	leds := &FakeLEDs{SetError: errors.New("line gone")}
	d := NewDriver(leds)
	d.Show(PatternError)
	assert.Empty(t, leds.Writes)

	leds.SetError = nil
	d.Update(1)
	assert.Len(t, leds.Writes, 1, "a failed write is retried on the next update")
}

func tickAt(ms int) tick.Millis { return tick.Millis(ms) }
