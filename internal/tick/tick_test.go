package tick

import (
	"math"
	"testing"
	"time"
)

func TestSince(t *testing.T) {
	tests := []struct {
		name  string
		start Millis
		now   Millis
		want  uint32
	}{
		{"zero", 0, 0, 0},
		{"forward", 100, 350, 250},
		{"across wrap", math.MaxUint32 - 99, 100, 200},
		{"exactly at wrap", math.MaxUint32, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.now.Since(tt.start); got != tt.want {
				t.Errorf("Since: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddWraps(t *testing.T) {
	m := Millis(math.MaxUint32 - 9)
	if got := m.Add(20); got != 10 {
		t.Errorf("Add across wrap: got %d, want 10", got)
	}
	if got := m.Add(20).Since(m); got != 20 {
		t.Errorf("Since after Add: got %d, want 20", got)
	}
}

func TestClockAt(t *testing.T) {
	boot := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(boot)

	if got := c.At(boot); got != 0 {
		t.Errorf("At(boot): got %d, want 0", got)
	}
	if got := c.At(boot.Add(1500 * time.Millisecond)); got != 1500 {
		t.Errorf("At(boot+1.5s): got %d, want 1500", got)
	}
	wrapped := boot.Add(time.Duration(math.MaxUint32+1+42) * time.Millisecond)
	if got := c.At(wrapped); got != 42 {
		t.Errorf("At past wrap: got %d, want 42", got)
	}
}

func TestDuration(t *testing.T) {
	if got := Duration(2000); got != 2*time.Second {
		t.Errorf("Duration(2000): got %v, want 2s", got)
	}
}
