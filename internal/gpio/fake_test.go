package gpio

import (
	"errors"
	"testing"
)

func TestFakeButtonPressed(t *testing.T) {
	f := NewFakeButton(true, false, true)
	f.Level = true

	want := []bool{true, false, true, true, true}
	for i, w := range want {
		got, err := f.Pressed()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("sample %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestFakeButtonError(t *testing.T) {
	f := NewFakeButton(true)
	f.ReadError = errors.New("simulated error")

	_, err := f.Pressed()
	if err == nil {
		t.Error("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeButtonCloseAndReset(t *testing.T) {
	f := NewFakeButton(true, false)

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Pressed()
	f.Reset()
	got, _ := f.Pressed()
	if !got {
		t.Error("after reset: expected first sample again")
	}
	if f.Closed {
		t.Error("Reset should clear Closed")
	}
}

func TestFakeLEDs(t *testing.T) {
	f := &FakeLEDs{}
	if _, err := f.Last(); err == nil {
		t.Error("expected error with no writes")
	}
	f.Set(true, false, true)
	last, err := f.Last()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last != [3]bool{true, false, true} {
		t.Errorf("unexpected last write: %v", last)
	}
}
