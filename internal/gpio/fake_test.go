package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []Signals{
		{USBSuspended: true},
		{Wireless: true},
		{Wireless: true, Charging: true},
	}

	f := NewFakeReader(samples)

	for i, want := range samples {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("sample %d: expected %+v, got %+v", i, want, got)
		}
	}

	// Further reads repeat the last sample
	got, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != samples[2] {
		t.Errorf("repeat: expected %+v, got %+v", samples[2], got)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Signals{{}})
	f.ReadError = errors.New("hardware failure")

	_, err := f.Read()
	if err == nil || err.Error() != "hardware failure" {
		t.Errorf("expected 'hardware failure' error, got %v", err)
	}
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]Signals{{USBSuspended: true}, {}})
	f.Read()
	f.Read()

	if err := f.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
	if !f.Closed {
		t.Error("expected Closed to be true")
	}

	f.Reset()
	if f.Closed {
		t.Error("expected Closed to be false after reset")
	}
	got, _ := f.Read()
	if !got.USBSuspended {
		t.Error("expected first sample after reset")
	}
}

func TestFakeLEDs(t *testing.T) {
	l := &FakeLEDs{}
	if l.Last() != (RGB{}) {
		t.Error("expected zero colour before any write")
	}

	l.SetPower(true)
	l.SetRGB(0x99, 0, 0)
	l.SetRGB(0, 0, 0)
	if !l.Powered {
		t.Error("expected powered")
	}
	if len(l.Colours) != 2 || l.Colours[0] != (RGB{0x99, 0, 0}) {
		t.Errorf("colours: got %v", l.Colours)
	}

	l.Close()
	if l.Powered || !l.Closed {
		t.Error("close should power off and mark closed")
	}
}

func TestChannelOn(t *testing.T) {
	if channelOn(0) != 0 {
		t.Error("zero channel should be off")
	}
	if channelOn(1) != 1 || channelOn(0xff) != 1 {
		t.Error("non-zero channel should be on")
	}
}
