package input

import (
	"testing"
	"time"
)

type manualClock struct {
	t time.Time
}

func (c *manualClock) now() time.Time { return c.t }

func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeWake struct {
	sleeping bool
	calls    int
}

func (f *fakeWake) NotifyWake() bool {
	f.calls++
	if f.sleeping {
		f.sleeping = false
		return true
	}
	return false
}

func newClock() *manualClock {
	return &manualClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestActivityIdleTime(t *testing.T) {
	clk := newClock()
	a := NewActivity(clk.now)

	if got := a.IdleTime(); got != 0 {
		t.Errorf("expected 0 idle at start, got %v", got)
	}

	clk.advance(3 * time.Second)
	if got := a.IdleTime(); got != 3*time.Second {
		t.Errorf("expected 3s idle, got %v", got)
	}

	a.Touch()
	if got := a.IdleTime(); got != 0 {
		t.Errorf("expected 0 idle after touch, got %v", got)
	}

	clk.advance(time.Minute)
	a.ResetIdleTime()
	if got := a.IdleTime(); got != 0 {
		t.Errorf("expected 0 idle after reset, got %v", got)
	}
	if !a.LastInput().Equal(clk.t) {
		t.Errorf("LastInput: got %v, want %v", a.LastInput(), clk.t)
	}
}

func TestActivityClockGoingBackwards(t *testing.T) {
	clk := newClock()
	a := NewActivity(clk.now)
	clk.advance(-time.Second)
	if got := a.IdleTime(); got != 0 {
		t.Errorf("expected idle clamped to 0, got %v", got)
	}
}

func TestKeyboardPressReleaseTouchesActivity(t *testing.T) {
	clk := newClock()
	a := NewActivity(clk.now)
	k := NewKeyboard(a, nil)

	clk.advance(10 * time.Second)
	k.Handle(KeyEvent{Key: 4, Pressed: true})
	if a.IdleTime() != 0 {
		t.Error("press should reset idle time")
	}

	clk.advance(10 * time.Second)
	k.Handle(KeyEvent{Key: 4, Pressed: false})
	if a.IdleTime() != 0 {
		t.Error("release should reset idle time")
	}
	if len(k.Held()) != 0 {
		t.Errorf("expected no held keys, got %v", k.Held())
	}
}

func TestKeyboardFlushAllKeys(t *testing.T) {
	var released []Key
	k := NewKeyboard(NewActivity(newClock().now), func(key Key) {
		released = append(released, key)
	})

	k.Handle(KeyEvent{Key: 7, Pressed: true})
	k.Handle(KeyEvent{Key: 2, Pressed: true})
	k.Handle(KeyEvent{Key: 5, Pressed: true})

	held := k.Held()
	if len(held) != 3 || held[0] != 2 || held[1] != 5 || held[2] != 7 {
		t.Fatalf("held: got %v", held)
	}

	k.FlushAllKeys()
	if len(k.Held()) != 0 {
		t.Errorf("expected no held keys after flush, got %v", k.Held())
	}
	if len(released) != 3 || released[0] != 2 || released[2] != 7 {
		t.Errorf("released: got %v", released)
	}

	// Flushing an empty keyboard is a no-op.
	k.FlushAllKeys()
	if len(released) != 3 {
		t.Errorf("expected no further releases, got %v", released)
	}
}

func TestKeyboardWakeHook(t *testing.T) {
	k := NewKeyboard(NewActivity(newClock().now), nil)
	w := &fakeWake{sleeping: true}
	k.SetWakeHook(w)

	if !k.Handle(KeyEvent{Key: 1, Pressed: true}) {
		t.Error("first press should report a wake")
	}
	if k.Handle(KeyEvent{Key: 1, Pressed: false}) {
		t.Error("release must not report a wake")
	}
	if k.Handle(KeyEvent{Key: 1, Pressed: true}) {
		t.Error("press while awake must not report a wake")
	}
	if w.calls != 2 {
		t.Errorf("expected hook called on each press, got %d", w.calls)
	}
	if k.Wakes() != 1 {
		t.Errorf("expected 1 wake, got %d", k.Wakes())
	}
}
