package input

import (
	"sort"
	"time"
)

// Key identifies a physical key.
type Key int

// KeyEvent is a single press or release.
type KeyEvent struct {
	Key     Key
	Pressed bool
	Time    time.Time
}

// WakeHook is called on every press before it is recorded.
// The power controller implements it to leave light sleep.
type WakeHook interface {
	NotifyWake() bool
}

// Keyboard tracks held keys and feeds the activity clock.
type Keyboard struct {
	activity  *Activity
	wake      WakeHook
	held      map[Key]bool
	onRelease func(Key)
	wakes     int
}

// NewKeyboard creates a Keyboard that touches activity on every event.
// onRelease, if non-nil, is called for each key released by FlushAllKeys.
func NewKeyboard(activity *Activity, onRelease func(Key)) *Keyboard {
	return &Keyboard{
		activity:  activity,
		held:      make(map[Key]bool),
		onRelease: onRelease,
	}
}

// SetWakeHook installs the early-keypress hook.
func (k *Keyboard) SetWakeHook(h WakeHook) {
	k.wake = h
}

// Handle processes a key event. Presses run the wake hook first so the
// controller is awake before the key is dispatched. Returns true when the
// press woke the controller.
func (k *Keyboard) Handle(ev KeyEvent) bool {
	woke := false
	if ev.Pressed {
		if k.wake != nil && k.wake.NotifyWake() {
			woke = true
			k.wakes++
		}
		k.held[ev.Key] = true
	} else {
		delete(k.held, ev.Key)
	}
	k.activity.Touch()
	return woke
}

// FlushAllKeys releases every held key so nothing stays stuck across a sleep.
func (k *Keyboard) FlushAllKeys() {
	for _, key := range k.Held() {
		delete(k.held, key)
		if k.onRelease != nil {
			k.onRelease(key)
		}
	}
}

// Held returns the currently held keys in ascending order.
func (k *Keyboard) Held() []Key {
	keys := make([]Key, 0, len(k.held))
	for key := range k.held {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Wakes returns how many presses ended a light sleep.
func (k *Keyboard) Wakes() int {
	return k.wakes
}
