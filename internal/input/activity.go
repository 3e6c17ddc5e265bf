// Package input is the keystroke side of the sleep controller: it owns the
// idle clock, the set of held keys, and the early-keypress wake hook.
package input

import "time"

// Activity measures time since the last user input.
// Not safe for concurrent use; it lives on the main loop goroutine.
type Activity struct {
	now  func() time.Time
	last time.Time
}

// NewActivity creates an Activity that starts idle from now().
func NewActivity(now func() time.Time) *Activity {
	return &Activity{now: now, last: now()}
}

// Touch records user input.
func (a *Activity) Touch() {
	a.last = a.now()
}

// IdleTime returns the time since the last input. Never negative.
func (a *Activity) IdleTime() time.Duration {
	d := a.now().Sub(a.last)
	if d < 0 {
		return 0
	}
	return d
}

// ResetIdleTime restarts the idle clock without recording a keystroke.
func (a *Activity) ResetIdleTime() {
	a.last = a.now()
}

// LastInput returns the time of the last input or reset.
func (a *Activity) LastInput() time.Time {
	return a.last
}
