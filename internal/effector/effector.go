// Package effector implements the power controller's hardware collaborators
// for a Linux host: the indicator LEDs, light and deep sleep, the pre-sleep
// link sync, and event reporting.
package effector

import (
	"context"
	"time"

	"github.com/sweeney/sleep-controller/internal/gpio"
	"github.com/sweeney/sleep-controller/internal/logger"
	"github.com/sweeney/sleep-controller/internal/mqtt"
	"github.com/sweeney/sleep-controller/internal/power"
)

// Indicator drives the RGB status LEDs. LED errors are logged, not returned;
// a dark indicator must never keep the keyboard awake.
type Indicator struct {
	leds  gpio.LEDs
	log   *logger.Logger
	sleep func(time.Duration)
}

// NewIndicator wraps leds. sleep is the blocking delay used by Wait; nil
// means time.Sleep.
func NewIndicator(leds gpio.LEDs, l *logger.Logger, sleep func(time.Duration)) *Indicator {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Indicator{leds: leds, log: l, sleep: sleep}
}

// PowerOn enables the LED supply.
func (i *Indicator) PowerOn() {
	if err := i.leds.SetPower(true); err != nil {
		i.log.Warnf("indicator power on: %v", err)
	}
}

// PowerOff turns the LEDs dark and disables the supply.
func (i *Indicator) PowerOff() {
	if err := i.leds.SetRGB(0, 0, 0); err != nil {
		i.log.Warnf("indicator off: %v", err)
	}
	if err := i.leds.SetPower(false); err != nil {
		i.log.Warnf("indicator power off: %v", err)
	}
}

// SetRGB sets the indicator colour.
func (i *Indicator) SetRGB(r, g, b uint8) {
	if err := i.leds.SetRGB(r, g, b); err != nil {
		i.log.Warnf("indicator rgb(%#02x,%#02x,%#02x): %v", r, g, b, err)
	}
}

// Wait blocks for d. Only used on the way into deep sleep.
func (i *Indicator) Wait(d time.Duration) {
	i.sleep(d)
}

// LightSleep is the host light sleep: the indicator goes dark while the
// link stays up, and any key press ends it through the wake hook.
type LightSleep struct {
	indicator *Indicator
	log       *logger.Logger
	active    bool
}

// NewLightSleep creates a light sleep effector.
func NewLightSleep(indicator *Indicator, l *logger.Logger) *LightSleep {
	return &LightSleep{indicator: indicator, log: l}
}

// EnterLightSleep darkens the indicator.
func (s *LightSleep) EnterLightSleep() {
	s.active = true
	s.indicator.PowerOff()
	s.log.Infof("entering light sleep")
}

// ExitLightSleep restores the indicator supply.
func (s *LightSleep) ExitLightSleep() {
	s.active = false
	s.indicator.PowerOn()
	s.log.Infof("leaving light sleep")
}

// Active reports whether light sleep is in progress.
func (s *LightSleep) Active() bool {
	return s.active
}

// DeepSleep halts the main loop until a key press arrives on the wake
// channel. This is the host's stand-in for the MCU halt: the controller
// goroutine blocks and nothing else runs until the wake interrupt.
type DeepSleep struct {
	ctx       context.Context
	wake      <-chan gpio.KeyEvent
	indicator *Indicator
	log       *logger.Logger

	wokeBy  *gpio.KeyEvent
	entered time.Time
	now     func() time.Time
}

// NewDeepSleep creates a deep sleep effector. Cancelling ctx also ends a
// halt so the process can shut down.
func NewDeepSleep(ctx context.Context, wake <-chan gpio.KeyEvent, indicator *Indicator, l *logger.Logger) *DeepSleep {
	return &DeepSleep{
		ctx:       ctx,
		wake:      wake,
		indicator: indicator,
		log:       l,
		now:       time.Now,
	}
}

// EnterDeepSleep blocks until a key press, a closed wake channel, or
// context cancellation. Releases are ignored.
func (s *DeepSleep) EnterDeepSleep() {
	s.indicator.PowerOff()
	s.entered = s.now()
	s.wokeBy = nil
	s.log.Infof("entering deep sleep")

	for {
		select {
		case ev, ok := <-s.wake:
			if !ok {
				return
			}
			if ev.Pressed {
				s.wokeBy = &ev
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// ExitDeepSleep restores the indicator supply and logs the wake source.
func (s *DeepSleep) ExitDeepSleep() {
	s.indicator.PowerOn()
	slept := s.now().Sub(s.entered).Truncate(time.Millisecond)
	if s.wokeBy != nil {
		s.log.Infof("woke from deep sleep after %v (key line %d)", slept, s.wokeBy.Line)
		return
	}
	s.log.Infof("left deep sleep after %v without a key press", slept)
}

// TakeWake returns the key press that ended the last deep sleep, once.
// The caller dispatches it so the wake keystroke is not lost.
func (s *DeepSleep) TakeWake() (gpio.KeyEvent, bool) {
	if s.wokeBy == nil {
		return gpio.KeyEvent{}, false
	}
	ev := *s.wokeBy
	s.wokeBy = nil
	return ev, true
}

// LinkSync broadcasts the final link state to the receiver over MQTT.
type LinkSync struct {
	pub  mqtt.Publisher
	link power.LinkSource
	log  *logger.Logger
	now  func() time.Time
}

// NewLinkSync creates a link sync effector.
func NewLinkSync(pub mqtt.Publisher, link power.LinkSource, l *logger.Logger, now func() time.Time) *LinkSync {
	return &LinkSync{pub: pub, link: link, log: l, now: now}
}

// SyncLinkState publishes the current link with state DEEP_SLEEP.
// Called only on the way into deep sleep.
func (s *LinkSync) SyncLinkState() {
	st := s.link.LinkStatus()
	err := s.pub.PublishLinkSync(mqtt.LinkSync{
		Timestamp: s.now(),
		State:     power.StateDeepSleep,
		Transport: st.Transport,
		Phase:     st.Phase,
	})
	if err != nil {
		s.log.Warnf("link sync: %v", err)
	}
}

// Reporter logs power events and publishes them over MQTT.
type Reporter struct {
	pub mqtt.Publisher
	log *logger.Logger
}

// NewReporter creates a reporter.
func NewReporter(pub mqtt.Publisher, l *logger.Logger) *Reporter {
	return &Reporter{pub: pub, log: l}
}

// Report implements power.Reporter.
func (r *Reporter) Report(e power.Event) {
	switch e.Type {
	case power.EventSleepRequested:
		r.log.Infof("sleep requested: reason=%s transport=%s phase=%s", e.Reason, e.Transport, e.Phase)
	case power.EventWake:
		r.log.Infof("awake (from %s)", e.From)
	default:
		r.log.Debugf("event: %s reason=%s", e.Type, e.Reason)
	}
	if err := r.pub.Publish(e); err != nil {
		r.log.Warnf("publish %s: %v", e.Type, err)
	}
}
