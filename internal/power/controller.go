package power

import "time"

// Timing constants
const (
	// TickInterval is the decision cadence. Ticks closer together are ignored.
	TickInterval = 50 * time.Millisecond

	// USBSuspendTicks is the number of consecutive suspended ticks before
	// sleeping while wired (about one second).
	USBSuspendTicks = 20

	// RFDisconnectTicks is the number of consecutive disconnected ticks that
	// must be exceeded before sleeping while wireless (five seconds).
	RFDisconnectTicks = 100

	// DefaultLinkTimeout applies when Config.RFLinkTimeout is unset.
	DefaultLinkTimeout = 2 * time.Minute

	indicatorWarmup = 50 * time.Millisecond
	indicatorHold   = 500 * time.Millisecond
)

// Deep sleep indicator colour.
const (
	indicatorR = 0x99
	indicatorG = 0x00
	indicatorB = 0x00
)

// LinkingReset selects when the linking accumulator is cleared.
// Observed firmware variants disagree, so both are supported.
type LinkingReset int

const (
	// LinkingResetAlways clears the accumulator on every sleep execution
	// and on the link-timeout branch.
	LinkingResetAlways LinkingReset = iota
	// LinkingResetOnTimeout clears it only on the link-timeout branch.
	LinkingResetOnTimeout
)

// Option configures a Controller.
type Option func(*Controller)

// WithWireless enables the wireless decision branch for hybrid devices.
// Wired-only controllers ignore wireless link phases.
func WithWireless() Option {
	return func(c *Controller) {
		c.wireless = wirelessPolicy{}
	}
}

// WithLinkingReset selects the linking accumulator reset policy.
func WithLinkingReset(r LinkingReset) Option {
	return func(c *Controller) {
		c.linkingReset = r
	}
}

// WithClock sets the clock used to timestamp events that happen outside a
// tick (wake from deep sleep, wake notifications).
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller reconciles idle time, USB suspend and wireless link signals
// into a single sleep decision. It is not safe for concurrent use: Tick and
// NotifyWake must be called from the same execution context.
type Controller struct {
	hw           Hardware
	wired        policy
	wireless     policy // nil for wired-only devices
	linkingReset LinkingReset
	now          func() time.Time

	state             State
	lastTick          time.Time
	usbSuspendCount   int
	rfDisconnectCount int
	rfLinkingElapsed  time.Duration
	pendingSleep      bool
	wakePrepare       bool
	lastReason        Reason
	counts            TransitionCounts
}

// New creates a controller in the Awake state with all counters zero.
func New(hw Hardware, opts ...Option) *Controller {
	c := &Controller{
		hw:    hw,
		wired: wiredPolicy{},
		now:   time.Now,
		state: StateAwake,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tick runs one decision step. Calls less than TickInterval after the
// previous accepted tick are no-ops.
func (c *Controller) Tick(now time.Time) {
	// A wall clock stepped backwards stalls the gate until it catches up;
	// time.Now carries a monotonic reading, so the host loop never sees it.
	if !c.lastTick.IsZero() && now.Sub(c.lastTick) < TickInterval {
		return
	}
	c.lastTick = now

	cfg := c.hw.Config.SleepConfig()
	if !cfg.SleepEnabled {
		return
	}

	link := c.hw.Link.LinkStatus()

	if c.pendingSleep {
		c.executeSleep(now, cfg, link)
		return
	}

	// Mid-transition: waiting for the input layer to report a wake.
	if c.wakePrepare {
		return
	}

	p := c.wired
	if link.Transport == TransportWireless {
		p = c.wireless
	}
	if p == nil {
		return
	}
	if reason := p.decide(c, cfg, link); reason != ReasonNone {
		c.requestSleep(now, link, reason)
	}
}

// NotifyWake is the early-keypress hook. It ends a light sleep and reports
// whether one was in progress.
func (c *Controller) NotifyWake() bool {
	if !c.wakePrepare {
		return false
	}
	c.wakePrepare = false
	c.hw.Light.ExitLightSleep()
	c.state = StateAwake
	c.counts.Wakes++
	link := c.hw.Link.LinkStatus()
	c.report(Event{
		Timestamp: c.now(),
		Type:      EventWake,
		From:      StateLightSleep,
		Transport: link.Transport,
		Phase:     link.Phase,
	})
	return true
}

// State returns the current logical power state.
func (c *Controller) State() State {
	return c.state
}

// Snapshot returns a copy of the controller's internal state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:             c.state,
		PendingSleep:      c.pendingSleep,
		WakePrepare:       c.wakePrepare,
		USBSuspendCount:   c.usbSuspendCount,
		RFDisconnectCount: c.rfDisconnectCount,
		RFLinkingElapsed:  c.rfLinkingElapsed,
		LastReason:        c.lastReason,
		LastTick:          c.lastTick,
		Wireless:          c.wireless != nil,
		Counts:            c.counts,
	}
}

func (c *Controller) requestSleep(now time.Time, link LinkStatus, reason Reason) {
	c.pendingSleep = true
	c.lastReason = reason
	c.counts.SleepRequests++
	c.report(Event{
		Timestamp: now,
		Type:      EventSleepRequested,
		Transport: link.Transport,
		Phase:     link.Phase,
		Reason:    reason,
	})
}

// executeSleep consumes a pending request. A fresh decision cycle starts
// after any sleep, so every counter is cleared first.
func (c *Controller) executeSleep(now time.Time, cfg Config, link LinkStatus) {
	c.pendingSleep = false
	c.usbSuspendCount = 0
	c.rfDisconnectCount = 0
	if c.linkingReset == LinkingResetAlways {
		c.rfLinkingElapsed = 0
	}

	c.hw.Keys.FlushAllKeys()

	if c.lightSleepOnly(cfg, link) {
		c.hw.Light.EnterLightSleep()
		c.wakePrepare = true
		c.state = StateLightSleep
		c.counts.LightSleeps++
		c.report(Event{
			Timestamp: now,
			Type:      EventLightSleep,
			Transport: link.Transport,
			Phase:     link.Phase,
			Reason:    c.lastReason,
		})
		return
	}

	c.deepSleep(now, link)
}

// lightSleepOnly reports whether deep sleep must be refused.
// Charging on wireless raises an interrupt that would wake the MCU at once;
// wired devices stay powered by the port and only light sleep.
func (c *Controller) lightSleepOnly(cfg Config, link LinkStatus) bool {
	if link.Transport == TransportWireless && link.Charging {
		return true
	}
	if link.Transport == TransportWired && (cfg.USBSleepToggle || c.hw.USB.USBSuspended()) {
		return true
	}
	return false
}

func (c *Controller) deepSleep(now time.Time, link LinkStatus) {
	c.state = StateDeepSleep
	c.counts.DeepSleeps++
	c.report(Event{
		Timestamp: now,
		Type:      EventDeepSleep,
		Transport: link.Transport,
		Phase:     link.Phase,
		Reason:    c.lastReason,
	})

	c.hw.Indicator.PowerOn()
	c.hw.Indicator.Wait(indicatorWarmup)
	c.hw.Indicator.SetRGB(indicatorR, indicatorG, indicatorB)
	c.hw.Indicator.Wait(indicatorHold)

	// Without a final sync the wake keystroke is likely to be lost.
	c.hw.Sync.SyncLinkState()

	c.hw.Deep.EnterDeepSleep()
	c.hw.Deep.ExitDeepSleep()

	// Idle time is stale after a halt; leaving it would sleep again on the next tick.
	c.hw.Activity.ResetIdleTime()

	c.state = StateAwake
	c.counts.Wakes++
	after := c.hw.Link.LinkStatus()
	c.report(Event{
		Timestamp: c.now(),
		Type:      EventWake,
		From:      StateDeepSleep,
		Transport: after.Transport,
		Phase:     after.Phase,
	})
}

func (c *Controller) report(e Event) {
	if c.hw.Reporter != nil {
		c.hw.Reporter.Report(e)
	}
}
