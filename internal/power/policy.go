package power

// policy evaluates new-sleep conditions for one transport. It returns the
// reason a sleep should be requested, or ReasonNone.
type policy interface {
	decide(c *Controller, cfg Config, link LinkStatus) Reason
}

type wiredPolicy struct{}

func (wiredPolicy) decide(c *Controller, cfg Config, _ LinkStatus) Reason {
	if c.hw.USB.USBSuspended() {
		c.usbSuspendCount++
		if c.usbSuspendCount >= USBSuspendTicks {
			return ReasonUSBSuspend
		}
		return ReasonNone
	}

	c.usbSuspendCount = 0
	if cfg.USBSleepToggle && idleExpired(c, cfg) {
		return ReasonIdle
	}
	c.pendingSleep = false
	return ReasonNone
}

type wirelessPolicy struct{}

func (wirelessPolicy) decide(c *Controller, cfg Config, link LinkStatus) Reason {
	if link.Phase == PhaseLinking {
		c.rfLinkingElapsed += TickInterval
	}

	linkTimeout := cfg.RFLinkTimeout
	if linkTimeout <= 0 {
		linkTimeout = DefaultLinkTimeout
	}

	switch {
	case idleExpired(c, cfg):
		return ReasonIdle
	case c.rfLinkingElapsed >= linkTimeout:
		// Don't stay awake forever trying to pair.
		c.rfLinkingElapsed = 0
		return ReasonLinkTimeout
	case link.Phase == PhaseDisconnected:
		c.rfDisconnectCount++
		if c.rfDisconnectCount > RFDisconnectTicks {
			return ReasonRFDisconnect
		}
	case link.Phase == PhaseConnected:
		c.rfDisconnectCount = 0
	}
	return ReasonNone
}

// idleExpired reports whether the idle timeout has elapsed. The firmware
// compares idle >= timeout unguarded, so a zero timeout sleeps on every
// tick; here a non-positive timeout turns the idle trigger off instead.
func idleExpired(c *Controller, cfg Config) bool {
	return cfg.SleepTimeout > 0 && c.hw.Activity.IdleTime() >= cfg.SleepTimeout
}
