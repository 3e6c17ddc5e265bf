package power

import "time"

// ConfigSource returns the current sleep configuration.
// Called once per qualifying tick; implementations are expected to cache.
type ConfigSource interface {
	SleepConfig() Config
}

// LinkSource reports the current host link.
type LinkSource interface {
	LinkStatus() LinkStatus
}

// USBMonitor reports whether the USB host has suspended the bus.
type USBMonitor interface {
	USBSuspended() bool
}

// ActivityClock reports time since the last user input.
// The input layer owns the reset; the controller only resets it after
// returning from deep sleep.
type ActivityClock interface {
	IdleTime() time.Duration
	ResetIdleTime()
}

// KeyFlusher releases every currently held key.
type KeyFlusher interface {
	FlushAllKeys()
}

// LightSleeper enters and leaves light sleep. Both calls are expected to be fast.
type LightSleeper interface {
	EnterLightSleep()
	ExitLightSleep()
}

// DeepSleeper halts and resumes the device.
//
// EnterDeepSleep blocks until a hardware wake interrupt occurs. If it never
// returns the device stays halted; the controller has no recovery path for
// that and does not attempt one.
type DeepSleeper interface {
	EnterDeepSleep()
	ExitDeepSleep()
}

// Indicator drives the pre-sleep visual cue.
//
// Wait is the one sanctioned blocking delay in the controller. It is only
// called on the way into deep sleep.
type Indicator interface {
	PowerOn()
	SetRGB(r, g, b uint8)
	Wait(d time.Duration)
}

// LinkSyncer forces a final state broadcast to the paired receiver.
type LinkSyncer interface {
	SyncLinkState()
}

// Reporter receives transition events. Optional.
type Reporter interface {
	Report(event Event)
}

// Hardware bundles the collaborators the controller reads from and drives.
// Every field except Reporter is required.
type Hardware struct {
	Config    ConfigSource
	Link      LinkSource
	USB       USBMonitor
	Activity  ActivityClock
	Keys      KeyFlusher
	Light     LightSleeper
	Deep      DeepSleeper
	Indicator Indicator
	Sync      LinkSyncer
	Reporter  Reporter
}
