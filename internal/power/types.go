// Package power contains the sleep decision logic for the keyboard.
// This package has NO external dependencies (no GPIO, MQTT, Redis, or time.Sleep).
// Time is always injectable via time.Time parameters; every blocking call
// goes through the Hardware collaborators.
package power

import "time"

// State is the logical power state of the keyboard.
type State string

const (
	StateAwake      State = "AWAKE"
	StateLightSleep State = "LIGHT_SLEEP"
	StateDeepSleep  State = "DEEP_SLEEP"
)

// Transport is the active host link.
type Transport string

const (
	TransportWired    Transport = "WIRED"
	TransportWireless Transport = "WIRELESS"
)

// Phase is the wireless link phase. Only meaningful for TransportWireless.
type Phase string

const (
	PhaseLinking      Phase = "LINKING"
	PhaseConnected    Phase = "CONNECTED"
	PhaseDisconnected Phase = "DISCONNECTED"
)

// Reason records why a sleep was requested.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonUSBSuspend   Reason = "usb-suspend"
	ReasonIdle         Reason = "idle"
	ReasonLinkTimeout  Reason = "link-timeout"
	ReasonRFDisconnect Reason = "rf-disconnect"
)

// EventType identifies a reported transition.
type EventType string

const (
	EventSleepRequested EventType = "SLEEP_REQUESTED"
	EventLightSleep     EventType = "LIGHT_SLEEP"
	EventDeepSleep      EventType = "DEEP_SLEEP"
	EventWake           EventType = "WAKE"
)

// Config is the user-facing sleep configuration. The zero value disables sleep.
type Config struct {
	SleepEnabled   bool
	USBSleepToggle bool          // allow sleeping while wired
	SleepTimeout   time.Duration // idle time before sleeping; <= 0 disables the idle trigger
	RFLinkTimeout  time.Duration // time allowed in the linking phase; <= 0 uses DefaultLinkTimeout
}

// LinkStatus describes the current host link.
type LinkStatus struct {
	Transport Transport
	Phase     Phase
	Charging  bool
}

// Event is a power transition to be reported.
type Event struct {
	Timestamp time.Time
	Type      EventType
	From      State // state left by a wake event
	Transport Transport
	Phase     Phase
	Reason    Reason
}

// TransitionCounts tracks the number of each transition since startup.
type TransitionCounts struct {
	SleepRequests int
	LightSleeps   int
	DeepSleeps    int
	Wakes         int
}

// Snapshot is a point-in-time copy of the controller's private state.
type Snapshot struct {
	State             State
	PendingSleep      bool
	WakePrepare       bool
	USBSuspendCount   int
	RFDisconnectCount int
	RFLinkingElapsed  time.Duration
	LastReason        Reason
	LastTick          time.Time
	Wireless          bool // wireless decision branch enabled
	Counts            TransitionCounts
}
