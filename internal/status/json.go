package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/sleep-controller/internal/power"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	State         string     `json:"state"`
	PendingSleep  bool       `json:"pending_sleep"`
	WakePrepare   bool       `json:"wake_prepare"`
	LastReason    string     `json:"last_reason,omitempty"`
	Link          LinkJSON   `json:"link"`
	Debounce      Debounce   `json:"debounce"`
	Sleep         SleepJSON  `json:"sleep"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// LinkJSON is the last link status the controller saw.
type LinkJSON struct {
	Transport string `json:"transport"`
	Phase     string `json:"phase,omitempty"`
	Charging  bool   `json:"charging"`
}

// Debounce holds the controller's running counters.
type Debounce struct {
	USBSuspendTicks   int   `json:"usb_suspend_ticks"`
	RFDisconnectTicks int   `json:"rf_disconnect_ticks"`
	RFLinkingMs       int64 `json:"rf_linking_ms"`
}

// SleepJSON is the sleep configuration in effect.
type SleepJSON struct {
	Enabled         bool  `json:"enabled"`
	USBSleep        bool  `json:"usb_sleep"`
	TimeoutSeconds  int64 `json:"timeout_seconds"`
	LinkTimeoutSecs int64 `json:"rf_link_timeout_seconds"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of transition counts.
type CountsJSON struct {
	SleepRequests int `json:"sleep_requests"`
	LightSleeps   int `json:"light_sleeps"`
	DeepSleeps    int `json:"deep_sleeps"`
	Wakes         int `json:"wakes"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs   int64  `json:"tick_ms"`
	Broker   string `json:"broker"`
	HTTPAddr string `json:"http_addr"`
	Settings string `json:"settings"`
	Wireless bool   `json:"wireless"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.Power.State)
	if state == "" {
		state = "UNKNOWN"
	}
	transport := string(snap.Link.Transport)
	if transport == "" {
		transport = "UNKNOWN"
	}
	link := LinkJSON{Transport: transport, Charging: snap.Link.Charging}
	if snap.Link.Transport == power.TransportWireless {
		link.Phase = string(snap.Link.Phase)
	}

	return StatusInner{
		State:        state,
		PendingSleep: snap.Power.PendingSleep,
		WakePrepare:  snap.Power.WakePrepare,
		LastReason:   string(snap.Power.LastReason),
		Link:         link,
		Debounce: Debounce{
			USBSuspendTicks:   snap.Power.USBSuspendCount,
			RFDisconnectTicks: snap.Power.RFDisconnectCount,
			RFLinkingMs:       snap.Power.RFLinkingElapsed.Milliseconds(),
		},
		Sleep: SleepJSON{
			Enabled:         snap.Sleep.SleepEnabled,
			USBSleep:        snap.Sleep.USBSleepToggle,
			TimeoutSeconds:  int64(snap.Sleep.SleepTimeout / time.Second),
			LinkTimeoutSecs: int64(snap.Sleep.RFLinkTimeout / time.Second),
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			SleepRequests: snap.Power.Counts.SleepRequests,
			LightSleeps:   snap.Power.Counts.LightSleeps,
			DeepSleeps:    snap.Power.Counts.DeepSleeps,
			Wakes:         snap.Power.Counts.Wakes,
		},
		Config: ConfigJSON{
			TickMs:   snap.Config.TickMs,
			Broker:   snap.Config.Broker,
			HTTPAddr: snap.Config.HTTPAddr,
			Settings: snap.Config.Settings,
			Wireless: snap.Config.Wireless,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
