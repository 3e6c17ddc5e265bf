// Package mqtt publishes keyboard power events with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/sleep-controller/internal/power"
)

// Topic is the MQTT topic for power transition events.
const Topic = "keyboard/power/events"

// TopicSystem is the MQTT topic for daemon lifecycle events.
const TopicSystem = "keyboard/power/system"

// TopicLink is the retained topic the paired receiver watches for link state.
const TopicLink = "keyboard/power/link"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a power transition event.
	// Returns error if publishing fails (should not crash the process).
	Publish(event power.Event) error

	// PublishSystem sends a daemon lifecycle event.
	PublishSystem(event SystemEvent) error

	// PublishLinkSync broadcasts the final link state before a deep sleep.
	PublishLinkSync(sync LinkSync) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a daemon lifecycle event (startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT", "MQTT_DISCONNECT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// LinkSync is the state broadcast to the receiver.
type LinkSync struct {
	Timestamp time.Time
	State     power.State
	Transport power.Transport
	Phase     power.Phase
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Power PowerPayload `json:"power"`
}

// PowerPayload contains the transition details.
type PowerPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	From      string `json:"from,omitempty"`
	Transport string `json:"transport"`
	Phase     string `json:"phase,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// FormatPayload creates the JSON payload for a power event.
// Phase is only included for wireless links.
func FormatPayload(event power.Event) ([]byte, error) {
	p := PowerPayload{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Event:     string(event.Type),
		From:      string(event.From),
		Transport: string(event.Transport),
		Reason:    string(event.Reason),
	}
	if event.Transport == power.TransportWireless {
		p.Phase = string(event.Phase)
	}
	return json.Marshal(Payload{Power: p})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for the last-will SHUTDOWN, which doesn't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// LinkPayload is the retained link-sync message.
type LinkPayload struct {
	Link LinkPayloadInner `json:"link"`
}

// LinkPayloadInner contains the link-sync details.
type LinkPayloadInner struct {
	Timestamp string `json:"timestamp"`
	State     string `json:"state"`
	Transport string `json:"transport"`
	Phase     string `json:"phase,omitempty"`
}

// FormatLinkPayload creates the JSON payload for a link sync.
func FormatLinkPayload(sync LinkSync) ([]byte, error) {
	inner := LinkPayloadInner{
		Timestamp: sync.Timestamp.UTC().Format(time.RFC3339),
		State:     string(sync.State),
		Transport: string(sync.Transport),
	}
	if sync.Transport == power.TransportWireless {
		inner.Phase = string(sync.Phase)
	}
	return json.Marshal(LinkPayload{Link: inner})
}
