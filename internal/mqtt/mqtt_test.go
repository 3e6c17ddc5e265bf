package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/sleep-controller/internal/power"
)

func TestFormatPayloadWireless(t *testing.T) {
	event := power.Event{
		Timestamp: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Type:      power.EventSleepRequested,
		Transport: power.TransportWireless,
		Phase:     power.PhaseDisconnected,
		Reason:    power.ReasonRFDisconnect,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"power":{"timestamp":"2026-01-15T10:30:00Z","event":"SLEEP_REQUESTED","transport":"WIRELESS","phase":"DISCONNECTED","reason":"rf-disconnect"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadWiredOmitsPhase(t *testing.T) {
	event := power.Event{
		Timestamp: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Type:      power.EventWake,
		From:      power.StateLightSleep,
		Transport: power.TransportWired,
		Phase:     power.PhaseConnected,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"power":{"timestamp":"2026-01-15T10:30:00Z","event":"WAKE","from":"LIGHT_SLEEP","transport":"WIRED"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	event := power.Event{
		Timestamp: time.Date(2026, 1, 15, 12, 30, 0, 0, loc),
		Type:      power.EventDeepSleep,
		Transport: power.TransportWireless,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Power.Timestamp != "2026-01-15T10:30:00Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Power.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"SHUTDOWN","reason":"MQTT_DISCONNECT"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadOmitsReason(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC),
		Event:     "STARTUP",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"STARTUP"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", payload)
	}
}

func TestFormatLinkPayload(t *testing.T) {
	payload, err := FormatLinkPayload(LinkSync{
		Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		State:     power.StateDeepSleep,
		Transport: power.TransportWireless,
		Phase:     power.PhaseConnected,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `{"link":{"timestamp":"2026-03-01T09:00:00Z","state":"DEEP_SLEEP","transport":"WIRELESS","phase":"CONNECTED"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestTopics(t *testing.T) {
	if Topic != "keyboard/power/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "keyboard/power/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
	if TopicLink != "keyboard/power/link" {
		t.Errorf("unexpected link topic: %s", TopicLink)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()
	event := power.Event{
		Timestamp: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Type:      power.EventLightSleep,
		Transport: power.TransportWired,
	}

	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Events) != 1 || f.Events[0].Type != power.EventLightSleep {
		t.Errorf("events: got %+v", f.Events)
	}
	if len(f.Payloads) != 1 {
		t.Errorf("expected 1 payload, got %d", len(f.Payloads))
	}

	if err := f.PublishLinkSync(LinkSync{State: power.StateDeepSleep}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.LinkSyncs) != 1 {
		t.Errorf("expected 1 link sync, got %d", len(f.LinkSyncs))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")
	f.PublishSystemError = errors.New("system down")
	f.PublishLinkError = errors.New("link down")

	if err := f.Publish(power.Event{}); err == nil {
		t.Error("expected publish error")
	}
	if err := f.PublishSystem(SystemEvent{}); err == nil {
		t.Error("expected system error")
	}
	if err := f.PublishLinkSync(LinkSync{}); err == nil {
		t.Error("expected link error")
	}
	if len(f.Events)+len(f.SystemEvents)+len(f.LinkSyncs) != 0 {
		t.Error("failed publishes must not be recorded")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(power.Event{Type: power.EventWake})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.PublishLinkSync(LinkSync{})
	f.Close()
	f.Connected = true

	f.Reset()

	if len(f.Events) != 0 || len(f.Payloads) != 0 || len(f.SystemEvents) != 0 ||
		len(f.SystemPayloads) != 0 || len(f.LinkSyncs) != 0 {
		t.Error("expected all recordings cleared")
	}
	if f.Closed || f.Connected {
		t.Error("expected flags cleared")
	}
}
