package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/panel-clock/internal/clock"
)

var (
	_ Publisher        = (*RealPublisher)(nil)
	_ Publisher        = (*FakePublisher)(nil)
	_ Publisher        = NopPublisher{}
	_ ConnectionStatus = (*RealPublisher)(nil)
	_ ConnectionStatus = (*FakePublisher)(nil)
	_ ConnectionStatus = NopPublisher{}
)

func TestFormatPayload(t *testing.T) {
	event := clock.Event{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Type:      clock.EventStarted,
		Value:     37,
		Unit:      clock.Seconds,
		Direction: clock.Ascending,
		Running:   true,
		Source:    clock.SourceButton,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"clock":{"timestamp":"2026-02-03T10:30:45Z","event":"STARTED","value":37,"display":"37","direction":"UP","running":true,"source":"button"}}`
	if string(payload) != expected {
		t.Errorf("payload mismatch:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatPayloadDescendingWrap(t *testing.T) {
	event := clock.Event{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Type:      clock.EventWrap,
		Value:     59999,
		Unit:      clock.Millis,
		Direction: clock.Descending,
		Running:   true,
		Source:    clock.SourceSelf,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"clock":{"timestamp":"2026-02-03T10:30:45Z","event":"WRAP","value":59999,"display":"59","direction":"DOWN","running":true,"source":"self"}}`
	if string(payload) != expected {
		t.Errorf("payload mismatch:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatPayloadDisplay(t *testing.T) {
	tests := []struct {
		name  string
		value uint16
		unit  clock.Unit
		want  string
	}{
		{"seconds zero", 0, clock.Seconds, "00"},
		{"seconds single digit padded", 7, clock.Seconds, "07"},
		{"seconds max", 59, clock.Seconds, "59"},
		{"millis zero", 0, clock.Millis, "00"},
		{"millis below one second", 999, clock.Millis, "00"},
		{"millis one second", 1000, clock.Millis, "01"},
		{"millis max", 59999, clock.Millis, "59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := clock.Event{
				Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
				Type:      clock.EventWrap,
				Value:     tt.value,
				Unit:      tt.unit,
				Direction: clock.Ascending,
				Running:   true,
				Source:    clock.SourceSelf,
			}

			data, err := FormatPayload(event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(data, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if parsed.Clock.Display != tt.want {
				t.Errorf("display: got %q, want %q", parsed.Clock.Display, tt.want)
			}
			if parsed.Clock.Value != tt.value {
				t.Errorf("value: got %d, want %d", parsed.Clock.Value, tt.value)
			}
		})
	}
}

func TestFormatPayloadAllEventTypes(t *testing.T) {
	tests := []struct {
		eventType clock.EventType
		want      string
	}{
		{clock.EventStarted, "STARTED"},
		{clock.EventStopped, "STOPPED"},
		{clock.EventDirectionUp, "DIRECTION_UP"},
		{clock.EventDirectionDown, "DIRECTION_DOWN"},
		{clock.EventReset, "RESET"},
		{clock.EventWrap, "WRAP"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			event := clock.Event{
				Timestamp: time.Now(),
				Type:      tt.eventType,
				Unit:      clock.Seconds,
				Direction: clock.Ascending,
				Source:    clock.SourceButton,
			}

			payload, err := FormatPayload(event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if parsed.Clock.Event != tt.want {
				t.Errorf("event: got %s, want %s", parsed.Clock.Event, tt.want)
			}
		})
	}
}

func TestFormatPayloadConvertsToUTC(t *testing.T) {
	// 07:30:45 at UTC-5 is 12:30:45 UTC
	loc := time.FixedZone("EST", -5*60*60)
	event := clock.Event{
		Timestamp: time.Date(2026, 1, 15, 7, 30, 45, 0, loc),
		Type:      clock.EventReset,
		Value:     0,
		Unit:      clock.Seconds,
		Direction: clock.Ascending,
		Running:   false,
		Source:    clock.SourceRemote,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Clock.Timestamp != "2026-01-15T12:30:45Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Clock.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("payload mismatch:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "ONLINE",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	system, ok := parsed["system"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing system object in %s", payload)
	}
	if _, present := system["reason"]; present {
		t.Errorf("empty reason should be omitted, got %s", payload)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"value":17,"running":true}}`)
	event := SystemEvent{
		Timestamp:  time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:      "HEARTBEAT",
		RawPayload: raw,
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(payload) != string(raw) {
		t.Errorf("raw payload not passed through:\ngot:  %s\nwant: %s", payload, raw)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	event := clock.Event{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Type:      clock.EventStarted,
		Value:     12,
		Unit:      clock.Seconds,
		Direction: clock.Ascending,
		Running:   true,
		Source:    clock.SourceButton,
	}

	err := f.Publish(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Type != clock.EventStarted {
		t.Errorf("unexpected event type: %s", f.Events[0].Type)
	}

	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}

	var parsed Payload
	if err := json.Unmarshal(f.Payloads[0], &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Clock.Value != 12 {
		t.Errorf("value: got %d, want 12", parsed.Clock.Value)
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	err := f.Publish(clock.Event{Unit: clock.Seconds})
	if err == nil {
		t.Error("expected error")
	}

	if len(f.Events) != 0 {
		t.Errorf("expected no events recorded on error, got %d", len(f.Events))
	}
}

func TestFakePublisherSystemEvents(t *testing.T) {
	f := NewFakePublisher()

	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "STARTUP",
		Retained:  true,
	}
	if err := f.PublishSystem(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.SystemEvents))
	}
	if f.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("unexpected event: %s", f.SystemEvents[0].Event)
	}
	if !f.SystemEvents[0].Retained {
		t.Error("retained flag lost")
	}
}

func TestFakePublisherSystemEventsNamed(t *testing.T) {
	f := NewFakePublisher()
	for _, name := range []string{"STARTUP", "HEARTBEAT", "HEARTBEAT", "SHUTDOWN"} {
		if err := f.PublishSystem(SystemEvent{Event: name}); err != nil {
			t.Fatalf("publish %s: %v", name, err)
		}
	}

	if beats := f.SystemEventsNamed("HEARTBEAT"); len(beats) != 2 {
		t.Errorf("HEARTBEAT: got %d events, want 2", len(beats))
	}
	if got := f.SystemEventsNamed("ONLINE"); got != nil {
		t.Errorf("ONLINE: got %v, want nil", got)
	}
}

func TestFakePublisherClose(t *testing.T) {
	f := NewFakePublisher()

	if f.Closed {
		t.Error("should not be closed initially")
	}

	err := f.Close()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Connected = true

	f.Publish(clock.Event{Unit: clock.Seconds})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()
	f.PublishError = errors.New("error")

	f.Reset()

	if len(f.Events) != 0 {
		t.Error("events should be cleared")
	}
	if len(f.Payloads) != 0 {
		t.Error("payloads should be cleared")
	}
	if len(f.SystemEvents) != 0 {
		t.Error("system events should be cleared")
	}
	if f.Closed {
		t.Error("closed should be reset")
	}
	if f.PublishError != nil {
		t.Error("error should be cleared")
	}
	if f.IsConnected() {
		t.Error("connected should be reset")
	}
}

func TestTopic(t *testing.T) {
	expected := "workshop/panel-clock/events"
	if Topic != expected {
		t.Errorf("unexpected topic: got %s, want %s", Topic, expected)
	}
}

func TestTopicSystem(t *testing.T) {
	expected := "workshop/panel-clock/system"
	if TopicSystem != expected {
		t.Errorf("unexpected system topic: got %s, want %s", TopicSystem, expected)
	}
}

func TestTopicCommand(t *testing.T) {
	expected := "workshop/panel-clock/command"
	if TopicCommand != expected {
		t.Errorf("unexpected command topic: got %s, want %s", TopicCommand, expected)
	}
}
