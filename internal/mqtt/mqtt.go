// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/panel-clock/internal/clock"
)

// Topic is the MQTT topic for clock state-change events.
const Topic = "workshop/panel-clock/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "workshop/panel-clock/system"

// TopicCommand is the MQTT topic the daemon subscribes to for remote control.
const TopicCommand = "workshop/panel-clock/command"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a clock event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event clock.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Clock ClockPayload `json:"clock"`
}

// ClockPayload contains the clock event details. Value is the raw counter
// value; Display is the two-character decimal shown on the digits.
type ClockPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Value     uint16 `json:"value"`
	Display   string `json:"display"`
	Direction string `json:"direction"`
	Running   bool   `json:"running"`
	Source    string `json:"source"`
}

// FormatPayload creates the JSON payload for a clock event.
func FormatPayload(event clock.Event) ([]byte, error) {
	payload := Payload{
		Clock: ClockPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Value:     event.Value,
			Display:   fmt.Sprintf("%02d", event.Value/event.Unit.DisplayScale()),
			Direction: string(event.Direction),
			Running:   event.Running,
			Source:    string(event.Source),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, ONLINE) that don't carry a full status snapshot.
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
