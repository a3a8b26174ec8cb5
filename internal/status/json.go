package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Value         uint16       `json:"value"`
	Display       string       `json:"display"`
	Unit          string       `json:"unit"`
	Direction     string       `json:"direction"`
	Running       bool         `json:"running"`
	TimerPosition uint32       `json:"timer_position"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"press_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of applied-operation counts.
type CountsJSON struct {
	StartStop int `json:"start_stop"`
	Swap      int `json:"swap"`
	Reset     int `json:"reset"`
	Wraps     int `json:"wraps"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	ResolutionMs int64  `json:"resolution_ms"`
	PollMs       int64  `json:"poll_ms"`
	RefreshMs    int64  `json:"refresh_ms"`
	HeartbeatMs  int64  `json:"heartbeat_ms"`
	Broker       string `json:"broker"`
	HTTPPort     string `json:"http_port"`
	WSBroker     string `json:"ws_broker,omitempty"`
	Displays     string `json:"displays"`
	Chip         string `json:"gpio_chip,omitempty"`
	ButtonPins   string `json:"button_pins,omitempty"`
	OnesPins     string `json:"ones_pins,omitempty"`
	TensPins     string `json:"tens_pins,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	direction := string(snap.Direction)
	if direction == "" {
		direction = "UNKNOWN"
	}
	unit := string(snap.Unit)
	if unit == "" {
		unit = "UNKNOWN"
	}

	return StatusInner{
		Value:         snap.Value,
		Display:       snap.DisplayValue(),
		Unit:          unit,
		Direction:     direction,
		Running:       snap.Running,
		TimerPosition: snap.TimerPosition,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			StartStop: snap.Counts.StartStop,
			Swap:      snap.Counts.Swap,
			Reset:     snap.Counts.Reset,
			Wraps:     snap.Counts.Wraps,
		},
		Config: ConfigJSON{
			ResolutionMs: snap.Config.ResolutionMs,
			PollMs:       snap.Config.PollMs,
			RefreshMs:    snap.Config.RefreshMs,
			HeartbeatMs:  snap.Config.HeartbeatMs,
			Broker:       snap.Config.Broker,
			HTTPPort:     snap.Config.HTTPPort,
			WSBroker:     snap.Config.WSBroker,
			Displays:     snap.Config.Displays,
			Chip:         snap.Config.Chip,
			ButtonPins:   snap.Config.ButtonPins,
			OnesPins:     snap.Config.OnesPins,
			TensPins:     snap.Config.TensPins,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
