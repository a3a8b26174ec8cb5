// Package status provides a thread-safe status tracker for the panel-clock daemon.
// It is read by HTTP handlers and serialized into MQTT system snapshots.
package status

import (
	"fmt"
	"sync"
	"time"

	"github.com/sweeney/panel-clock/internal/clock"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	ResolutionMs int64
	PollMs       int64
	RefreshMs    int64
	HeartbeatMs  int64
	Broker       string
	HTTPPort     string
	WSBroker     string // Websocket broker URL for browser MQTT (empty = disabled)
	Displays     string // comma-separated display backends
	Chip         string // GPIO chip name (empty when simulated)
	ButtonPins   string
	OnesPins     string
	TensPins     string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Value         uint16
	Unit          clock.Unit
	Direction     clock.Direction
	Running       bool
	TimerPosition uint32
	Counts        clock.PressCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// DisplayValue returns the two-character decimal the digits show.
func (s Snapshot) DisplayValue() string {
	return fmt.Sprintf("%02d", s.Value/s.Unit.DisplayScale())
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time, unit, and config.
func NewTracker(startTime time.Time, unit clock.Unit, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Unit:      unit,
			Direction: clock.Ascending,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the counter state and operation counts.
// Called from runLoop whenever the clock changes.
func (t *Tracker) Update(value uint16, dir clock.Direction, running bool, timerPos uint32, counts clock.PressCounts) {
	t.mu.Lock()
	t.snap.Value = value
	t.snap.Direction = dir
	t.snap.Running = running
	t.snap.TimerPosition = timerPos
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
