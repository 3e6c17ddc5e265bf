// Package status provides a thread-safe status tracker for the sleep-controller daemon.
// It is read by the HTTP handlers and the MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/sleep-controller/internal/power"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs   int64
	Broker   string
	HTTPAddr string
	Settings string // "redis://host:port" or the env file path
	Wireless bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Power         power.Snapshot
	Link          power.LinkStatus
	Sleep         power.Config
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Power:     power.Snapshot{State: power.StateAwake},
		},
		now: time.Now,
	}
}

// Update records the controller state and the inputs it last saw.
// Called from runLoop on every tick.
func (t *Tracker) Update(ps power.Snapshot, link power.LinkStatus, cfg power.Config) {
	t.mu.Lock()
	t.snap.Power = ps
	t.snap.Link = link
	t.snap.Sleep = cfg
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
