// Package settings supplies the persisted sleep configuration and the radio
// link phase to the power controller. Values are cached so the controller
// never waits on storage.
package settings

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sweeney/sleep-controller/internal/power"
)

// Settings hash fields, shared with the configuration UI.
const (
	FieldSleepEnabled  = "keyboard.sleep-enabled"
	FieldUSBSleep      = "keyboard.usb-sleep"
	FieldSleepTimeout  = "keyboard.sleep-timeout"
	FieldRFLinkTimeout = "keyboard.rf-link-timeout"

	// FieldRFState is reported by the radio module.
	FieldRFState = "state"
)

// Store is a cached, concurrency-safe view of the settings.
// The zero value has sleep disabled and the link connected.
type Store struct {
	mu    sync.RWMutex
	cfg   power.Config
	phase power.Phase
}

// NewStatic creates a Store with fixed values.
func NewStatic(cfg power.Config, phase power.Phase) *Store {
	return &Store{cfg: cfg, phase: phase}
}

// SleepConfig implements power.ConfigSource.
func (s *Store) SleepConfig() power.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Phase returns the last reported radio link phase.
func (s *Store) Phase() power.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.phase == "" {
		return power.PhaseConnected
	}
	return s.phase
}

// Set replaces the cached configuration.
func (s *Store) Set(cfg power.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// SetPhase replaces the cached link phase.
func (s *Store) SetPhase(p power.Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// Parse builds a Config from settings fields. Missing fields keep their
// zero value; malformed ones are skipped and reported.
func Parse(values map[string]string) (power.Config, []error) {
	var cfg power.Config
	var errs []error

	if v, ok := values[FieldSleepEnabled]; ok {
		b, err := parseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", FieldSleepEnabled, err))
		}
		cfg.SleepEnabled = b
	}
	if v, ok := values[FieldUSBSleep]; ok {
		b, err := parseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", FieldUSBSleep, err))
		}
		cfg.USBSleepToggle = b
	}
	if v, ok := values[FieldSleepTimeout]; ok {
		d, err := parseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", FieldSleepTimeout, err))
		}
		cfg.SleepTimeout = d
	}
	if v, ok := values[FieldRFLinkTimeout]; ok {
		d, err := parseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", FieldRFLinkTimeout, err))
		}
		cfg.RFLinkTimeout = d
	}

	return cfg, errs
}

// ParsePhase maps the radio module's state string to a Phase.
func ParsePhase(s string) (power.Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linking", "pairing":
		return power.PhaseLinking, nil
	case "connected":
		return power.PhaseConnected, nil
	case "disconnected":
		return power.PhaseDisconnected, nil
	}
	return power.PhaseConnected, fmt.Errorf("unknown rf state %q", s)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "enabled", "yes":
		return true, nil
	case "off", "disabled", "no", "":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid bool %q", s)
	}
	return b, nil
}

// parseDuration accepts Go duration syntax or a bare number of seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
