package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sweeney/sleep-controller/internal/gpio"
	"github.com/sweeney/sleep-controller/internal/logger"
	"github.com/sweeney/sleep-controller/internal/power"
)

// phaseSource reports the radio phase published by the radio service.
type phaseSource interface {
	Phase() power.Phase
}

// hostLink combines the GPIO power lines with the radio phase into the
// controller's link and USB inputs. sample is called once per tick so the
// controller sees one consistent reading.
type hostLink struct {
	reader gpio.Reader
	phase  phaseSource
	log    *logger.Logger

	last   gpio.Signals
	failed bool
}

func newHostLink(reader gpio.Reader, phase phaseSource, l *logger.Logger) *hostLink {
	return &hostLink{reader: reader, phase: phase, log: l}
}

// sample reads the lines. On error the previous reading is kept and the
// failure logged once until the next good read.
func (h *hostLink) sample() {
	s, err := h.reader.Read()
	if err != nil {
		if !h.failed {
			h.log.Warnf("gpio read error: %v", err)
		}
		h.failed = true
		return
	}
	if h.failed {
		h.log.Infof("gpio read recovered")
	}
	h.failed = false
	h.last = s
}

// LinkStatus implements power.LinkSource.
func (h *hostLink) LinkStatus() power.LinkStatus {
	if !h.last.Wireless {
		return power.LinkStatus{Transport: power.TransportWired, Phase: power.PhaseConnected, Charging: h.last.Charging}
	}
	return power.LinkStatus{Transport: power.TransportWireless, Phase: h.phase.Phase(), Charging: h.last.Charging}
}

// USBSuspended implements power.USBMonitor.
func (h *hostLink) USBSuspended() bool {
	return h.last.USBSuspended
}

func parsePins(s string) ([]int, error) {
	var pins []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid pin %q", f)
		}
		pins = append(pins, n)
	}
	if len(pins) == 0 {
		return nil, fmt.Errorf("no key pins given")
	}
	return pins, nil
}

func joinPins(pins []int) string {
	parts := make([]string, len(pins))
	for i, p := range pins {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}
